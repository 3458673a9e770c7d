// Package config defines the data structures related to configuration and
// includes functions for loading and converting the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/iwvelando/mortgage-calculator/pkg/blended"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/heloc"
	"github.com/iwvelando/mortgage-calculator/pkg/purchase"
	"github.com/iwvelando/mortgage-calculator/pkg/schedule"
)

// Configuration holds all configuration for mortgage-calculator.
type Configuration struct {
	Logging    LoggingConfig      `yaml:"logging,omitempty"`
	Output     OutputConfig       `yaml:"output,omitempty"`
	History    HistoryConfig      `yaml:"history,omitempty"`
	Purchases  []PurchaseScenario `yaml:"purchases,omitempty"`
	Heloc      *HelocScenario     `yaml:"heloc,omitempty"`
	Blended    *BlendedScenario   `yaml:"blended,omitempty"`
	Comparison *ComparisonConfig  `yaml:"comparison,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format       string `yaml:"format,omitempty"` // pretty, csv
	FullSchedule bool   `yaml:"fullSchedule,omitempty"`
}

// HistoryConfig holds result-history persistence options. An empty
// RedisAddress selects the in-memory store.
type HistoryConfig struct {
	RedisAddress string `yaml:"redisAddress,omitempty"`
	Limit        int    `yaml:"limit,omitempty"`
}

// PurchaseScenario describes one purchase calculation.
type PurchaseScenario struct {
	Name          string
	PropertyValue float64
	DownPayment   float64
	Rate          float64
	TermYears     int
	TermMonths    int
	PMIRate       float64
	PMIEndRule    float64
	PropertyTax   float64
	HomeInsurance float64
	HOA           float64
	Extra         float64
}

// HelocScenario describes one HELOC analysis.
type HelocScenario struct {
	PropertyValue      float64
	OutstandingBalance float64
	HelocAmount        float64
	Rate               float64
	DrawYears          int
	TotalYears         int
}

// ComponentScenario describes one blended-mortgage component.
type ComponentScenario struct {
	Name        string
	Amount      float64
	Rate        float64
	TermYears   int
	Type        string
	DrawMonths  int
	RepayMonths int
}

// BlendedScenario describes one blended-mortgage calculation.
type BlendedScenario struct {
	HomeValue     float64
	DownPayment   float64
	MonthlyIncome float64
	First         ComponentScenario
	Second        *ComponentScenario
	Additional    []ComponentScenario
}

// LoanScenario describes one loan in a multi-loan comparison.
type LoanScenario struct {
	Name           string
	Amount         float64
	Rate           float64
	TermYears      int
	TermMonths     int
	Extra          float64
	PMIMonthly     float64
	PropertyTax    float64
	HomeInsurance  float64
	HOA            float64
	AppraisedValue float64
	PMIEndRule     float64
}

// ComparisonConfig describes a multi-loan comparison run.
type ComparisonConfig struct {
	Mode  string
	Loans []LoanScenario
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ToInput converts a purchase scenario into the calculator input,
// defaulting the term from years when months are not given.
func (s PurchaseScenario) ToInput() purchase.Input {
	termMonths := s.TermMonths
	if termMonths == 0 {
		termMonths = s.TermYears * constants.MonthsPerYear
	}
	return purchase.Input{
		Name:          s.Name,
		PropertyValue: s.PropertyValue,
		DownPayment:   s.DownPayment,
		Rate:          s.Rate,
		TermMonths:    termMonths,
		PMIRate:       s.PMIRate,
		PMIEndRule:    s.PMIEndRule,
		PropertyTax:   s.PropertyTax,
		HomeInsurance: s.HomeInsurance,
		HOA:           s.HOA,
		Extra:         s.Extra,
	}
}

// ToInput converts a HELOC scenario into the calculator input.
func (s HelocScenario) ToInput() heloc.Input {
	return heloc.Input{
		PropertyValue:      s.PropertyValue,
		OutstandingBalance: s.OutstandingBalance,
		HelocAmount:        s.HelocAmount,
		Rate:               s.Rate,
		DrawYears:          s.DrawYears,
		TotalYears:         s.TotalYears,
	}
}

// ToComponent converts a component scenario into the calculator component.
func (s ComponentScenario) ToComponent() blended.Component {
	componentType := blended.ComponentType(s.Type)
	if componentType == "" {
		componentType = blended.ComponentFixed
	}
	return blended.Component{
		Name:        s.Name,
		Amount:      s.Amount,
		Rate:        s.Rate,
		TermYears:   s.TermYears,
		Type:        componentType,
		DrawMonths:  s.DrawMonths,
		RepayMonths: s.RepayMonths,
	}
}

// ToParams converts a blended scenario into the calculator parameters.
func (s BlendedScenario) ToParams() blended.Params {
	params := blended.Params{
		HomeValue:     s.HomeValue,
		DownPayment:   s.DownPayment,
		MonthlyIncome: s.MonthlyIncome,
		First:         s.First.ToComponent(),
	}
	if s.Second != nil {
		second := s.Second.ToComponent()
		params.Second = &second
	}
	for _, component := range s.Additional {
		params.Additional = append(params.Additional, component.ToComponent())
	}
	return params
}

// ToInput converts a loan scenario into the schedule builder input.
func (s LoanScenario) ToInput() schedule.LoanInput {
	termMonths := s.TermMonths
	if termMonths == 0 {
		termMonths = s.TermYears * constants.MonthsPerYear
	}
	return schedule.LoanInput{
		Name:           s.Name,
		Amount:         s.Amount,
		Rate:           s.Rate,
		TermMonths:     termMonths,
		Extra:          s.Extra,
		PMIMonthly:     s.PMIMonthly,
		PropertyTax:    s.PropertyTax,
		HomeInsurance:  s.HomeInsurance,
		HOA:            s.HOA,
		AppraisedValue: s.AppraisedValue,
		PMIEndRule:     s.PMIEndRule,
	}
}
