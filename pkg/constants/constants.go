// Package constants provides shared constants for the mortgage-calculator application.
package constants

// DateTimeLayout is the output date format for schedule rows.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// ZeroRateEpsilon is the cutoff below which a monthly rate is treated as
	// exactly zero and the linear amortization branch is used
	ZeroRateEpsilon = 1e-12
)

// PMI constants
const (
	// DefaultPMIEndRule is the default LTV percentage at or below which PMI drops
	DefaultPMIEndRule = 80.0

	// ConservativePMIEndRule is the stricter LTV percentage some lenders use
	ConservativePMIEndRule = 78.0
)

// HELOC constants
const (
	// DefaultHelocDrawMonths is the assumed interest-only draw phase for a
	// blended second-mortgage HELOC when the caller supplies no phase split
	DefaultHelocDrawMonths = 120

	// DefaultHelocRepayMonths is the assumed amortizing repayment phase for a
	// blended second-mortgage HELOC when the caller supplies no phase split
	DefaultHelocRepayMonths = 240

	// MinimumRepaymentMonths is the floor a degenerate HELOC repayment period
	// is auto-extended to when draw and total terms coincide
	MinimumRepaymentMonths = 12
)

// Blended mortgage constants
const (
	// MaxCombinedLTVPercent is the hard validation limit on combined LTV when
	// a second mortgage is present
	MaxCombinedLTVPercent = 95.0

	// MaxReasonableRatePercent is the sanity ceiling on an annual rate
	MaxReasonableRatePercent = 50.0

	// TraditionalComparisonRatePercent is the assumed market rate for the
	// illustrative single-loan comparison
	TraditionalComparisonRatePercent = 7.0

	// TraditionalComparisonTermMonths is the term of the illustrative
	// single-loan comparison
	TraditionalComparisonTermMonths = 360
)

// Rounding and tolerance constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// ResidualFoldLimit is the largest terminal residual that is folded into
	// the final schedule row rather than treated as a real balance
	ResidualFoldLimit = 5.0

	// ReconciliationTolerance is the tolerance for row-level principal
	// reconciliation across blended components
	ReconciliationTolerance = 1e-8
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024

	// DefaultHistoryLimit is the default number of recent results retained
	DefaultHistoryLimit = 20
)
