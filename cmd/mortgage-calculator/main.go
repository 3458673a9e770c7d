package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/history"
	"github.com/iwvelando/mortgage-calculator/internal/server"
	"github.com/iwvelando/mortgage-calculator/pkg/blended"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/heloc"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"github.com/iwvelando/mortgage-calculator/pkg/purchase"
	"github.com/iwvelando/mortgage-calculator/pkg/schedule"
	"github.com/iwvelando/mortgage-calculator/pkg/scoring"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "start the HTTP API server instead of running configured scenarios")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	if *serve {
		runServer(*serverConfigLocation, *logLevel)
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal(fmt.Sprintf("invalid output format %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	runScenarios(logger, conf, outputFormat)
}

func runScenarios(logger *zap.Logger, conf *config.Configuration, outputFormat string) {
	builder := schedule.NewBuilder(logger)

	for _, scenario := range conf.Purchases {
		result := purchase.ComputePurchaseScenario(logger, scenario.ToInput())
		if outputFormat == constants.OutputFormatCSV {
			fmt.Print(output.ScheduleCSV(result.Loan.Schedule))
		} else {
			output.PrettyLoanSummary(result.Loan)
		}
	}

	if conf.Heloc != nil {
		calculator := heloc.NewCalculator(logger)
		result, err := calculator.ComputeHelocAnalysis(conf.Heloc.ToInput())
		if err != nil {
			logger.Fatal("HELOC analysis failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if outputFormat == constants.OutputFormatCSV {
			fmt.Print(output.ScheduleCSV(result.Schedule))
		} else {
			output.PrettyHelocSummary(result)
		}
	}

	if conf.Blended != nil {
		calculator := blended.NewCalculator(logger)
		result, err := calculator.Calculate(conf.Blended.ToParams())
		if err != nil {
			logger.Fatal("blended mortgage calculation failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if outputFormat == constants.OutputFormatCSV {
			fmt.Print(output.BlendedScheduleCSV(result.Combined.Schedule))
		} else {
			output.PrettyBlendedSummary(result)
		}
	}

	if conf.Comparison != nil {
		results := make([]*schedule.LoanResult, 0, len(conf.Comparison.Loans))
		for _, loan := range conf.Comparison.Loans {
			result := builder.BuildFixedLoanSchedule(loan.ToInput())
			results = append(results, &result)
		}
		best := scoring.DetermineBestLoan(results, scoring.Mode(conf.Comparison.Mode))
		for _, result := range results {
			output.PrettyLoanSummary(*result)
		}
		if best != nil {
			name := best.Input.Name
			if name == "" {
				name = "first candidate"
			}
			fmt.Printf("Best loan: %s (basis: %s)\n", name, best.Evaluation.ScoreBasis)
		}
	}
}

func runServer(configLocation, logLevelOverride string) {
	cfg, err := server.LoadConfig(configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration\", \"error\": \"%v\"}\n", err)
		return
	}

	logger, err := initializeLogger(cfg.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	var store history.Store
	if cfg.History.RedisAddress != "" {
		redisStore := history.NewRedisStore(cfg.History.RedisAddress, cfg.History.Limit)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisStore.Ping(pingCtx); err != nil {
			logger.Warn("redis history store unreachable; saves will fail until it recovers",
				zap.String("op", "main"),
				zap.String("address", cfg.History.RedisAddress),
				zap.Error(err),
			)
		}
		cancel()
		store = redisStore
		logger.Info("using redis history store",
			zap.String("op", "main"),
			zap.String("address", cfg.History.RedisAddress),
		)
	} else {
		store = history.NewMemoryStore(cfg.History.Limit)
	}

	handler := server.NewHandler(logger, store, cfg.RequestSizeBytes(), version)

	logger.Info("starting HTTP server",
		zap.String("op", "main"),
		zap.String("address", cfg.Address),
	)
	if err := http.ListenAndServe(cfg.Address, handler); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
