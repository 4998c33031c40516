package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mbeaufils/patrimoine/internal/cache"
	"github.com/mbeaufils/patrimoine/internal/config"
	"github.com/mbeaufils/patrimoine/internal/server"
	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/mbeaufils/patrimoine/pkg/loan"
	"github.com/mbeaufils/patrimoine/pkg/output"
	"github.com/mbeaufils/patrimoine/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
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
	configLocation := flag.String("config", "", "path to configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	printSchedule := flag.Bool("print-schedule", false, "print the default loan's amortization schedule and exit")
	outputFormat := flag.String("output-format", constants.OutputFormatPretty, "schedule output format: pretty, json")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range conf.Validate() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if *printSchedule {
		if err := runPrintSchedule(logger, conf, *outputFormat); err != nil {
			logger.Fatal("failed to print schedule",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	var responseCache cache.Cache = cache.Disabled{}
	if conf.Cache.RedisAddress != "" {
		ttl := time.Duration(conf.Cache.TTLSeconds) * time.Second
		redisCache := cache.NewRedisCache(conf.Cache.RedisAddress, ttl, logger)
		defer func() {
			_ = redisCache.Close()
		}()
		responseCache = redisCache
		logger.Info("response cache enabled",
			zap.String("op", "main"),
			zap.String("redisAddress", conf.Cache.RedisAddress),
		)
	}

	handler := server.NewHandler(logger, responseCache, conf.Defaults, version, conf.Server.MaxBodyBytes)
	logger.Info("starting patrimoine API",
		zap.String("op", "main"),
		zap.String("address", conf.Server.Address),
		zap.String("version", version),
	)
	if err := http.ListenAndServe(conf.Server.Address, handler); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// runPrintSchedule amortizes the configured default loan and writes it to
// stdout.
func runPrintSchedule(logger *zap.Logger, conf *config.Configuration, format string) error {
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	engine := loan.NewEngine(logger)
	result, err := engine.Amortize(loan.Terms{
		Principal:  conf.Defaults.Loan.Principal,
		AnnualRate: conf.Defaults.Loan.AnnualRate,
		Years:      conf.Defaults.Loan.Years,
	})
	if err != nil {
		return err
	}

	switch format {
	case constants.OutputFormatPretty:
		output.PrettyAmortization(os.Stdout, result)
		fmt.Println()
		output.PrettyAnnualAggregates(os.Stdout, result)
	case constants.OutputFormatJSON:
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
	}
	return nil
}
