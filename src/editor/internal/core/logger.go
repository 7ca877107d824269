package core

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig represents the logging configuration from the config files
type LoggingConfig struct {
	Level       string   `yaml:"level"`
	Development bool     `yaml:"development"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"outputPaths"`
}

// Validate implements validation.Validatable.
func (c *LoggingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required),
		validation.Field(&c.Encoding, validation.In("json", "console")),
	)
}

// LoggerModule provides the logger dependencies
var LoggerModule = fx.Options(
	fx.Provide(NewSugaredLogger),
	fx.Provide(NewLogger),
)

func NewLogger(sugar *zap.SugaredLogger) *zap.Logger {
	return sugar.Desugar()
}

// NewSugaredLogger creates a new zap.SugaredLogger based on the configuration
func NewSugaredLogger(provider config.Provider) (*zap.SugaredLogger, error) {
	var loggingConfig LoggingConfig
	if err := PopulateValidated(provider, "logging", &loggingConfig); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(loggingConfig.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if loggingConfig.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	var encoder zapcore.Encoder
	switch loggingConfig.Encoding {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	sink, err := openSinks(loggingConfig.OutputPaths)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, sink, level)

	var logger *zap.Logger
	if loggingConfig.Development {
		logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		logger = zap.New(core)
	}

	return logger.Sugar(), nil
}

// openSinks resolves output paths, defaulting to stdout.
func openSinks(paths []string) (zapcore.WriteSyncer, error) {
	if len(paths) == 0 {
		return zapcore.AddSync(os.Stdout), nil
	}
	sink, _, err := zap.Open(paths...)
	if err != nil {
		return nil, fmt.Errorf("opening log outputs: %w", err)
	}
	return sink, nil
}
