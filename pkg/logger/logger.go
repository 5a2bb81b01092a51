package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Production selects the JSON production encoder.
const Production = "production"

// New builds a logger for environment. Development loggers write colored console
// output; verbose lowers the level to debug.
func New(environment string, verbose bool) (log *zap.Logger, err error) {
	var config zap.Config

	if environment == Production {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	log, err = config.Build()
	return log, err
}
