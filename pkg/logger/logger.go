package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init initializes and configures a zap logger based on the provided configuration.
// It sets up the appropriate log level and format according to the config settings.
// Records go to stdout and to every extra output path (files are opened in append mode).
func Init(format string, logLevel string, outputs ...string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	level, err := zapcore.ParseLevel(logLevel)
	if err == nil {
		lvl = level
	}

	loggerCfg := &zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: format,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "severity",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeTime:     zapcore.RFC3339TimeEncoder,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder, EncodeCaller: zapcore.ShortCallerEncoder,
		},
		OutputPaths:      append([]string{"stdout"}, outputs...),
		ErrorOutputPaths: []string{"stderr"},
	}

	return loggerCfg.Build(zap.AddStacktrace(zap.DPanicLevel))
}
