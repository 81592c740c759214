package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

type Configuration struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

func Initialize(cfg Configuration) error {
	zLevel, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "json"
	}

	config := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(zLevel),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "message",
			LevelKey:      "level",
			TimeKey:       "time",
			CallerKey:     "caller",
			StacktraceKey: "stacktrace",
			LineEnding:    zapcore.DefaultLineEnding,
			EncodeLevel:   zapcore.LowercaseLevelEncoder,
			EncodeTime:    zapcore.ISO8601TimeEncoder,
			EncodeCaller:  zapcore.ShortCallerEncoder,
		},
	}

	built, err := config.Build()
	if err != nil {
		return err
	}
	log = built

	return nil
}

// Logger returns the process logger. Before Initialize it is a no-op logger,
// which keeps packages usable from tests.
func Logger() *zap.Logger {
	return log
}

func Sync() error {
	return log.Sync()
}
