package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info", "normal":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", level)
}

// Logger returns the program logger named name. JSON goes to stdout as one
// stream; the console format splits errors onto stderr.
func (c Config) Logger(name string) (*zap.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	var core zapcore.Core
	switch c.LogFormat {
	case "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeCaller = nil
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc := zapcore.NewConsoleEncoder(ec)

		lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return level <= lvl && lvl < zapcore.ErrorLevel
		})
		highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.ErrorLevel && lvl >= level
		})
		core = zapcore.NewTee(
			zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lowPriority),
			zapcore.NewCore(enc, zapcore.Lock(os.Stderr), highPriority),
		)
	default:
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		core = zapcore.NewCore(zapcore.NewJSONEncoder(ec), zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(level))
	}

	return zap.New(core, zap.AddCaller()).Named(name), nil
}
