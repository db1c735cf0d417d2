// Package logger holds the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const appName = "stock-analysis"

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the global logger for env. It only takes effect on the first call.
//
//   - "production": JSON at info level with ISO8601 timestamps
//   - "test": discards everything
//   - anything else: colored console output at debug level
func Init(env string) {
	once.Do(func() {
		sugar = build(env).Sugar()
	})
}

func build(env string) *zap.Logger {
	var cfg zap.Config
	switch env {
	case "test":
		return zap.NewNop()
	case "production":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	base, err := cfg.Build(zap.Fields(zap.String("app", appName)))
	if err != nil {
		return zap.NewNop()
	}
	return base
}

// Get returns the global logger, falling back to the development logger
// when Init was never called.
func Get() *zap.SugaredLogger {
	Init("development")
	return sugar
}

// Named returns the global logger scoped to component, e.g. "backfill".
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// Sync flushes buffered entries.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
