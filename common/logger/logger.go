package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package logger provides the unified logging surface for the pipeline.
// Stages log through the package-level functions so call sites stay terse.

var (
	base  *zap.SugaredLogger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.DisableStacktrace = true
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}
	base = l.Sugar()
}

// SetLevel sets the minimum level for all package-level functions.
func SetLevel(l zapcore.Level) { level.SetLevel(l) }

// UseNop replaces the backend with a no-op logger. Used by tests.
func UseNop() { base = zap.NewNop().Sugar() }

// Use replaces the backend logger, e.g. with a development config.
func Use(l *zap.Logger) { base = l.Sugar() }

func Debugf(format string, args ...interface{}) { base.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { base.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { base.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { base.Errorf(format, args...) }
