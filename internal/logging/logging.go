// Package logging provides structured logging with zap.
//
// The terminal UI owns stdout and stderr while it runs, so the default sink
// is a log file rather than the console.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	globalLevel  zap.AtomicLevel
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	OutputPath string // file path; empty disables logging entirely
}

// Init initializes the global logger.
func Init(cfg Config) error {
	if cfg.OutputPath == "" {
		globalLogger = zap.NewNop()
		return nil
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	globalLevel = zap.NewAtomicLevelAt(level)
	config.Level = globalLevel
	config.OutputPaths = []string{cfg.OutputPath}
	config.ErrorOutputPaths = []string{cfg.OutputPath}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return err
	}

	globalLogger = logger
	return nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// SetLevel changes the global log level at runtime. A no-op until Init has
// built a file-backed logger.
func SetLevel(level string) {
	if globalLevel == (zap.AtomicLevel{}) {
		return
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

// L returns the global logger.
func L() *zap.Logger {
	if globalLogger == nil {
		globalLogger = zap.NewNop()
	}
	return globalLogger
}

// S returns the global sugared logger.
func S() *zap.SugaredLogger {
	return L().Sugar()
}
