package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	initOnce sync.Once
	level    zap.AtomicLevel
)

// initLogger builds the global zap logger writing to stderr.
func initLogger() {
	initOnce.Do(func() {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = level
		logger, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
		zap.ReplaceGlobals(logger)
	})
}

// SetDebug lowers the minimum level to DEBUG.
func SetDebug() {
	initLogger()
	level.SetLevel(zapcore.DebugLevel)
}

func Debug(msg string, kv ...any) {
	initLogger()
	zap.S().Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	zap.S().Infow(msg, kv...)
}

// Warn is used for recoverable per-feed and per-channel failures.
func Warn(msg string, err error, kv ...any) {
	initLogger()
	if err != nil {
		kv = append([]any{"err", err}, kv...)
	}
	zap.S().Warnw(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	if err != nil {
		kv = append([]any{"err", err}, kv...)
	}
	zap.S().Errorw(msg, kv...)
}

// Sync flushes buffered log entries; call before process exit.
func Sync() {
	initLogger()
	_ = zap.L().Sync()
}
