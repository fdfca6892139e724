package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger *zap.Logger
)

// Options configures the global logger.
type Options struct {
	// Level is a zap level name; unknown names fall back to info.
	Level string
	// Format is "json" (default) or "console".
	Format string
}

// Init builds the global logger, replacing any previous one.
func Init(opt Options) error {
	l, err := New(opt)
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set installs l as the global logger. Tests use it with zap.NewNop or an observer core.
func Set(l *zap.Logger) {
	mu.Lock()
	globalLogger = l
	mu.Unlock()
}

// Get returns the global logger, initializing a default one on first use.
func Get() *zap.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	_ = Init(Options{Level: defaultLevel()})
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}

// New creates a standalone logger.
func New(opt Options) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(opt.Level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	if opt.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.CallerKey = "caller"
	// Human-facing CLI output owns stdout.
	config.OutputPaths = []string{"stderr"}

	return config.Build()
}

func defaultLevel() string {
	if level := os.Getenv("DASHWISE_LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}

func Info(msg string, fields ...zap.Field) {
	Get().Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Get().Error(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Get().Warn(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Get().Debug(msg, fields...)
}
