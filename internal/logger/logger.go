package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // Package-level logger state is intentional: a single shared logger for the whole process.
var (
	// globalLevel controls the logging level for the global logger at runtime.
	globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	// globalLogger is the shared logger instance used by the package-level functions.
	globalLogger = New(globalLevel)
	// globalMutex protects globalLogger replacement.
	globalMutex sync.RWMutex
)

// New creates a new sugared logger writing human-readable output to stderr.
// If level is nil, the global atomic level is used.
func New(level zapcore.LevelEnabler) *zap.SugaredLogger {
	if level == nil {
		level = globalLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core).Sugar()
}

// Logger returns the current global logger.
func Logger() *zap.SugaredLogger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the global logger.
func SetLogger(logger *zap.SugaredLogger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalLogger = logger
}

// SetLevel changes the logging level of the global logger.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

// Level returns the current logging level of the global logger.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// IsDebugLevel reports whether debug logging is enabled.
func IsDebugLevel() bool {
	return globalLevel.Enabled(zapcore.DebugLevel)
}

// ParseLogLevel converts a string to a zap logging level.
// It returns the parsed level and true on success,
// or InfoLevel and false if the string is not a known level.
func ParseLogLevel(level string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error":
		return zapcore.ErrorLevel, true
	case "dpanic":
		return zapcore.DPanicLevel, true
	case "panic":
		return zapcore.PanicLevel, true
	case "fatal":
		return zapcore.FatalLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// Debug logs a message at debug level.
func Debug(_ context.Context, args ...any) {
	Logger().Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(_ context.Context, template string, args ...any) {
	Logger().Debugf(template, args...)
}

// DebugKV logs a message at debug level with key-value pairs.
func DebugKV(_ context.Context, message string, kvs ...any) {
	Logger().Debugw(message, kvs...)
}

// Info logs a message at info level.
func Info(_ context.Context, args ...any) {
	Logger().Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(_ context.Context, template string, args ...any) {
	Logger().Infof(template, args...)
}

// InfoKV logs a message at info level with key-value pairs.
func InfoKV(_ context.Context, message string, kvs ...any) {
	Logger().Infow(message, kvs...)
}

// Warn logs a message at warn level.
func Warn(_ context.Context, args ...any) {
	Logger().Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(_ context.Context, template string, args ...any) {
	Logger().Warnf(template, args...)
}

// WarnKV logs a message at warn level with key-value pairs.
func WarnKV(_ context.Context, message string, kvs ...any) {
	Logger().Warnw(message, kvs...)
}

// Error logs a message at error level.
func Error(_ context.Context, args ...any) {
	Logger().Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(_ context.Context, template string, args ...any) {
	Logger().Errorf(template, args...)
}

// ErrorKV logs a message at error level with key-value pairs.
func ErrorKV(_ context.Context, message string, kvs ...any) {
	Logger().Errorw(message, kvs...)
}

// Fatal logs a message at fatal level and exits the process.
func Fatal(_ context.Context, args ...any) {
	Logger().Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(_ context.Context, template string, args ...any) {
	Logger().Fatalf(template, args...)
}
