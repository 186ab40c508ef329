package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "DEVTERM_LOG_LEVEL"

// Initialize creates a new logger with the specified level writing to
// stderr. See InitializeWithOutput.
func Initialize(level string) error {
	return InitializeWithOutput(level, os.Stderr)
}

// InitializeWithOutput creates a new logger with the specified level.
// If level is empty, it checks DEVTERM_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
//
// Entries are written to w. Stdout belongs to the interactive console, and
// while the terminal is in raw mode w must translate line feeds itself.
func InitializeWithOutput(level string, w io.Writer) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}
	if w == nil {
		return fmt.Errorf("failed to initialize logger: no output")
	}

	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		// Unknown level - use info when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	sink := zapcore.Lock(zapcore.AddSync(w))
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, zap.NewAtomicLevelAt(zapLevel))
	logger = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(sink),
	)

	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized so nothing leaks into the console
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogCommand logs a key command being dispatched
func LogCommand(token string, name string) {
	Debug("Command dispatched",
		zap.String("token", token),
		zap.String("command", name),
	)
}

// LogModeTransition logs a listening mode change of the input session
func LogModeTransition(from, to string) {
	Debug("Input mode transition",
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogDetached logs the outcome of a fire-and-forget task. Failures are
// reported at debug level only; nobody waits on these tasks.
func LogDetached(name string, err error) {
	if err != nil {
		Debug("Detached task failed",
			zap.String("task", name),
			zap.Error(err),
		)
		return
	}
	Debug("Detached task finished", zap.String("task", name))
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
