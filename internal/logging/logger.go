package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar controls logging verbosity when no level is passed explicitly.
// Valid values: "debug", "info", "warn", "error". Unset means silent.
const LogLevelEnvVar = "TECHGUIDE_LOG_LEVEL"

// ParseLevel maps a level name to a zap level. Unknown names fall back to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Initialize builds the global logger.
// An empty level falls back to TECHGUIDE_LOG_LEVEL; if that is empty too,
// logging is disabled. An empty output writes to stderr.
func Initialize(level, output string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}
	if output == "" {
		output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	if output == "stderr" || output == "stdout" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built
	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger, silent if never initialized.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func Info(msg string, fields ...zap.Field)  { GetLogger().Info(msg, fields...) }
func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }

// LogSearch records a submitted lookup.
func LogSearch(token uint64, device string) {
	Info("Search submitted",
		zap.Uint64("token", token),
		zap.String("device", device),
	)
}

// LogOutcome records how a lookup resolved.
func LogOutcome(token uint64, device string, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.Uint64("token", token),
		zap.String("device", device),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("Search failed", append(fields, zap.Error(err))...)
		return
	}
	Info("Search succeeded", fields...)
}

// LogStaleResponse records a response dropped because a newer search exists.
func LogStaleResponse(token, current uint64) {
	Debug("Discarding stale response",
		zap.Uint64("token", token),
		zap.Uint64("current_token", current),
	)
}

// LogProbe records a manual existence probe.
func LogProbe(url string, statusCode int, err error) {
	fields := []zap.Field{
		zap.String("url", url),
		zap.Int("status_code", statusCode),
	}
	if err != nil {
		Warn("Manual probe failed", append(fields, zap.Error(err))...)
		return
	}
	Debug("Manual probe ok", fields...)
}

// LogHTTPRequest records an outbound request.
func LogHTTPRequest(method, url string) {
	Debug("HTTP request",
		zap.String("method", method),
		zap.String("url", url),
	)
}

// LogExport records a PDF export result.
func LogExport(path string, pages int, err error) {
	if err != nil {
		Error("PDF export failed", zap.String("path", path), zap.Error(err))
		return
	}
	Info("PDF exported", zap.String("path", path), zap.Int("pages", pages))
}

// Sync flushes any buffered log entries.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
