// Package logger provides structured logging for workflow runs with
// automatic secret redaction.
//
// It wraps Go's standard log/slog with convenience functions for:
//   - Step and transition logging from the execution engine
//   - Dispatch and failover logging with redacted credential material
//   - Contextual logging keyed by run, block, and worker
//   - Level-based verbosity control via the LOG_LEVEL environment variable
//
// All exported functions use the global DefaultLogger, which can be
// reconfigured for different output formats and log levels.
package logger

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// DefaultLogger is the global structured logger instance. It is safe for
// concurrent use and initialized at slog.LevelInfo by default.
var DefaultLogger *slog.Logger

func init() {
	level := slog.LevelInfo
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		switch strings.ToLower(envLevel) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	DefaultLogger = slog.New(NewContextHandler(handler))
}

// SetLevel changes the logging level for all subsequent log operations.
// It replaces the entire logger instance, which is safe for concurrent use.
func SetLevel(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	DefaultLogger = slog.New(NewContextHandler(handler))
}

// SetVerbose enables debug-level logging when verbose is true, otherwise
// sets info-level. Convenience wrapper for command-line verbose flags.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// Info logs an informational message with key-value attributes.
func Info(msg string, args ...any) {
	DefaultLogger.Info(msg, args...)
}

// InfoContext logs an informational message, enriching the record with
// run-scoped fields carried in the context.
func InfoContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.InfoContext(ctx, msg, args...)
}

// Debug logs a debug-level message with key-value attributes.
func Debug(msg string, args ...any) {
	DefaultLogger.Debug(msg, args...)
}

// DebugContext logs a debug message with context fields.
func DebugContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.DebugContext(ctx, msg, args...)
}

// Warn logs a warning message with key-value attributes.
func Warn(msg string, args ...any) {
	DefaultLogger.Warn(msg, args...)
}

// WarnContext logs a warning message with context fields.
func WarnContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.WarnContext(ctx, msg, args...)
}

// Error logs an error message with key-value attributes.
func Error(msg string, args ...any) {
	DefaultLogger.Error(msg, args...)
}

// ErrorContext logs an error message with context fields.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	DefaultLogger.ErrorContext(ctx, msg, args...)
}

// Step logs one engine step: the block executed, the signal the worker
// returned, and the block the run moved to.
func Step(blockID, signal, nextBlockID string, attrs ...any) {
	allAttrs := make([]any, 0, 6+len(attrs))
	allAttrs = append(allAttrs,
		"block", blockID,
		"signal", signal,
		"next", nextBlockID,
	)
	allAttrs = append(allAttrs, attrs...)
	Info("workflow step", allAttrs...)
}

// Failover logs a dispatcher failover hop between credentials.
func Failover(fromCredential, toCredential, worker string, err error, attrs ...any) {
	allAttrs := make([]any, 0, 8+len(attrs))
	allAttrs = append(allAttrs,
		"from_credential", fromCredential,
		"to_credential", toCredential,
		"worker", worker,
		"error", RedactSecrets(err.Error()),
	)
	allAttrs = append(allAttrs, attrs...)
	Warn("dispatch failover", allAttrs...)
}

// secretPatterns match common credential formats that must never reach
// log output in full.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[a-zA-Z0-9]{32,}`),     // OpenAI-style keys
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{35}`),   // Google-style keys
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_-]+`), // Bearer tokens
}

// RedactSecrets removes credential material from a string, keeping the
// first few characters of key-shaped matches for debugging context. Safe
// for concurrent use.
func RedactSecrets(input string) string {
	result := input
	for _, pattern := range secretPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if strings.HasPrefix(match, "Bearer ") {
				return "Bearer [REDACTED]"
			}
			if len(match) > 8 {
				return match[:4] + "...[REDACTED]"
			}
			return "[REDACTED]"
		})
	}
	return result
}
