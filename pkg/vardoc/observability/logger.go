// Package observability provides structured logging, metrics, and
// tracing for the expansion engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// LogEvaluateStart logs the start of a directive evaluation.
func LogEvaluateStart(logger *slog.Logger, path string) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation starting",
		slog.String("path", path),
	)
}

// LogEvaluateComplete logs a successful directive evaluation.
func LogEvaluateComplete(logger *slog.Logger, path string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("evaluation completed",
		slog.String("path", path),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogEvaluateError logs a failed directive evaluation.
func LogEvaluateError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Error("evaluation failed",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// LogCacheHit logs a materialized-value cache hit.
func LogCacheHit(logger *slog.Logger, path string) {
	if logger == nil {
		return
	}
	logger.Debug("cache hit",
		slog.String("path", path),
	)
}

// LogInvalidation logs a cache invalidation and its cascade size.
func LogInvalidation(logger *slog.Logger, source string, dependents int) {
	if logger == nil {
		return
	}
	logger.Info("cache invalidated",
		slog.String("source", source),
		slog.Int("dependents", dependents),
	)
}

// LogFallback logs an error handler supplying a fallback value.
func LogFallback(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("error handler supplied fallback",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}
