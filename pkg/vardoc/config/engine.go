package config

import (
	"log/slog"

	"github.com/vardoc/vardoc/pkg/vardoc"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// EngineOptions translates the config into options for vardoc.New.
//
// Recognized keys:
//   - context: mapping of variant dimensions (language, gender,
//     formality, version, custom) used as the base context
//   - max_depth: maximum evaluation stack depth
//   - logging: enable structured logging on slog.Default
//   - metrics: enable OpenTelemetry metrics
//   - tracing: enable OpenTelemetry tracing
//
// Unrecognized keys are ignored, so engine settings can live inside a
// larger application config.
func (c Config) EngineOptions() []vardoc.Option {
	var opts []vardoc.Option

	if m := c.Map("context"); m != nil {
		opts = append(opts, vardoc.WithBaseContext(variant.FromMap(m)))
	}
	if c.Has("max_depth") {
		opts = append(opts, vardoc.WithMaxDepth(c.Int("max_depth", vardoc.DefaultMaxDepth)))
	}
	if c.Bool("logging", false) {
		opts = append(opts, vardoc.WithLogger(slog.Default()))
	}
	opts = append(opts,
		vardoc.WithMetrics(c.Bool("metrics", false)),
		vardoc.WithTracing(c.Bool("tracing", false)),
	)
	return opts
}
