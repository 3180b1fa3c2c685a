package vardoc

import (
	"log/slog"

	"github.com/vardoc/vardoc/pkg/vardoc/observability"
	"github.com/vardoc/vardoc/pkg/vardoc/resolver"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// DefaultMaxDepth bounds the evaluation stack when no override is given.
const DefaultMaxDepth = 10

// ErrorHandler may supply a fallback value for a failed evaluation. It
// receives the error and the path being materialized; returning ok=true
// caches the fallback as the path's materialized value, returning false
// propagates the error.
type ErrorHandler func(err error, path Path) (fallback any, ok bool)

type options struct {
	baseContext variant.Context
	maxDepth    int
	onError     ErrorHandler
	resolvers   *resolver.Registry
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
}

func defaultOptions() options {
	return options{
		maxDepth:  DefaultMaxDepth,
		resolvers: resolver.NewRegistry(),
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
	}
}

// Option configures a Document.
type Option func(*options)

// WithBaseContext sets the document's base variant context. Hierarchical
// context declarations and per-call contexts merge on top of it.
func WithBaseContext(ctx variant.Context) Option {
	return func(o *options) {
		o.baseContext = ctx
	}
}

// WithMaxDepth sets the maximum evaluation stack depth.
// Default: DefaultMaxDepth.
//
// This bounds runaway recursive expansion independently of true cycle
// detection; exceeding it surfaces ErrMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithErrorHandler installs a handler consulted when a directive
// evaluation fails. See ErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		o.onError = h
	}
}

// WithResolvers sets the registry of functions callable from inline
// expressions.
func WithResolvers(r *resolver.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.resolvers = r
		}
	}
}

// WithLogger enables structured logging of evaluations and
// invalidations.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics enables OpenTelemetry metrics via the global meter
// provider.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.metrics = observability.NewMetricsRecorder()
		} else {
			o.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables OpenTelemetry tracing via the global tracer
// provider.
func WithTracing(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.spans = observability.NewSpanManager()
		} else {
			o.spans = observability.NoopSpanManager{}
		}
	}
}

type getConfig struct {
	ignoreCache bool
	callCtx     variant.Context
	hasCallCtx  bool
}

// GetOption configures a single read.
type GetOption func(*getConfig)

// IgnoreCache forces re-evaluation of the requested path even when a
// materialized value exists. Values referenced during the re-evaluation
// still come from the cache.
func IgnoreCache() GetOption {
	return func(c *getConfig) {
		c.ignoreCache = true
	}
}

// WithContext merges a per-call variant context on top of the document's
// base context for this read. Such reads are cached under a separate key
// derived from the context, so they never collide with default reads.
func WithContext(ctx variant.Context) GetOption {
	return func(c *getConfig) {
		c.callCtx = ctx
		c.hasCallCtx = true
	}
}

type setConfig struct {
	cascade bool
}

// SetOption configures a single write.
type SetOption func(*setConfig)

// TriggerDependents cascades invalidation to every path that
// transitively depends on the written one. Without it, only the written
// path's own materialized value (and its cached ancestors and
// descendants) are invalidated.
func TriggerDependents() SetOption {
	return func(c *setConfig) {
		c.cascade = true
	}
}
