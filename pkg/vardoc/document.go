package vardoc

import (
	"context"
	"fmt"
	"sync"

	"github.com/vardoc/vardoc/pkg/vardoc/resolver"
)

// Sigil prefixes directive keys. A key ".title" holds an expression that
// materializes the property "title"; the bare key "." is the
// self-directive, whose result merges into the enclosing mapping.
const Sigil = "."

// ContextKey is the reserved key for hierarchical context declarations.
// Its value is a mapping of dimension name to value, merged into the
// effective context of every path beneath it.
const ContextKey = ".context"

// reservedKeys are terminal keys that collide with the engine's own
// surface and may not be written.
var reservedKeys = map[string]bool{
	"get": true,
	"set": true,
	"has": true,
}

// entryState is the lifecycle of a cache entry.
type entryState uint8

const (
	stateInProgress entryState = iota + 1
	stateMaterialized
	stateError
)

// cacheEntry is one materialization result, or the error that produced
// none. Entries in stateError persist until explicitly invalidated so a
// failing evaluation is not re-triggered on every read.
type cacheEntry struct {
	state entryState
	value any
	err   error
}

// frameKind distinguishes evaluation stack frames for cycle reporting.
type frameKind uint8

const (
	frameRead frameKind = iota
	frameEval
	frameSelf
)

// frame is one entry of the evaluation stack. The stack is the sole
// guard against cycles: re-entering a live frame is the cycle signal.
type frame struct {
	path string
	kind frameKind
}

// Document is a lazily evaluated, variant-aware expression document: the
// orchestrator that owns the tree, the materialization cache, and the
// dependency edges.
//
// All evaluation for one Document is serialized through an internal
// mutex: a read runs to completion (including any resolver-function
// calls it suspends on) before another read of the same instance
// proceeds. Do not mutate a tree handed to New while the document is in
// use; write through Set.
//
// Values returned by Get are deep copies; mutating them does not affect
// the document or its cache.
type Document struct {
	mu    sync.Mutex
	root  *Map
	cache map[string]*cacheEntry

	// fwd maps dependent path -> set of source paths its evaluation
	// read; rev is the inverse, used for invalidation cascades.
	fwd map[string]map[string]struct{}
	rev map[string]map[string]struct{}

	stack []frame
	opts  options
}

// New creates a Document over tree, which may be a *Map, a plain
// map[string]any (converted with sorted keys), or nil for an empty
// document.
func New(tree any, opts ...Option) (*Document, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var root *Map
	switch t := tree.(type) {
	case nil:
		root = NewMap()
	case *Map:
		root = t
	case map[string]any:
		root = FromGo(t).(*Map)
	default:
		return nil, fmt.Errorf("unsupported tree type %T", tree)
	}

	return &Document{
		root:  root,
		cache: make(map[string]*cacheEntry),
		fwd:   make(map[string]map[string]struct{}),
		rev:   make(map[string]map[string]struct{}),
		opts:  o,
	}, nil
}

// Resolvers returns the document's resolver-function registry.
func (d *Document) Resolvers() *resolver.Registry {
	return d.opts.resolvers
}

// Get reads the value at a dot-separated path, materializing any
// directives it requires. The empty path materializes the whole
// document.
func (d *Document) Get(ctx context.Context, path string, opts ...GetOption) (any, error) {
	var cfg getConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	cctx := d.opts.baseContext
	fp := ""
	if cfg.hasCallCtx {
		cctx = cctx.Merge(cfg.callCtx)
		fp = cfg.callCtx.Fingerprint()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rctx, span := d.opts.spans.StartReadSpan(ctx, path)
	v, err := d.read(rctx, ParsePath(path), cctx, fp, cfg.ignoreCache)
	d.opts.spans.EndSpanWithError(span, err)
	if err != nil {
		return nil, err
	}
	return CloneTree(v), nil
}

// Set overwrites the raw value at a dot-separated path, creating
// intermediate mappings as needed. The path's own cached value (plus
// cached ancestors, whose materialized copies embed it, and cached
// descendants, which it replaces) is always invalidated; pass
// TriggerDependents to also cascade to everything that transitively
// depends on it.
func (d *Document) Set(path string, value any, opts ...SetOption) error {
	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	p := ParsePath(path)
	if p.IsRoot() {
		return fmt.Errorf("cannot set the document root")
	}
	if reservedKeys[p.Key()] {
		return fmt.Errorf("%w: %q", ErrReservedKey, p.Key())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	setRaw(d.root, p, FromGo(value))
	d.invalidate(p, cfg.cascade)
	return nil
}

// Has reports whether a value exists at the path, without evaluating
// anything: declared static keys, variant candidates, and directive
// keys count as existing; values reachable only through an unevaluated
// directive do not.
func (d *Document) Has(path string) bool {
	p := ParsePath(path)
	if p.IsRoot() {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exists(context.Background(), p, d.opts.baseContext, "", false)
}

// Invalidate discards cached values for the path (and its cached
// ancestors and descendants). Pass TriggerDependents to cascade.
// Use it to retry a path whose evaluation error was cached.
func (d *Document) Invalidate(path string, opts ...SetOption) {
	var cfg setConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	p := ParsePath(path)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.invalidate(p, cfg.cascade)
}
