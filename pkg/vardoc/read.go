package vardoc

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/vardoc/vardoc/pkg/vardoc/expr"
	"github.com/vardoc/vardoc/pkg/vardoc/observability"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// Cache keys carry a kind tag ("g" for materialized values, "e" for raw
// directive results), the call-context fingerprint, and the logical
// path, NUL-separated so paths containing any printable byte stay
// unambiguous.
func gKey(fp, path string) string { return "g\x00" + fp + "\x00" + path }
func eKey(fp, path string) string { return "e\x00" + fp + "\x00" + path }

// splitKey recovers (kind, fingerprint, path) from a cache key.
func splitKey(key string) (kind, fp, path string) {
	parts := strings.SplitN(key, "\x00", 3)
	return parts[0], parts[1], parts[2]
}

// read returns the fully materialized value at p under the call context
// cctx (fingerprint fp), consulting and populating the cache.
func (d *Document) read(ctx context.Context, p Path, cctx variant.Context, fp string, ignoreCache bool) (any, error) {
	logical := p.String()
	key := gKey(fp, logical)

	if e, ok := d.cache[key]; ok && !ignoreCache {
		switch e.state {
		case stateMaterialized:
			d.recordEdge(logical)
			d.opts.metrics.RecordCacheHit(ctx, logical)
			observability.LogCacheHit(d.opts.logger, logical)
			return e.value, nil
		case stateError:
			d.recordEdge(logical)
			return nil, e.err
		case stateInProgress:
			return nil, d.cycleError(logical)
		}
	}
	if ignoreCache {
		// Force the path's own directive to re-run; values it references
		// still come from the cache.
		delete(d.cache, eKey(fp, logical))
		delete(d.cache, eKey(fp, logical+PathSep+"#self"))
	}
	d.opts.metrics.RecordCacheMiss(ctx, logical)
	d.recordEdge(logical)

	if err := d.pushFrame(logical, frameRead); err != nil {
		return nil, err
	}
	d.clearEdgesFrom(logical)
	d.cache[key] = &cacheEntry{state: stateInProgress}

	raw, ectx, err := d.walk(ctx, p, cctx, fp)
	var v any
	if err == nil {
		v, err = d.materialize(ctx, p, raw, ectx, cctx, fp)
	}
	d.popFrame()

	if err != nil {
		d.cache[key] = &cacheEntry{state: stateError, err: err}
		return nil, err
	}
	d.cache[key] = &cacheEntry{state: stateMaterialized, value: v}
	return v, nil
}

// walk descends the raw tree from the root to p, merging context
// declarations of every mapping it passes through and evaluating
// directive intermediates on demand. It returns the raw value at p and
// the effective context at p's parent.
func (d *Document) walk(ctx context.Context, p Path, cctx variant.Context, fp string) (any, variant.Context, error) {
	cur := any(d.root)
	ectx := cctx

	for i, seg := range p {
		switch node := cur.(type) {
		case *Map:
			ectx = mergeDecl(ectx, node)
			kc, ok := selectKey(node, seg, ectx)
			if !ok {
				// Properties contributed by a self-directive are only
				// visible on the merged result.
				if node.Has(Sigil) {
					mv, err := d.read(ctx, p[:i], cctx, fp, false)
					if err != nil {
						return nil, ectx, err
					}
					if mm, isMap := mv.(*Map); isMap {
						if v, has := mm.Get(seg); has {
							cur = v
							continue
						}
					}
				}
				return nil, ectx, unresolvedAt(p[:i+1])
			}
			if kc.directive {
				src, isStr := kc.value.(string)
				if !isStr {
					return nil, ectx, &ExpressionError{
						Path:  p[:i+1].String(),
						Cause: errors.New("directive value must be a string expression"),
					}
				}
				v, err := d.evalDirective(ctx, p[:i+1], src, ectx, cctx, fp)
				if err != nil {
					return nil, ectx, err
				}
				cur = v
			} else {
				cur = kc.value
			}
		case []any:
			v, ok := indexSeq(node, seg)
			if !ok {
				return nil, ectx, unresolvedAt(p[:i+1])
			}
			cur = v
		default:
			return nil, ectx, unresolvedAt(p[:i+1])
		}
	}
	return cur, ectx, nil
}

// materialize turns a raw value into its fully expanded form: mappings
// have their self-directive merged and every property evaluated and
// variant-selected, sequences are materialized element-wise, scalars
// pass through.
func (d *Document) materialize(ctx context.Context, p Path, v any, ectx, cctx variant.Context, fp string) (any, error) {
	switch node := v.(type) {
	case *Map:
		ectx = mergeDecl(ectx, node)
		work := node

		if raw, ok := node.Get(Sigil); ok {
			src, isStr := raw.(string)
			if !isStr {
				return nil, &ExpressionError{
					Path:  p.String(),
					Cause: errors.New("self-directive value must be a string expression"),
				}
			}
			res, err := d.evalSelf(ctx, p, src, ectx, cctx, fp)
			if err != nil {
				return nil, err
			}
			base, isMap := res.(*Map)
			if !isMap {
				return nil, &ExpressionError{Path: p.String(), Cause: ErrSelfResultNotMapping}
			}
			siblings := node.Clone()
			siblings.Delete(Sigil)
			work = deepMerge(base, siblings).(*Map)
		}

		out := NewMap()
		for _, base := range logicalBases(work) {
			kc, ok := selectKey(work, base, ectx)
			if !ok {
				// Every candidate is disqualified under this context.
				continue
			}
			childPath := p.Child(base)
			cv := kc.value
			if kc.directive {
				src, isStr := kc.value.(string)
				if !isStr {
					return nil, &ExpressionError{
						Path:  childPath.String(),
						Cause: errors.New("directive value must be a string expression"),
					}
				}
				var err error
				cv, err = d.evalDirective(ctx, childPath, src, ectx, cctx, fp)
				if err != nil {
					return nil, err
				}
			}
			mv, err := d.materialize(ctx, childPath, cv, ectx, cctx, fp)
			if err != nil {
				return nil, err
			}
			out.Set(base, mv)
		}
		return out, nil

	case []any:
		out := make([]any, len(node))
		for i, elem := range node {
			mv, err := d.materialize(ctx, p.Child(strconv.Itoa(i)), elem, ectx, cctx, fp)
			if err != nil {
				return nil, err
			}
			out[i] = mv
		}
		return out, nil

	default:
		return v, nil
	}
}

// evalDirective evaluates the expression of the directive at p, caching
// the raw result so re-materialization of enclosing mappings does not
// re-run it.
func (d *Document) evalDirective(ctx context.Context, p Path, src string, ectx, cctx variant.Context, fp string) (any, error) {
	return d.eval(ctx, p, p.String(), src, ectx, cctx, fp, frameEval)
}

// evalSelf evaluates a self-directive. Its cache identity hangs off a
// synthetic child so the enclosing path's own entry stays distinct, and
// its stack frame is flagged so cycles through it report as merge
// cycles.
func (d *Document) evalSelf(ctx context.Context, p Path, src string, ectx, cctx variant.Context, fp string) (any, error) {
	return d.eval(ctx, p, p.Child("#self").String(), src, ectx, cctx, fp, frameSelf)
}

func (d *Document) eval(ctx context.Context, p Path, logical, src string, ectx, cctx variant.Context, fp string, kind frameKind) (any, error) {
	key := eKey(fp, logical)
	if e, ok := d.cache[key]; ok {
		switch e.state {
		case stateMaterialized:
			d.recordEdge(logical)
			return e.value, nil
		case stateError:
			d.recordEdge(logical)
			return nil, e.err
		case stateInProgress:
			return nil, d.cycleError(logical)
		}
	}
	d.recordEdge(logical)

	if err := d.pushFrame(logical, kind); err != nil {
		return nil, err
	}
	d.clearEdgesFrom(logical)
	d.cache[key] = &cacheEntry{state: stateInProgress}

	sctx, span := d.opts.spans.StartEvalSpan(ctx, p.String())
	observability.LogEvaluateStart(d.opts.logger, p.String())
	start := time.Now()

	v, err := d.evalExpr(sctx, p, src, ectx, cctx, fp)

	d.opts.metrics.RecordEvaluation(sctx, p.String(), time.Since(start), err)
	d.opts.spans.EndSpanWithError(span, err)
	d.popFrame()

	if err != nil {
		err = d.wrapEvalError(p, err)
		if fb, handled := d.handleError(err, p); handled {
			d.cache[key] = &cacheEntry{state: stateMaterialized, value: fb}
			return fb, nil
		}
		observability.LogEvaluateError(d.opts.logger, p.String(), err)
		d.cache[key] = &cacheEntry{state: stateError, err: err}
		return nil, err
	}

	observability.LogEvaluateComplete(d.opts.logger, p.String(), float64(time.Since(start).Microseconds())/1000)
	// Resolver functions may return plain Go maps; normalize so walks can
	// descend into the result.
	v = FromGo(v)
	d.cache[key] = &cacheEntry{state: stateMaterialized, value: v}
	return v, nil
}

// evalExpr parses and runs one expression in an environment wired to the
// document: names resolve through scoped lookup, calls go to the
// resolver registry, and pronouns follow the effective context's gender.
func (d *Document) evalExpr(ctx context.Context, p Path, src string, ectx, cctx variant.Context, fp string) (any, error) {
	prog, err := expr.Parse(src)
	if err != nil {
		return nil, err
	}
	env := expr.Env{
		Resolve: func(ctx context.Context, name string) (any, error) {
			return d.resolveName(ctx, name, p, cctx, fp)
		},
		Call: func(ctx context.Context, name string, args []any) (any, error) {
			return d.opts.resolvers.Call(ctx, name, args...)
		},
		Gender: ectx.Gender,
	}
	return prog.Eval(ctx, env)
}

// wrapEvalError attaches the offending path to evaluation failures.
// Cycle, merge-cycle, and depth errors pass through untouched so
// callers can match on them directly; already-wrapped errors from
// nested paths are not wrapped again.
func (d *Document) wrapEvalError(p Path, err error) error {
	var ce *CycleError
	var mce *MergeCycleError
	var ee *ExpressionError
	switch {
	case errors.As(err, &ce), errors.As(err, &mce), errors.Is(err, ErrMaxDepth), errors.As(err, &ee):
		return err
	default:
		return &ExpressionError{Path: p.String(), Cause: err}
	}
}

// handleError consults the configured error handler for a fallback.
func (d *Document) handleError(err error, p Path) (any, bool) {
	if d.opts.onError == nil {
		return nil, false
	}
	fb, ok := d.opts.onError(err, p)
	if !ok {
		return nil, false
	}
	observability.LogFallback(d.opts.logger, p.String(), err)
	return FromGo(fb), true
}

// mergeDecl merges a mapping's context declaration, if any, into ctx.
func mergeDecl(ctx variant.Context, m *Map) variant.Context {
	raw, ok := m.Get(ContextKey)
	if !ok {
		return ctx
	}
	decl, isMap := raw.(*Map)
	if !isMap {
		return ctx
	}
	return ctx.Merge(variant.FromMap(ToGo(decl).(map[string]any)))
}
