package vardoc

import (
	"context"
	"strings"

	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// keyCandidate is one raw map key competing for a logical property name.
type keyCandidate struct {
	raw       string
	directive bool
	value     any
	cand      variant.Candidate
}

// logicalBases returns the logical property names declared in m, in
// first-occurrence declaration order. Directive sigils and variant
// suffixes are stripped; the self-directive and context declarations do
// not name properties.
func logicalBases(m *Map) []string {
	var bases []string
	seen := make(map[string]bool)
	for _, k := range m.Keys() {
		if k == Sigil || k == ContextKey {
			continue
		}
		name := k
		if strings.HasPrefix(k, Sigil) {
			name = k[len(Sigil):]
		}
		base := variant.ParseCandidate(name).Base
		if base == "" || seen[base] {
			continue
		}
		seen[base] = true
		bases = append(bases, base)
	}
	return bases
}

// gatherCandidates collects the raw keys of m whose logical base is
// base, in declaration order. When a static key and a directive key
// share the same variant-qualified name, the static key wins.
func gatherCandidates(m *Map, base string) []keyCandidate {
	var out []keyCandidate
	index := make(map[string]int)
	for _, k := range m.Keys() {
		if k == Sigil || k == ContextKey {
			continue
		}
		name := k
		directive := false
		if strings.HasPrefix(k, Sigil) {
			name = k[len(Sigil):]
			directive = true
		}
		cand := variant.ParseCandidate(name)
		if cand.Base != base {
			continue
		}
		v, _ := m.Get(k)
		kc := keyCandidate{raw: k, directive: directive, value: v, cand: cand}
		if i, dup := index[name]; dup {
			if out[i].directive && !directive {
				out[i] = kc
			}
			continue
		}
		index[name] = len(out)
		out = append(out, kc)
	}
	return out
}

// selectKey picks the raw key of m serving the logical name base under
// the effective context ctx, applying variant scoring across all
// competing candidates.
func selectKey(m *Map, base string, ctx variant.Context) (keyCandidate, bool) {
	kcs := gatherCandidates(m, base)
	if len(kcs) == 0 {
		return keyCandidate{}, false
	}
	cands := make([]variant.Candidate, len(kcs))
	for i, kc := range kcs {
		cands[i] = kc.cand
	}
	best, ok := variant.Resolve(base, cands, ctx)
	if !ok {
		return keyCandidate{}, false
	}
	for _, kc := range kcs {
		if kc.cand.Raw == best.Raw {
			return kc, true
		}
	}
	return keyCandidate{}, false
}

// resolveName resolves a name referenced from an expression at current.
//
// A name with no leading dot searches outward: first as a member of the
// current property's own scope (its parent mapping), then each
// successively shallower ancestor, finally the document root. A name
// with N+1 leading dots pins resolution N levels above the current
// scope with no fallback; a single leading dot pins the current scope
// itself.
func (d *Document) resolveName(ctx context.Context, name string, current Path, cctx variant.Context, fp string) (any, error) {
	dots := 0
	for dots < len(name) && name[dots] == '.' {
		dots++
	}
	rest := name[dots:]
	if rest == "" {
		return nil, unresolvedName(name, current)
	}
	segs := strings.Split(rest, PathSep)
	scope := current.Parent()

	if dots > 0 {
		up := dots - 1
		if up >= len(scope) && up > 0 {
			return nil, outOfBounds(name, current)
		}
		target := scope[:len(scope)-up].Join(segs)
		if !d.exists(ctx, target, cctx, fp, true) {
			return nil, unresolvedName(name, current)
		}
		return d.read(ctx, target, cctx, fp, false)
	}

	for i := len(scope); i >= 0; i-- {
		target := scope[:i].Join(segs)
		if d.exists(ctx, target, cctx, fp, true) {
			return d.read(ctx, target, cctx, fp, false)
		}
	}
	return nil, unresolvedName(name, current)
}

// exists reports whether a value is addressable at p. With evaluate set,
// directive intermediates along the path are evaluated (and cached) to
// probe their interior; without it, only declared keys and results
// already in the cache count, so probing has no side effects.
func (d *Document) exists(ctx context.Context, p Path, cctx variant.Context, fp string, evaluate bool) bool {
	cur := any(d.root)
	ectx := cctx

	for i, seg := range p {
		switch node := cur.(type) {
		case *Map:
			ectx = mergeDecl(ectx, node)
			kc, ok := selectKey(node, seg, ectx)
			if !ok {
				if node.Has(Sigil) {
					if evaluate {
						mv, err := d.read(ctx, p[:i], cctx, fp, false)
						if err != nil {
							return false
						}
						if mm, isMap := mv.(*Map); isMap {
							if v, has := mm.Get(seg); has {
								cur = v
								continue
							}
						}
					} else if e, hit := d.cache[gKey(fp, p[:i].String())]; hit && e.state == stateMaterialized {
						if mm, isMap := e.value.(*Map); isMap {
							if v, has := mm.Get(seg); has {
								cur = v
								continue
							}
						}
					}
				}
				return false
			}
			if kc.directive {
				if i == len(p)-1 {
					return true
				}
				if evaluate {
					src, isStr := kc.value.(string)
					if !isStr {
						return false
					}
					v, err := d.evalDirective(ctx, p[:i+1], src, ectx, cctx, fp)
					if err != nil {
						return false
					}
					cur = v
					continue
				}
				e, hit := d.cache[eKey(fp, p[:i+1].String())]
				if !hit || e.state != stateMaterialized {
					return false
				}
				cur = e.value
			} else {
				cur = kc.value
			}
		case []any:
			v, ok := indexSeq(node, seg)
			if !ok {
				return false
			}
			cur = v
		default:
			return false
		}
	}
	return true
}
