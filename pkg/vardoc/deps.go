package vardoc

import (
	"context"
	"fmt"
	"strings"

	"github.com/vardoc/vardoc/pkg/vardoc/observability"
)

// pushFrame enters an evaluation frame, enforcing the depth bound and
// detecting re-entry of a live frame.
func (d *Document) pushFrame(logical string, kind frameKind) error {
	if len(d.stack) >= d.opts.maxDepth {
		return fmt.Errorf("%w (%d)", ErrMaxDepth, d.opts.maxDepth)
	}
	for i, f := range d.stack {
		if f.path == logical && f.kind == kind {
			return d.chainError(i, logical)
		}
	}
	d.stack = append(d.stack, frame{path: logical, kind: kind})
	return nil
}

func (d *Document) popFrame() {
	d.stack = d.stack[:len(d.stack)-1]
}

// cycleError reports re-entry of a path whose entry is still
// InProgress.
func (d *Document) cycleError(logical string) error {
	for i, f := range d.stack {
		if f.path == logical {
			return d.chainError(i, logical)
		}
	}
	return d.chainError(0, logical)
}

// chainError builds the cycle error whose chain runs from stack index
// start back to the repeated path. A self-directive frame anywhere in
// the chain makes it a merge cycle.
func (d *Document) chainError(start int, repeated string) error {
	chain := make([]string, 0, len(d.stack)-start+1)
	selfInChain := false
	for _, f := range d.stack[start:] {
		// Read and eval frames of one path collapse to a single link.
		if len(chain) == 0 || chain[len(chain)-1] != f.path {
			chain = append(chain, f.path)
		}
		if f.kind == frameSelf {
			selfInChain = true
		}
	}
	chain = append(chain, repeated)
	if selfInChain {
		return &MergeCycleError{Chain: chain}
	}
	return &CycleError{Chain: chain}
}

// recordEdge records that the evaluation on top of the stack read
// source.
func (d *Document) recordEdge(source string) {
	if len(d.stack) == 0 {
		return
	}
	dep := d.stack[len(d.stack)-1].path
	if dep == source {
		return
	}
	if d.fwd[dep] == nil {
		d.fwd[dep] = make(map[string]struct{})
	}
	d.fwd[dep][source] = struct{}{}
	if d.rev[source] == nil {
		d.rev[source] = make(map[string]struct{})
	}
	d.rev[source][dep] = struct{}{}
}

// clearEdgesFrom discards dep's outgoing edges before re-evaluation, so
// stale dependencies from a previous run cannot trigger spurious
// cascades.
func (d *Document) clearEdgesFrom(dep string) {
	for src := range d.fwd[dep] {
		delete(d.rev[src], dep)
	}
	delete(d.fwd, dep)
}

// invalidate discards cache entries for p, its cached ancestors (whose
// materialized copies embed p's value), and its cached descendants
// (which p's new value replaces). With cascade, the reverse dependency
// edges are followed transitively and every dependent's entries are
// discarded too.
func (d *Document) invalidate(p Path, cascade bool) {
	logical := p.String()

	seeds := make(map[string]bool)
	seeds[logical] = true
	for i := 0; i < len(p); i++ {
		seeds[p[:i].String()] = true
	}
	prefix := logical + PathSep
	for key := range d.cache {
		_, _, path := splitKey(key)
		if strings.HasPrefix(path, prefix) {
			seeds[path] = true
		}
	}

	d.removeEntries(seeds)
	dependents := 0

	if cascade {
		visited := make(map[string]bool, len(seeds))
		queue := make([]string, 0, len(seeds))
		for s := range seeds {
			visited[s] = true
			queue = append(queue, s)
		}
		wave := make(map[string]bool)
		for len(queue) > 0 {
			s := queue[0]
			queue = queue[1:]
			for dep := range d.rev[s] {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				dependents++
				wave[dep] = true
				queue = append(queue, dep)
			}
		}
		d.removeEntries(wave)
	}

	observability.LogInvalidation(d.opts.logger, logical, dependents)
	d.opts.metrics.RecordInvalidation(context.Background(), logical, dependents)
}

// removeEntries deletes every cache entry (all kinds, all context
// fingerprints) whose logical path is in paths, returning the count.
func (d *Document) removeEntries(paths map[string]bool) int {
	if len(paths) == 0 {
		return 0
	}
	n := 0
	for key := range d.cache {
		_, _, path := splitKey(key)
		if paths[path] {
			delete(d.cache, key)
			n++
		}
	}
	return n
}
