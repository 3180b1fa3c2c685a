// Package storage provides document sources for vardoc: in-memory,
// directory-of-files, and SQLite-backed.
//
// A backend stores trees under identifiers: a base name optionally
// followed by variant segments ("welcome", "welcome:es",
// "welcome:es:formal"). Load performs variant selection among the
// identifiers sharing the requested base, so callers ask for a base and
// a context and receive the best-matching document.
package storage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vardoc/vardoc/pkg/vardoc"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// Backend stores and retrieves document trees.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Load retrieves the tree whose identifier best matches base under
	// vctx. Returns ErrNotFound when no identifier with that base
	// qualifies.
	Load(ctx context.Context, base string, vctx variant.Context) (any, error)

	// Save stores tree under the identifier formed from base and vctx's
	// variant segments. Overwrites an existing document.
	Save(ctx context.Context, base string, tree any, vctx variant.Context) error

	// Close releases any resources (connections, files).
	Close() error
}

// Lister enumerates stored identifiers.
type Lister interface {
	// List returns identifiers starting with prefix, in storage order.
	// Empty prefix lists everything.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Watcher notifies on saves.
type Watcher interface {
	// Subscribe registers fn to run whenever a document with the given
	// base is saved, receiving the saved identifier. The returned
	// function cancels the subscription.
	Subscribe(base string, fn func(identifier string)) (func(), error)
}

// Sentinel errors for storage operations.
var (
	// ErrNotFound indicates no stored document matches the request.
	ErrNotFound = errors.New("document not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("document store closed")
)

// Identifier builds the storage identifier for base under vctx:
// the base followed by the context's variant segments.
func Identifier(base string, vctx variant.Context) string {
	segs := vctx.Segments()
	if len(segs) == 0 {
		return base
	}
	return base + variant.Sep + strings.Join(segs, variant.Sep)
}

// pickIdentifier selects the best identifier for base under vctx among
// ids, which must be in storage order (earlier wins ties).
func pickIdentifier(base string, ids []string, vctx variant.Context) (string, bool) {
	return variant.ResolveKeys(base, ids, vctx)
}

// LoadDocument loads the best-matching document for base from b and
// wraps it in a vardoc.Document whose base context is vctx. Options
// passed by the caller may override the base context.
func LoadDocument(ctx context.Context, b Backend, base string, vctx variant.Context, opts ...vardoc.Option) (*vardoc.Document, error) {
	tree, err := b.Load(ctx, base, vctx)
	if err != nil {
		return nil, err
	}
	all := append([]vardoc.Option{vardoc.WithBaseContext(vctx)}, opts...)
	return vardoc.New(tree, all...)
}

// notifier fans out save notifications to subscribers by base name.
type notifier struct {
	mu   sync.Mutex
	subs map[string]map[string]func(string) // base -> token -> fn
}

func (n *notifier) subscribe(base string, fn func(string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[string]map[string]func(string))
	}
	if n.subs[base] == nil {
		n.subs[base] = make(map[string]func(string))
	}
	token := uuid.NewString()
	n.subs[base][token] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[base], token)
	}
}

// notify runs subscribers for base outside any store lock.
func (n *notifier) notify(base, identifier string) {
	n.mu.Lock()
	fns := make([]func(string), 0, len(n.subs[base]))
	for _, fn := range n.subs[base] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(identifier)
	}
}
