package vardoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vardoc/vardoc/pkg/vardoc/resolver"
)

// Sentinel errors for name and path resolution.
var (
	// ErrUnresolvedPath indicates a referenced name has no value anywhere
	// in scope.
	ErrUnresolvedPath = errors.New("unresolved path")

	// ErrResolverNotFound indicates a called function name is absent from
	// the resolver registry. It aliases the registry's sentinel so both
	// packages agree under errors.Is.
	ErrResolverNotFound = resolver.ErrNotFound

	// ErrOutOfBoundsParent indicates a parent-traversal reference climbs
	// above the available ancestor depth.
	ErrOutOfBoundsParent = errors.New("parent reference out of bounds")

	// ErrReservedKey indicates a write whose terminal key collides with
	// the engine's own surface method names.
	ErrReservedKey = errors.New("reserved key")

	// ErrMaxDepth indicates the evaluation stack exceeded the configured
	// maximum depth.
	ErrMaxDepth = errors.New("max evaluation depth exceeded")

	// ErrSelfResultNotMapping indicates a self-directive expression
	// produced a non-mapping value.
	ErrSelfResultNotMapping = errors.New("self-directive must evaluate to a mapping")
)

// ExpressionError wraps any failure raised while evaluating a directive
// expression, carrying the path being materialized and the original
// cause (an unresolved name, a missing resolver function, or a runtime
// failure of the inline code).
type ExpressionError struct {
	// Path is the dotted path whose expression failed.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	return fmt.Sprintf("expression at %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExpressionError) Unwrap() error {
	return e.Cause
}

// CycleError indicates a directive's expression read its own path,
// directly or transitively. Chain lists the paths in evaluation order,
// ending with the repeated one.
type CycleError struct {
	// Chain is the cycle, from first entry of the repeated path back to
	// itself.
	Chain []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "circular dependency: " + strings.Join(e.Chain, " -> ")
}

// MergeCycleError indicates a self-directive whose expression reads a
// path whose own self-directive is still being resolved.
type MergeCycleError struct {
	// Chain is the cycle, in evaluation order.
	Chain []string
}

// Error implements the error interface.
func (e *MergeCycleError) Error() string {
	return "circular self-reference: " + strings.Join(e.Chain, " -> ")
}

// unresolvedName builds the error for a name with no value in scope.
func unresolvedName(name string, from Path) error {
	return fmt.Errorf("%w: %q referenced from %s", ErrUnresolvedPath, name, from)
}

// unresolvedAt builds the error for a concrete path with no value.
func unresolvedAt(p Path) error {
	return fmt.Errorf("%w: %s", ErrUnresolvedPath, p)
}

// outOfBounds builds the error for a parent reference climbing above the
// document root.
func outOfBounds(name string, from Path) error {
	return fmt.Errorf("%w: %q referenced from %s", ErrOutOfBoundsParent, name, from)
}
