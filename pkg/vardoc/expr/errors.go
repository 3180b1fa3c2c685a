package expr

import "fmt"

// ParseError reports a syntax error in an expression source.
type ParseError struct {
	// Source is the offending expression text.
	Source string
	// Pos is the byte offset of the error.
	Pos int
	// Msg describes the problem.
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d in %q: %s", e.Pos, e.Source, e.Msg)
}

// EvalError reports a runtime failure while executing inline code, such
// as a type mismatch or division by zero.
type EvalError struct {
	// Source is the expression text being executed.
	Source string
	// Msg describes the failure.
	Msg string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error in %q: %s", e.Source, e.Msg)
}
