// Package expr parses and evaluates directive expression strings.
//
// An expression source has one of three shapes, decided once at parse
// time and never re-sniffed:
//
//   - literal: no ${...} occurrences; the source is the value.
//   - template: literal text with embedded ${name} placeholders, each
//     independently resolved, stringified, and concatenated.
//   - inline: a single ${...} spanning the whole source, whose interior
//     is executed as a small expression language (arithmetic, ternary,
//     comparison, member access, calls into a resolver registry).
//
// The interpreter is deliberately explicit: a hand-written lexer, a
// recursive-descent parser into a small AST, and a tree-walk evaluator
// over a constrained grammar. Inputs are trusted; the only guards are
// the caller's depth and cycle limits.
//
// Name references (bare, dotted, or parent-prefixed with leading dots)
// are not resolved here. They flow through Env.Resolve, which the host
// document wires to scoped-name resolution and its own cached read entry
// point; that indirection is what lets the host discover dependency
// edges while an expression runs.
package expr
