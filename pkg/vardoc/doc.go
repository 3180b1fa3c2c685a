/*
Package vardoc provides lazy, variant-aware expression expansion over
tree-shaped documents.

# Overview

A vardoc document is a mapping tree (typically loaded from YAML or
JSON) in which keys prefixed with "." hold expressions instead of
values. Expressions are evaluated lazily on first read, memoized, and
re-evaluated only after invalidation. Keys may carry variant suffixes
(language, gender, formality, version, custom tags) separated by ":";
reads select the best-matching candidate for the effective variant
context, which merges the document's base context, hierarchical
".context" declarations, and any per-call context.

Features:
  - Lazy evaluation with dependency-aware cascading invalidation
  - Template interpolation ("Hello ${name}") and inline expressions
    ("${price * 1.2}") with calls into registered resolver functions
  - Variant selection with deterministic scoring and tie-breaks
  - Self-directives ("." keys) whose mapping result deep-merges under
    sibling properties
  - Scoped name resolution with outward fallback and parent markers
  - Optional slog logging and OpenTelemetry metrics and traces

# Basic Usage

Build a document from a tree and read paths from it:

	tree, err := vardoc.DecodeTree([]byte(`
	  name: World
	  .greeting: Hello ${name}!
	`))
	if err != nil {
	    log.Fatal(err)
	}

	doc, err := vardoc.New(tree)
	if err != nil {
	    log.Fatal(err)
	}

	v, err := doc.Get(ctx, "greeting")
	// v == "Hello World!"

Writes invalidate the written path; TriggerDependents cascades to
everything that read it:

	doc.Set("name", "Go", vardoc.TriggerDependents())
	v, _ = doc.Get(ctx, "greeting")
	// v == "Hello Go!"

# Variants

Sibling keys sharing a base name compete for it under the effective
context:

	greeting: Hello
	greeting:es: Hola
	greeting:es:formal: Buenos días

	doc.Get(ctx, "greeting",
	    vardoc.WithContext(variant.Context{Language: "es", Formality: "formal"}))
	// "Buenos días"

# Packages

Supporting packages:
  - expr: expression parsing and evaluation
  - variant: context, candidate parsing, scoring, selection
  - resolver: the named-function registry callable from expressions
  - storage: memory, file, and SQLite document sources
  - config: file-based engine configuration
  - observability: slog and OpenTelemetry helpers
*/
package vardoc
