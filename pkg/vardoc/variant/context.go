// Package variant implements context dimensions, candidate scoring, and
// best-candidate selection for variant-suffixed keys and identifiers.
//
// A variant candidate is a base name plus colon-separated suffix segments
// (for example "greeting:es:formal"). Each segment is classified into a
// well-known dimension (language, gender, formality, version) or a custom
// dimension, and scored against the active Context. Selection is
// deterministic: highest score wins, ties break on fewest unmatched
// segments, remaining ties on declaration order.
package variant

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known gender values. Any candidate gender segment outside this set
// is classified as a custom dimension.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderNeutral = "neutral"
)

// Well-known formality values.
const (
	FormalityFormal   = "formal"
	FormalityInformal = "informal"
)

// Context holds the active variant dimensions for an evaluation.
//
// A Context is a value type: Merge and friends return new contexts and
// never mutate the receiver, so a context handed to an evaluation call
// stays stable for its duration.
type Context struct {
	// Language is a lowercase primary language subtag, optionally with a
	// region ("es", "en-us"). Empty means no language requested.
	Language string

	// Gender is one of the Gender* constants, or empty.
	Gender string

	// Formality is one of the Formality* constants, or empty.
	Formality string

	// Version is the requested version prefix, or nil.
	Version *Version

	// Custom holds every dimension that is not well-known.
	Custom map[string]any
}

// IsZero reports whether no dimension is set.
func (c Context) IsZero() bool {
	return c.Language == "" && c.Gender == "" && c.Formality == "" &&
		c.Version == nil && len(c.Custom) == 0
}

// Merge returns a new context with overlay's dimensions applied on top of
// c. Dimensions absent from overlay are preserved; nothing is deleted.
func (c Context) Merge(overlay Context) Context {
	out := c
	if overlay.Language != "" {
		out.Language = overlay.Language
	}
	if overlay.Gender != "" {
		out.Gender = overlay.Gender
	}
	if overlay.Formality != "" {
		out.Formality = overlay.Formality
	}
	if overlay.Version != nil {
		v := *overlay.Version
		out.Version = &v
	}
	if len(overlay.Custom) > 0 {
		merged := make(map[string]any, len(c.Custom)+len(overlay.Custom))
		for k, v := range c.Custom {
			merged[k] = v
		}
		for k, v := range overlay.Custom {
			merged[k] = v
		}
		out.Custom = merged
	}
	return out
}

// FromMap builds a context from a dimension-name keyed mapping, the shape
// used by in-document context declarations and configuration files.
//
// Recognized well-known keys: "language" (also "lang"), "gender",
// "formality" (also "form"), "version". A version value may be a string
// ("3.4") or a mapping with "major"/"minor"/"patch" entries. Every other
// key becomes a custom dimension.
func FromMap(m map[string]any) Context {
	var c Context
	for k, v := range m {
		switch strings.ToLower(k) {
		case "language", "lang":
			c.Language = strings.ToLower(fmt.Sprintf("%v", v))
		case "gender":
			c.Gender = strings.ToLower(fmt.Sprintf("%v", v))
		case "formality", "form":
			c.Formality = strings.ToLower(fmt.Sprintf("%v", v))
		case "version":
			if ver, ok := versionFromAny(v); ok {
				c.Version = &ver
			}
		default:
			if c.Custom == nil {
				c.Custom = make(map[string]any)
			}
			c.Custom[k] = v
		}
	}
	return c
}

// Segments returns the canonical suffix segments for the context, in the
// fixed order language, gender, formality, version, then custom values
// sorted by key. Used when deriving a storage identifier from a context.
func (c Context) Segments() []string {
	var segs []string
	if c.Language != "" {
		segs = append(segs, c.Language)
	}
	if c.Gender != "" {
		segs = append(segs, c.Gender)
	}
	if c.Formality != "" {
		segs = append(segs, c.Formality)
	}
	if c.Version != nil {
		segs = append(segs, c.Version.String())
	}
	if len(c.Custom) > 0 {
		keys := make([]string, 0, len(c.Custom))
		for k := range c.Custom {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			segs = append(segs, fmt.Sprintf("%v", c.Custom[k]))
		}
	}
	return segs
}

// Fingerprint returns a canonical string for the context, suitable for
// composing cache keys. Equal contexts produce equal fingerprints.
func (c Context) Fingerprint() string {
	if c.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString("l=" + c.Language)
	b.WriteString(";g=" + c.Gender)
	b.WriteString(";f=" + c.Formality)
	if c.Version != nil {
		b.WriteString(";v=" + c.Version.String())
	}
	if len(c.Custom) > 0 {
		keys := make([]string, 0, len(c.Custom))
		for k := range c.Custom {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, ";c.%s=%v", k, c.Custom[k])
		}
	}
	return b.String()
}
