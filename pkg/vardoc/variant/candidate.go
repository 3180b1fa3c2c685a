package variant

import (
	"regexp"
	"strings"
)

// Dimension identifies which context dimension a candidate segment maps
// to. Classification is total: every segment maps to exactly one
// dimension.
type Dimension int

const (
	// DimCustom is any segment that matches no well-known pattern. It is
	// keyed by its literal text.
	DimCustom Dimension = iota

	// DimLanguage is a lowercase primary language subtag, optionally
	// followed by a region ("es", "en-us").
	DimLanguage

	// DimGender is one of the Gender* constants.
	DimGender

	// DimFormality is one of the Formality* constants.
	DimFormality

	// DimVersion is a dotted numeric version triple, optionally
	// v-prefixed.
	DimVersion
)

// String returns the dimension name.
func (d Dimension) String() string {
	switch d {
	case DimLanguage:
		return "language"
	case DimGender:
		return "gender"
	case DimFormality:
		return "formality"
	case DimVersion:
		return "version"
	default:
		return "custom"
	}
}

// Sep separates the base name from suffix segments in compound keys and
// storage identifiers.
const Sep = ":"

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-zA-Z]{2,8})?$`)

// Segment is one classified suffix segment of a candidate.
type Segment struct {
	// Raw is the literal segment text.
	Raw string

	// Dim is the dimension the segment was classified into.
	Dim Dimension

	// Version holds the parsed triple when Dim is DimVersion.
	Version Version
}

// Candidate is a parsed (base, suffix segments) pair.
type Candidate struct {
	// Raw is the full original key or identifier.
	Raw string

	// Base is the name with all suffix segments stripped.
	Base string

	// Segments are the classified suffix segments in declaration order.
	Segments []Segment
}

// ParseCandidate parses a compound key or identifier of the form
// base[:segment]*.
func ParseCandidate(key string) Candidate {
	parts := strings.Split(key, Sep)
	c := Candidate{Raw: key, Base: parts[0]}
	for _, p := range parts[1:] {
		c.Segments = append(c.Segments, Classify(p))
	}
	return c
}

// Classify maps a single suffix segment to its dimension. The well-known
// patterns are checked in a fixed order (gender, formality, version,
// language) so classification is deterministic; anything unmatched is a
// custom dimension.
func Classify(seg string) Segment {
	s := Segment{Raw: seg}
	switch seg {
	case GenderMale, GenderFemale, GenderNeutral:
		s.Dim = DimGender
		return s
	case FormalityFormal, FormalityInformal:
		s.Dim = DimFormality
		return s
	}
	if v, ok := ParseVersion(seg); ok {
		s.Dim = DimVersion
		s.Version = v
		return s
	}
	if languagePattern.MatchString(seg) {
		s.Dim = DimLanguage
		return s
	}
	s.Dim = DimCustom
	return s
}
