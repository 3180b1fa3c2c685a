package variant

import (
	"fmt"
	"strings"
)

// Dimension weights, highest to lowest. A candidate's score is the sum of
// the weights of every dimension present and equal in both the candidate
// and the context. The version weight additionally carries a sub-unit
// fractional bonus (see Version.TrailingBonus) that stays below the
// formality tier boundary.
const (
	WeightLanguage  = 1000.0
	WeightGender    = 100.0
	WeightVersion   = 75.0
	WeightFormality = 50.0
	WeightCustom    = 10.0
)

// Score is a candidate's match quality against a context.
type Score struct {
	// Points is the summed dimension weight.
	Points float64

	// Extra counts candidate segments that did not correspond to any
	// matching context dimension. It is the tiebreaker: lower wins.
	Extra int
}

// Better reports whether s outranks o: higher points first, then fewer
// extra segments.
func (s Score) Better(o Score) bool {
	if s.Points != o.Points {
		return s.Points > o.Points
	}
	return s.Extra < o.Extra
}

// Match scores a candidate against a context. The second return is false
// when the candidate does not match at all: either a closed-set dimension
// (gender, formality) is present in the candidate but absent or different
// in the context, or the candidate carries segments and none of them
// matched a requested dimension. An unsuffixed candidate always matches
// with score 0.
func Match(c Candidate, ctx Context) (Score, bool) {
	if len(c.Segments) == 0 {
		return Score{}, true
	}

	var score Score
	matched := 0
	for _, seg := range c.Segments {
		switch seg.Dim {
		case DimLanguage:
			if ctx.Language != "" && strings.EqualFold(seg.Raw, ctx.Language) {
				score.Points += WeightLanguage
				matched++
			}
		case DimGender:
			// Closed set: a mismatched or unrequested gender disqualifies.
			if ctx.Gender != seg.Raw {
				return Score{}, false
			}
			score.Points += WeightGender
			matched++
		case DimFormality:
			if ctx.Formality != seg.Raw {
				return Score{}, false
			}
			score.Points += WeightFormality
			matched++
		case DimVersion:
			if ctx.Version != nil && ctx.Version.PrefixMatch(seg.Version) {
				score.Points += WeightVersion + ctx.Version.TrailingBonus(seg.Version)
				matched++
			}
		default:
			if customMatches(seg.Raw, ctx.Custom) {
				score.Points += WeightCustom
				matched++
			}
		}
	}

	if matched == 0 {
		return Score{}, false
	}
	score.Extra = len(c.Segments) - matched
	return score, true
}

// customMatches reports whether a custom segment matches the context's
// custom dimensions: either a truthy entry keyed by the segment text, or
// any entry whose value stringifies to it.
func customMatches(seg string, custom map[string]any) bool {
	if len(custom) == 0 {
		return false
	}
	if v, ok := custom[seg]; ok && truthy(v) {
		return true
	}
	for _, v := range custom {
		if fmt.Sprintf("%v", v) == seg {
			return true
		}
	}
	return false
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != "" && val != "false"
	default:
		return true
	}
}

