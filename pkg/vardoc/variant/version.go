package variant

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a version triple with explicit specificity: "3" specifies
// only the major component, "3.4" major and minor, "3.4.1" all three.
// Specificity drives prefix matching, where a context that requests
// {major: 3, minor: 4} accepts any candidate whose first two components
// are 3 and 4.
type Version struct {
	Major, Minor, Patch int

	// Specificity is the number of components that were actually
	// specified, between 1 and 3.
	Specificity int
}

// ParseVersion parses a version segment of the form "3", "3.4", "3.4.1",
// optionally prefixed with "v". Returns false for anything else.
func ParseVersion(s string) (Version, bool) {
	s = strings.TrimPrefix(s, "v")
	if s == "" {
		return Version{}, false
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, false
	}
	var comps [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (len(p) > 1 && p[0] == '0') {
			return Version{}, false
		}
		comps[i] = n
	}
	return Version{
		Major:       comps[0],
		Minor:       comps[1],
		Patch:       comps[2],
		Specificity: len(parts),
	}, true
}

// versionFromAny accepts the value shapes a context declaration may use
// for its version dimension: a version string, or a mapping with
// "major"/"minor"/"patch" integer entries.
func versionFromAny(v any) (Version, bool) {
	switch val := v.(type) {
	case string:
		return ParseVersion(val)
	case map[string]any:
		var out Version
		major, ok := intEntry(val, "major")
		if !ok {
			return Version{}, false
		}
		out.Major = major
		out.Specificity = 1
		if minor, ok := intEntry(val, "minor"); ok {
			out.Minor = minor
			out.Specificity = 2
			if patch, ok := intEntry(val, "patch"); ok {
				out.Patch = patch
				out.Specificity = 3
			}
		}
		return out, true
	}
	return Version{}, false
}

func intEntry(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}

// component returns the i-th component (0 = major).
func (v Version) component(i int) int {
	switch i {
	case 0:
		return v.Major
	case 1:
		return v.Minor
	default:
		return v.Patch
	}
}

// PrefixMatch reports whether candidate matches every component the
// requested version specifies. The candidate must be at least as specific
// as the request.
func (v Version) PrefixMatch(candidate Version) bool {
	if candidate.Specificity < v.Specificity {
		return false
	}
	for i := 0; i < v.Specificity; i++ {
		if v.component(i) != candidate.component(i) {
			return false
		}
	}
	return true
}

// TrailingBonus computes the sub-unit tiebreak bonus for a candidate that
// prefix-matched the requested version. The candidate's components beyond
// the requested specificity are flattened with fixed base-1000 positional
// weights into f (unspecified components count as 0), and the bonus is
// f/(f+1): strictly below 1 (so it never crosses into the next scoring
// tier) and lexicographically monotonic for components under 1000,
// preferring the highest full version among candidates sharing the
// requested prefix.
func (v Version) TrailingBonus(candidate Version) float64 {
	f := 0.0
	for i := v.Specificity; i < 3; i++ {
		c := 0
		if i < candidate.Specificity {
			c = candidate.component(i)
		}
		f = f*1000 + float64(c)
	}
	if f <= 0 {
		return 0
	}
	return f / (f + 1)
}

// String renders the version at its own specificity ("3.4", not "3.4.0").
func (v Version) String() string {
	switch v.Specificity {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}
