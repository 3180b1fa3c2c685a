package vardoc

import "strings"

// PathSep separates segments in the string form of a path.
const PathSep = "."

// Path is an absolute tree path: the sequence of keys from the document
// root. The zero value addresses the root itself.
type Path []string

// ParsePath splits a dot-separated path string. Empty input yields the
// root path; empty segments are dropped.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, PathSep)
	out := make(Path, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String renders the dot-separated form.
func (p Path) String() string {
	return strings.Join(p, PathSep)
}

// IsRoot reports whether the path addresses the document root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Parent returns the path one level up. The root's parent is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Key returns the final segment, or "" for the root.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Child returns a new path with key appended. The receiver is not
// modified or aliased.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// Join returns a new path with all segments appended.
func (p Path) Join(segs []string) Path {
	out := make(Path, len(p)+len(segs))
	copy(out, p)
	copy(out[len(p):], segs)
	return out
}

// Equal reports segment-wise equality.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}
