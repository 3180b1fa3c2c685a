package variant

// Resolve selects the best candidate for base from candidates. Candidates
// whose base differs are skipped; the rest are scored with Match and the
// highest-scoring match wins, ties broken by lowest extra-segment count,
// remaining ties by position in the slice (first listed wins, keeping
// resolution deterministic for a fixed declaration order).
//
// The second return is false when no candidate shares the base name, or
// when every candidate that does was disqualified; callers typically then
// fall back to the unsuffixed base. Note that an unsuffixed candidate in
// the slice always matches with score 0, so listing it makes Resolve
// total for its base.
func Resolve(base string, candidates []Candidate, ctx Context) (Candidate, bool) {
	var (
		best      Candidate
		bestScore Score
		matched   bool
	)
	for _, c := range candidates {
		if c.Base != base {
			continue
		}
		score, ok := Match(c, ctx)
		if !ok {
			continue
		}
		if !matched || score.Better(bestScore) {
			best, bestScore, matched = c, score, true
		}
	}
	return best, matched
}

// ResolveKeys is a convenience wrapper over Resolve for callers holding
// raw compound keys in declaration order. It returns the chosen raw key.
func ResolveKeys(base string, keys []string, ctx Context) (string, bool) {
	candidates := make([]Candidate, 0, len(keys))
	for _, k := range keys {
		candidates = append(candidates, ParseCandidate(k))
	}
	c, ok := Resolve(base, candidates, ctx)
	if !ok {
		return "", false
	}
	return c.Raw, true
}
