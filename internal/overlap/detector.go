package overlap

import "github.com/roach88/strand/internal/rewrite"

// Overlap records a suffix/prefix interaction: the last Length symbols of
// Pattern1 equal the first Length symbols of Pattern2.
type Overlap struct {
	Pattern1 rewrite.String
	Pattern2 rewrite.String
	Length   int
	Shared   rewrite.String
}

// SuffixPrefixOverlap returns the maximal overlap of a suffix of s1 with
// a prefix of s2, or ok=false when none exists. Lengths are scanned from
// min(len(s1), len(s2)) downward, so ties always favor the longest
// overlap.
func SuffixPrefixOverlap(s1, s2 rewrite.String) (Overlap, bool) {
	n1, n2 := s1.Len(), s2.Len()
	max := n1
	if n2 < max {
		max = n2
	}

	for length := max; length >= 1; length-- {
		if s1.Slice(n1-length, n1) == s2.Slice(0, length) {
			return Overlap{
				Pattern1: s1,
				Pattern2: s2,
				Length:   length,
				Shared:   s2.Slice(0, length),
			}, true
		}
	}
	return Overlap{}, false
}

// AllOverlaps returns every pairwise suffix/prefix overlap of length at
// least minLength between distinct patterns, in pattern order. Both
// directions of a pair are examined; a pattern is not compared with
// itself.
func AllOverlaps(patterns []rewrite.String, minLength int) []Overlap {
	var overlaps []Overlap
	for i, p1 := range patterns {
		for j, p2 := range patterns {
			if i == j {
				continue
			}
			if o, ok := SuffixPrefixOverlap(p1, p2); ok && o.Length >= minLength {
				overlaps = append(overlaps, o)
			}
		}
	}
	return overlaps
}

// CheckMLocality reports whether every pairwise suffix/prefix overlap
// between distinct rule left-hand sides has length at most m. M-locality
// is the structural precondition for treating rule applications as
// non-interfering beyond a window of m symbols. The check is monotone in
// m: a rule set that is m-local is m'-local for every m' > m.
func CheckMLocality(rules []rewrite.Rule, m int) bool {
	return MaxOverlap(rules) <= m
}

// MaxOverlap returns the maximal overlap length between distinct rule
// left-hand sides, or 0 when no overlap exists.
func MaxOverlap(rules []rewrite.Rule) int {
	lefts := make([]rewrite.String, len(rules))
	for i, r := range rules {
		lefts[i] = r.Left
	}

	max := 0
	for _, o := range AllOverlaps(lefts, 1) {
		if o.Length > max {
			max = o.Length
		}
	}
	return max
}
