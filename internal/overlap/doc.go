// Package overlap provides multi-pattern matching and rule-overlap
// analysis.
//
// The Aho-Corasick automaton finds every occurrence of a pattern set in a
// text in one linear pass, overlapping and nested matches included:
// O(n + Σ|pattern| + z) where z is the match count. It serves both the
// locality check and the critical-pair search of the macro pipeline.
//
// The overlap functions measure how far rule left-hand sides can interact:
// the maximal suffix/prefix overlap between two patterns bounds the window
// inside which applying one rule can enable or disable another. A rule set
// is M-local when no pairwise overlap exceeds M.
package overlap
