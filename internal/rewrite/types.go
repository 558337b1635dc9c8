package rewrite

import "strings"

// Symbol is an atomic alphabet element. Symbols are value-equal and
// usable as map keys. The base alphabet is {Zero, Sep}; macro lifting
// introduces fresh symbols beyond it.
type Symbol rune

const (
	// Zero is the unit symbol of the base alphabet.
	Zero Symbol = '0'
	// Sep is the block separator of the base alphabet.
	Sep Symbol = '|'
)

// String returns the symbol's printable form.
func (s Symbol) String() string {
	return string(rune(s))
}

// IsBase reports whether the symbol belongs to the base alphabet {0, |}.
func (s Symbol) IsBase() bool {
	return s == Zero || s == Sep
}

// String is an immutable, ordered, finite sequence of Symbols.
//
// Equality is structural: two Strings are equal iff their symbol sequences
// match. String is comparable and safe to use as a map key, which the
// graph builder and all visited-set bookkeeping rely on. The zero value is
// the empty string.
type String struct {
	content string
}

// NewString builds a String from its printable content, one symbol per rune.
func NewString(content string) String {
	return String{content: content}
}

// NewStringFromSymbols builds a String from a symbol slice.
func NewStringFromSymbols(syms []Symbol) String {
	var b strings.Builder
	b.Grow(len(syms))
	for _, s := range syms {
		b.WriteRune(rune(s))
	}
	return String{content: b.String()}
}

// Content returns the printable content of the string.
func (s String) Content() string {
	return s.content
}

// String implements fmt.Stringer.
func (s String) String() string {
	return s.content
}

// Symbols returns the symbol sequence. The result is a fresh slice; the
// String itself is never mutated.
func (s String) Symbols() []Symbol {
	runes := []rune(s.content)
	syms := make([]Symbol, len(runes))
	for i, r := range runes {
		syms[i] = Symbol(r)
	}
	return syms
}

// Len returns the number of symbols.
func (s String) Len() int {
	n := 0
	for range s.content {
		n++
	}
	return n
}

// IsEmpty reports whether the string has no symbols.
func (s String) IsEmpty() bool {
	return s.content == ""
}

// Blocks returns the arithmetic view of the string: the list of maximal
// '0' run lengths delimited by '|'. Adjacent separators contribute a zero
// block; a trailing separator closes the last block without opening a new
// one. Symbols outside the base alphabet (macro symbols) are skipped.
//
// Examples:
//
//	"00|000|0" → [2, 3, 1]
//	"0||0"     → [1, 0, 1]
//	"0|"       → [1]
//	""         → []
func (s String) Blocks() []int {
	blocks := []int{}
	run := 0
	last := Symbol(0)
	for _, r := range s.content {
		sym := Symbol(r)
		switch sym {
		case Zero:
			run++
		case Sep:
			blocks = append(blocks, run)
			run = 0
		}
		if sym.IsBase() {
			last = sym
		}
	}
	if run > 0 || (last != 0 && last != Sep) {
		blocks = append(blocks, run)
	}
	return blocks
}

// FromBlocks builds the canonical string 0^b1|0^b2|...|0^bn for a block
// list. Round-trips with Blocks for block lists without trailing zeros.
func FromBlocks(blocks []int) String {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = strings.Repeat("0", b)
	}
	return String{content: strings.Join(parts, "|")}
}

// Slice returns the substring covering symbol positions [i, j).
// Bounds are the caller's responsibility, matching slice semantics.
func (s String) Slice(i, j int) String {
	runes := []rune(s.content)
	return String{content: string(runes[i:j])}
}

// Concat returns the concatenation s + t.
func (s String) Concat(t String) String {
	return String{content: s.content + t.content}
}

// ContainsSubstring reports whether pattern occurs anywhere in s.
func (s String) ContainsSubstring(pattern String) bool {
	return strings.Contains(s.content, pattern.content)
}

// StringSet is a set of Strings.
type StringSet map[String]struct{}

// NewStringSet builds a set from the given members.
func NewStringSet(members ...String) StringSet {
	set := make(StringSet, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}
	return set
}

// Add inserts s into the set.
func (ss StringSet) Add(s String) {
	ss[s] = struct{}{}
}

// Contains reports membership.
func (ss StringSet) Contains(s String) bool {
	_, ok := ss[s]
	return ok
}

// AddAll inserts every member of other.
func (ss StringSet) AddAll(other StringSet) {
	for s := range other {
		ss[s] = struct{}{}
	}
}

// Intersects reports whether the two sets share a member.
func (ss StringSet) Intersects(other StringSet) bool {
	small, large := ss, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for s := range small {
		if _, ok := large[s]; ok {
			return true
		}
	}
	return false
}

// SymmetricDifferenceSize returns |ss Δ other|.
func (ss StringSet) SymmetricDifferenceSize(other StringSet) int {
	n := 0
	for s := range ss {
		if _, ok := other[s]; !ok {
			n++
		}
	}
	for s := range other {
		if _, ok := ss[s]; !ok {
			n++
		}
	}
	return n
}
