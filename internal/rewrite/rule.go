package rewrite

// RuleID is the derived identity of a rule: "left→right".
type RuleID string

// Rule is an ordered pair (Left, Right) of Strings licensing replacement
// of an occurrence of Left with Right.
//
// Two rules are equal iff their (Left, Right) pair matches; Metadata does
// not participate in identity. A rule may carry an inverse (Right→Left)
// but reversibility is never assumed by default.
type Rule struct {
	Left     String
	Right    String
	Metadata map[string]string
}

// NewRule builds a rule from printable left/right content.
func NewRule(left, right string) Rule {
	return Rule{Left: NewString(left), Right: NewString(right)}
}

// ID returns the derived rule identity "left→right".
func (r Rule) ID() RuleID {
	return RuleID(r.Left.Content() + "→" + r.Right.Content())
}

// String implements fmt.Stringer.
func (r Rule) String() string {
	return r.Left.Content() + " → " + r.Right.Content()
}

// Equal reports rule identity on the (Left, Right) pair.
func (r Rule) Equal(other Rule) bool {
	return r.Left == other.Left && r.Right == other.Right
}

// Inverse returns the swapped rule Right→Left. The inverse records its
// provenance in Metadata but copies nothing else.
func (r Rule) Inverse() Rule {
	return Rule{
		Left:     r.Right,
		Right:    r.Left,
		Metadata: map[string]string{"inverse_of": string(r.ID())},
	}
}

// RuleSet is an ordered collection of rules with lookup by id and by
// left-hand side. Rule order is significant: the engine's deterministic
// application order follows it.
type RuleSet struct {
	rules  []Rule
	byID   map[RuleID]Rule
	byLeft map[String][]Rule
}

// NewRuleSet builds a rule set preserving the given order.
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{
		byID:   make(map[RuleID]Rule, len(rules)),
		byLeft: make(map[String][]Rule, len(rules)),
	}
	for _, r := range rules {
		rs.Add(r)
	}
	return rs
}

// Add appends a rule.
func (rs *RuleSet) Add(r Rule) {
	rs.rules = append(rs.rules, r)
	rs.byID[r.ID()] = r
	rs.byLeft[r.Left] = append(rs.byLeft[r.Left], r)
}

// Rules returns the rules in declaration order. Callers must not mutate
// the returned slice.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// ByID looks a rule up by its derived id.
func (rs *RuleSet) ByID(id RuleID) (Rule, bool) {
	r, ok := rs.byID[id]
	return r, ok
}

// ByLeft returns every rule whose left-hand side equals left, in
// declaration order.
func (rs *RuleSet) ByLeft(left String) []Rule {
	return rs.byLeft[left]
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Context is a window of a string at one application position together
// with the rule applied there. Contexts exist only for overlap and
// critical-pair analysis; they are never persisted.
type Context struct {
	S        String
	Position int
	Rule     Rule
}

// ExtractMatch returns the substring at the context position matching the
// rule's left-hand side, or ok=false when the window runs past the end of
// the string.
func (c Context) ExtractMatch() (String, bool) {
	matchLen := c.Rule.Left.Len()
	if c.Position < 0 || c.Position+matchLen > c.S.Len() {
		return String{}, false
	}
	return c.S.Slice(c.Position, c.Position+matchLen), true
}
