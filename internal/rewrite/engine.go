package rewrite

// Application is one element of a string's nondeterministic one-step
// image: the rule applied, the position it matched, and the spliced
// result.
type Application struct {
	Result   String
	Rule     Rule
	Position int
}

// Engine applies an ordered rule list nondeterministically. The engine is
// stateless apart from its rules and safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over the given rules. Rule order is
// preserved; it determines the order of AllApplications.
func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the engine's rules in declaration order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// FindPositions returns every start index where pattern occurs in s,
// overlapping occurrences included. An empty pattern matches nowhere.
func (e *Engine) FindPositions(s, pattern String) []int {
	syms := s.Symbols()
	pat := pattern.Symbols()
	if len(pat) == 0 || len(pat) > len(syms) {
		return nil
	}

	var positions []int
	for i := 0; i+len(pat) <= len(syms); i++ {
		match := true
		for j := range pat {
			if syms[i+j] != pat[j] {
				match = false
				break
			}
		}
		if match {
			positions = append(positions, i)
		}
	}
	return positions
}

// ApplyRule splices rule.Right in place of rule.Left at the given
// position. Pure substitution: the result has length
// len(s) - len(rule.Left) + len(rule.Right). The caller must pass a
// position obtained from FindPositions.
func (e *Engine) ApplyRule(s String, rule Rule, position int) String {
	syms := s.Symbols()
	leftLen := rule.Left.Len()
	right := rule.Right.Symbols()

	result := make([]Symbol, 0, len(syms)-leftLen+len(right))
	result = append(result, syms[:position]...)
	result = append(result, right...)
	result = append(result, syms[position+leftLen:]...)
	return NewStringFromSymbols(result)
}

// AllApplications returns the full one-step image of s: every
// (rule, position) match with its spliced result. Order is deterministic
// and reproducible: rules in declaration order, positions ascending
// within a rule. An empty result is the normal normal-form condition,
// not an error.
func (e *Engine) AllApplications(s String) []Application {
	var apps []Application
	for _, rule := range e.rules {
		for _, pos := range e.FindPositions(s, rule.Left) {
			apps = append(apps, Application{
				Result:   e.ApplyRule(s, rule, pos),
				Rule:     rule,
				Position: pos,
			})
		}
	}
	return apps
}

// reachItem is a BFS work item carrying a string and its level.
type reachItem struct {
	s     String
	level int
}

// BoundedReach explores the one-step relation breadth-first from start,
// up to depth levels. The result maps each level to the set of strings
// first reached at that level (level 0 holds start). Levels with no new
// strings are absent.
//
// width is a sampling bound, not a completeness guarantee: when a string
// has more than width outgoing applications, only the first width in the
// engine's deterministic order are expanded. width <= 0 means unlimited.
//
// Already-visited strings are never re-added, so cycles terminate the
// exploration naturally.
func (e *Engine) BoundedReach(start String, depth, width int) map[int]StringSet {
	levels := map[int]StringSet{0: NewStringSet(start)}
	visited := NewStringSet(start)

	queue := []reachItem{{s: start, level: 0}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.level >= depth {
			continue
		}

		apps := e.AllApplications(item.s)
		if width > 0 && len(apps) > width {
			apps = apps[:width]
		}

		for _, app := range apps {
			if visited.Contains(app.Result) {
				continue
			}
			visited.Add(app.Result)

			next := item.level + 1
			if levels[next] == nil {
				levels[next] = NewStringSet()
			}
			levels[next].Add(app.Result)
			queue = append(queue, reachItem{s: app.Result, level: next})
		}
	}
	return levels
}

// Reachable searches for target from start with the same BFS and bounds
// as BoundedReach, short-circuiting the instant target is produced. It
// returns the discovered path from start to target inclusive, or ok=false
// when the search is exhausted without finding it. Exhaustion is a normal
// negative result, never an error.
func (e *Engine) Reachable(start, target String, depth, width int) ([]String, bool) {
	if start == target {
		return []String{start}, true
	}

	parent := map[String]String{}
	visited := NewStringSet(start)

	queue := []reachItem{{s: start, level: 0}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if item.level >= depth {
			continue
		}

		apps := e.AllApplications(item.s)
		if width > 0 && len(apps) > width {
			apps = apps[:width]
		}

		for _, app := range apps {
			if app.Result == target {
				path := []String{target, item.s}
				for cur := item.s; cur != start; {
					cur = parent[cur]
					path = append(path, cur)
				}
				reverse(path)
				return path, true
			}
			if visited.Contains(app.Result) {
				continue
			}
			visited.Add(app.Result)
			parent[app.Result] = item.s
			queue = append(queue, reachItem{s: app.Result, level: item.level + 1})
		}
	}
	return nil, false
}

// omegaWindow bounds the trailing-window approximation returned when no
// cycle is detected within the step budget.
const omegaWindow = 100

// OmegaResult is the outcome of OmegaLimit. When Exact is true, States is
// a genuine limit: either a detected cycle or a terminal normal form.
// When Exact is false, the step budget ran out and States is only the
// trailing window of the trajectory; callers must treat it as heuristic.
type OmegaResult struct {
	States StringSet
	Exact  bool
}

// OmegaLimit follows a single deterministic trajectory from start, always
// taking the first available application, and detects the first revisited
// string. It returns the cycle from that string's first occurrence onward.
// A string with no applications is a terminal state and its own exact
// limit. If no cycle appears within maxSteps, the trailing window of
// visited states is returned with Exact=false.
func (e *Engine) OmegaLimit(start String, maxSteps int) OmegaResult {
	var trajectory []String
	seenAt := map[String]int{}
	current := start

	for step := 0; step < maxSteps; step++ {
		seenAt[current] = len(trajectory)
		trajectory = append(trajectory, current)

		apps := e.AllApplications(current)
		if len(apps) == 0 {
			return OmegaResult{States: NewStringSet(current), Exact: true}
		}
		current = apps[0].Result

		if first, ok := seenAt[current]; ok {
			cycle := NewStringSet()
			for _, s := range trajectory[first:] {
				cycle.Add(s)
			}
			return OmegaResult{States: cycle, Exact: true}
		}
	}

	window := omegaWindow
	if len(trajectory) < window {
		window = len(trajectory)
	}
	states := NewStringSet()
	for _, s := range trajectory[len(trajectory)-window:] {
		states.Add(s)
	}
	return OmegaResult{States: states, Exact: false}
}

func reverse(path []String) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}
