package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/roach88/strand/internal/graph"
	"github.com/roach88/strand/internal/macro"
	"github.com/roach88/strand/internal/rewrite"
)

// Options bound one pipeline run.
type Options struct {
	// MaxLength bounds the configuration graph G_L.
	MaxLength int

	// Seeds switches graph construction to incremental BFS from these
	// strings, explored to Depth, instead of full enumeration.
	Seeds []rewrite.String
	Depth int

	// Candidate mining window.
	MinPatternLen int
	MaxPatternLen int
	// MaxCandidates caps candidates taken per attractor.
	MaxCandidates int

	// Verification budgets.
	ConfluenceDepth int
	BisimLength     int
	BisimDepth      int

	// Workers bounds concurrent candidate verification. Zero means
	// GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the bounds used by the CLI when a system
// definition does not override them.
func DefaultOptions() Options {
	return Options{
		MaxLength:       6,
		MinPatternLen:   2,
		MaxPatternLen:   4,
		MaxCandidates:   3,
		ConfluenceDepth: 3,
		BisimLength:     5,
		BisimDepth:      3,
	}
}

// Lifter runs analyze and lift pipelines over one rewriting system.
//
// The dictionary is the only mutable state; Lift admits into it through
// its serialized writer, so a Lifter is safe to reuse across runs.
type Lifter struct {
	rules    []rewrite.Rule
	alphabet []rewrite.Symbol
	dict     *macro.Dictionary
	tokens   TokenGenerator
	log      logrus.FieldLogger
}

// NewLifter creates a lifter over the rule list and dictionary, using
// the base alphabet and UUIDv7 run tokens.
func NewLifter(rules []rewrite.Rule, dict *macro.Dictionary) *Lifter {
	return &Lifter{
		rules:    rules,
		alphabet: []rewrite.Symbol{rewrite.Zero, rewrite.Sep},
		dict:     dict,
		tokens:   UUIDv7Generator{},
		log:      logrus.StandardLogger(),
	}
}

// SetLogger replaces the progress logger.
func (l *Lifter) SetLogger(log logrus.FieldLogger) {
	l.log = log
}

// SetTokenGenerator replaces the run-token source. Tests install a
// FixedGenerator for golden comparison.
func (l *Lifter) SetTokenGenerator(gen TokenGenerator) {
	l.tokens = gen
}

// Dictionary returns the lifter's dictionary.
func (l *Lifter) Dictionary() *macro.Dictionary {
	return l.dict
}

// Analyze builds the configuration graph and reports its SCC, attractor,
// and basin structure without touching the dictionary.
func (l *Lifter) Analyze(ctx context.Context, opts Options) (*Report, error) {
	report, _, _, err := l.analyze(ctx, opts)
	return report, err
}

// analyze is the shared front half of both pipelines.
func (l *Lifter) analyze(ctx context.Context, opts Options) (*Report, *graph.Graph, []graph.SCC, error) {
	token := l.tokens.Generate()
	log := l.log.WithField("run", token)

	engine := rewrite.NewEngine(l.rules)
	builder := graph.NewBuilder(engine, l.alphabet)
	builder.SetLogger(log)

	var g *graph.Graph
	if len(opts.Seeds) > 0 {
		g = builder.BuildIncremental(opts.Seeds, opts.Depth)
	} else {
		g = builder.BuildGraph(opts.MaxLength)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("building graph: %w", err)
	}

	components := graph.FindSCCs(g)
	analyzer := graph.NewAttractorAnalyzer(g, components)

	report := &Report{
		RunToken:  token,
		MaxLength: opts.MaxLength,
		Vertices:  g.NumVertices(),
		Edges:     g.NumEdges(),
		SCCCount:  len(components),
	}
	for _, a := range analyzer.Attractors() {
		members := make([]string, 0, a.Len())
		for _, id := range a.Members {
			members = append(members, g.Vertex(id).Content())
		}
		report.Attractors = append(report.Attractors, AttractorInfo{
			Index:     a.Index,
			Size:      a.Len(),
			Members:   members,
			BasinSize: len(analyzer.FindBasin(a)),
		})
	}

	log.WithFields(logrus.Fields{
		"vertices":   report.Vertices,
		"edges":      report.Edges,
		"sccs":       report.SCCCount,
		"attractors": len(report.Attractors),
	}).Info("graph analysis complete")

	return report, g, components, nil
}

// Lift runs the full macro pipeline: analyze, mine candidates from
// nontrivial attractors, verify them concurrently, and admit survivors
// serially into the dictionary.
func (l *Lifter) Lift(ctx context.Context, opts Options) (*Report, error) {
	report, g, components, err := l.analyze(ctx, opts)
	if err != nil {
		return nil, err
	}
	log := l.log.WithField("run", report.RunToken)

	candidates := l.mineCandidates(g, components, opts)
	log.WithField("candidates", len(candidates)).Info("candidates mined")

	outcomes, err := l.verifyCandidates(ctx, candidates, opts)
	if err != nil {
		return nil, err
	}
	l.admit(outcomes, report)

	report.DictionaryVersion = l.dict.Version()
	hash, err := l.dict.ContentHash()
	if err != nil {
		return nil, fmt.Errorf("hashing dictionary: %w", err)
	}
	report.DictionaryHash = hash

	log.WithFields(logrus.Fields{
		"admitted": report.MacrosAdmitted,
		"version":  report.DictionaryVersion,
	}).Info("lift complete")
	return report, nil
}

// minedCandidate pairs a pattern candidate with its source attractor.
type minedCandidate struct {
	macro.PatternCandidate
	attractorIndex int
}

// mineCandidates collects the top-scored patterns from every attractor
// with at least two members, in attractor order. A pattern mined from an
// earlier attractor shadows later occurrences.
func (l *Lifter) mineCandidates(g *graph.Graph, components []graph.SCC, opts Options) []minedCandidate {
	var out []minedCandidate
	seen := make(map[rewrite.String]bool)

	for _, c := range components {
		if !c.IsAttractor || c.Len() < 2 {
			continue
		}
		members := make([]rewrite.String, 0, c.Len())
		for _, id := range c.Members {
			members = append(members, g.Vertex(id))
		}

		taken := 0
		for _, pc := range macro.AnalyzeSCC(members, opts.MinPatternLen, opts.MaxPatternLen) {
			if taken >= opts.MaxCandidates {
				break
			}
			if seen[pc.Pattern] {
				continue
			}
			seen[pc.Pattern] = true
			out = append(out, minedCandidate{PatternCandidate: pc, attractorIndex: c.Index})
			taken++
		}
	}
	return out
}

// verifyCandidates runs the confluence and bisimulation checks for each
// candidate on a worker pool. Checks only read the original rule list
// and a scratch symbol, so they are independent; results land in
// candidate order.
func (l *Lifter) verifyCandidates(ctx context.Context, candidates []minedCandidate, opts Options) ([]CandidateOutcome, error) {
	outcomes := make([]CandidateOutcome, len(candidates))

	scratch, ok := l.freeSymbol()
	if !ok {
		// No symbol left to even verify under; every candidate reports
		// exhaustion.
		for i, c := range candidates {
			outcomes[i] = l.baseOutcome(c)
			outcomes[i].Reason = ReasonSymbolsExhausted
		}
		return outcomes, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				c := candidates[i]
				out := l.baseOutcome(c)

				m := macro.New(scratch, c.Pattern)
				out.Confluent = macro.CheckConfluence(l.rules, m, opts.ConfluenceDepth)
				if out.Confluent {
					out.Bisimilar = macro.CheckBisimulation(l.rules, m, opts.BisimLength, opts.BisimDepth)
				}
				outcomes[i] = out
			}
		}()
	}

	for i := range candidates {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, fmt.Errorf("verifying candidates: %w", ctx.Err())
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return outcomes, nil
}

func (l *Lifter) baseOutcome(c minedCandidate) CandidateOutcome {
	return CandidateOutcome{
		Pattern:        c.Pattern.Content(),
		AttractorIndex: c.attractorIndex,
		Frequency:      c.Frequency,
		Stability:      c.Stability,
		Score:          c.Score,
	}
}

// admit walks verified outcomes in order and admits each through the
// dictionary's serialized writer, assigning the next free symbol.
func (l *Lifter) admit(outcomes []CandidateOutcome, report *Report) {
	for i := range outcomes {
		out := &outcomes[i]
		switch {
		case out.Reason != "":
			// Already settled before verification.
		case !out.Confluent:
			out.Reason = ReasonNotConfluent
		case !out.Bisimilar:
			out.Reason = ReasonNotBisimilar
		case l.definitionAdmitted(rewrite.NewString(out.Pattern)):
			out.Reason = ReasonDuplicateDefinition
		default:
			sym, ok := l.freeSymbol()
			if !ok {
				out.Reason = ReasonSymbolsExhausted
				break
			}
			m := macro.New(sym, rewrite.NewString(out.Pattern))
			m.Verified = true
			version, err := l.dict.Admit(m)
			if err != nil {
				out.Reason = err.Error()
				break
			}
			out.Admitted = true
			out.Symbol = string(sym)
			out.Version = version
			report.MacrosAdmitted++
		}
	}
	report.Candidates = outcomes
}

// definitionAdmitted reports whether some admitted macro already has
// this definition.
func (l *Lifter) definitionAdmitted(definition rewrite.String) bool {
	for _, m := range l.dict.Macros() {
		if m.Definition == definition {
			return true
		}
	}
	return false
}

// freeSymbol returns the first uppercase letter not yet bound in the
// dictionary.
func (l *Lifter) freeSymbol() (rewrite.Symbol, bool) {
	for r := 'A'; r <= 'Z'; r++ {
		if _, bound := l.dict.Lookup(rewrite.Symbol(r)); !bound {
			return rewrite.Symbol(r), true
		}
	}
	return 0, false
}
