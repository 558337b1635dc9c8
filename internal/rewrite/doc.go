// Package rewrite implements the symbol/string data model and the
// nondeterministic string-rewriting engine.
//
// The base alphabet has two symbols: '0' (unit) and '|' (block separator).
// Strings over this alphabet carry a dual reading: syntactic (a symbol
// sequence) and arithmetic (the list of maximal '0' run lengths between
// separators, see String.Blocks). Macro lifting extends the alphabet with
// synthesized symbols; the engine itself is agnostic to which symbols a
// string contains.
//
// SEMANTICS:
//
// Rewriting is nondeterministic and position-exhaustive. A rule L→R applies
// at every position where L occurs, overlapping occurrences included. The
// one-step image of a string is the set of all (rule, position) splices,
// and its order is deterministic: rules in declaration order, positions
// ascending within a rule. Several downstream checks deliberately sample
// "the first two" applications, so this order is part of the contract.
//
// Exploration operations (BoundedReach, Reachable, OmegaLimit) are bounded
// by caller-supplied budgets (depth, width, max steps). Hitting a budget is
// never an error: the operation returns its best partial answer and the
// caller decides how to interpret it.
//
// FAILURE SEMANTICS:
//
// "No rule applies" is the normal normal-form condition, signaled by an
// empty application list. "Target not reached" and "no cycle found" are
// negative results (ok=false), not errors. The engine does not validate
// rule well-formedness; an empty left-hand side is a caller bug.
package rewrite
