// Package macro implements the macro lifting pipeline: mining recurring
// patterns inside attractor components, packaging a pattern as a fresh
// alphabet symbol with introduction/elimination rules, verifying that the
// extension preserves short-horizon behavior, and recording admitted
// macros in a versioned dictionary.
//
// LIFECYCLE:
//
// A candidate moves through proposed → confluence-checked →
// bisimulation-checked → admitted or rejected, and never re-enters an
// earlier state. Both checks are bounded approximations, not proofs:
// confluence tests a syntactic over-approximation of critical pairs for
// joinability within a search budget, and bisimulation compares sampled
// bounded-reach sets of the old and extended systems. A single
// counterexample rejects; passing both admits.
//
// The dictionary is the only entity here with a mutable lifecycle. It
// grows by one version per admitted macro through a single mutex-guarded
// append, carries an append-only history of admission events, and is
// persisted atomically on demand (see the store package).
package macro
