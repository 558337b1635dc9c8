// Package harness provides a scenario-driven conformance framework for
// the analysis pipelines.
//
// Scenarios are YAML files describing a rewriting system, the operation
// to run (analyze or lift), optional bounds, and expectations over the
// resulting report. Each scenario runs against a fresh dictionary with a
// fixed run token, so reports are fully deterministic and can be
// snapshotted as golden files (canonical JSON, compared with goldie).
package harness
