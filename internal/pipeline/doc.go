// Package pipeline orchestrates end-to-end macro lift runs: build the
// configuration graph, find attractors, mine candidate patterns, verify
// them, and admit the survivors into the dictionary.
//
// Each run carries a UUIDv7 run token for log and report correlation.
// Graph construction and candidate verification fan out across worker
// goroutines; dictionary admission stays serialized behind the
// dictionary's writer lock, so reports are deterministic for a given
// system and bounds.
package pipeline
