// Package harness runs YAML-defined automation scenarios against the
// rules engine with deterministic fakes: a fixed clock, sequential IDs
// and an in-memory store. Scenario outcomes are compared against
// golden snapshots, so a rule change that alters behavior shows up as
// a readable diff.
package harness
