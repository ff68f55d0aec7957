// Package domain defines the entities of the PBS Admin record store:
// clients, pets, events, and tasks.
//
// Entities are plain structs with explicit fields - never open maps -
// so that rule conditions and action payload builders are exhaustively
// type-checked. All instants are time.Time values; the canonical stored
// representation (RFC 3339 UTC) is produced by the timeutil package.
//
// Validation lives here so every writer (store, rules engine, CLI)
// enforces the same invariants:
//   - Task priority is in [1,5]
//   - Task.CompletedOn is set if and only if Status == Done
//   - Parent references never point at the entity itself
//
// Parent chains (ParentEventID, ParentTaskID) form trees; cycle
// prevention beyond direct self-reference is the store/UI's concern.
// The rules engine never traverses them.
package domain
