// Package rules implements the automation rules engine.
//
// The engine listens for entity-lifecycle events (client/event/task
// created or updated) and deterministically produces follow-on records
// according to declarative rule definitions. It is composed of four
// parts:
//
//   - Registry: an ordered, immutable set of rules fixed at startup
//   - Evaluator: matches a lifecycle event against the registry
//   - Executor: materializes matched rules' actions against the store
//   - Engine: the public entry point, HandleLifecycleEvent
//
// DETERMINISM: rules are evaluated in declaration order, and a rule's
// actions apply in declaration order. The same lifecycle event against
// the same registry always yields results in the same order.
//
// BEST-EFFORT EXECUTION: a store failure in one action is captured in
// that action's result and never aborts subsequent actions or rules.
// Only an unsupported trigger kind terminates a HandleLifecycleEvent
// call early. An error inside a payload builder surfaces as that
// action's failure, not a call error.
//
// FAIL-CLOSED CONDITIONS: a panic while evaluating a rule's condition
// is recovered, logged, and treated as "rule does not match". A
// malformed rule must not block unrelated rules from firing.
//
// The engine holds no mutable state between calls. Hosts with an async
// event loop can serialize calls through Dispatcher, a single-consumer
// FIFO queue.
package rules
