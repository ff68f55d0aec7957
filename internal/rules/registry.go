package rules

import "fmt"

// Registry holds the ordered, immutable set of automation rules.
//
// Rules are declared once at process start. Order matters: multiple
// rules may match the same triggering entity, and their actions apply
// in registration order. The rules slice is copied on construction and
// never mutated afterwards.
type Registry struct {
	rules []Rule
}

// NewRegistry validates and freezes a rule set.
//
// Validation:
//   - rule IDs are non-empty and unique
//   - triggers are supported kinds
//   - every rule has a condition and at least one action
func NewRegistry(ruleSet ...Rule) (*Registry, error) {
	seen := make(map[string]bool, len(ruleSet))
	for _, r := range ruleSet {
		if r.ID == "" {
			return nil, fmt.Errorf("registry: rule with empty ID")
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("registry: duplicate rule ID %q", r.ID)
		}
		seen[r.ID] = true

		if !r.Trigger.Valid() {
			return nil, fmt.Errorf("registry: rule %q: unsupported trigger %q", r.ID, r.Trigger)
		}
		if r.Condition == nil {
			return nil, fmt.Errorf("registry: rule %q: nil condition", r.ID)
		}
		if len(r.Actions) == 0 {
			return nil, fmt.Errorf("registry: rule %q: no actions", r.ID)
		}
	}

	rules := make([]Rule, len(ruleSet))
	copy(rules, ruleSet)
	return &Registry{rules: rules}, nil
}

// RulesFor returns the rules registered for a trigger, preserving
// declaration order.
func (r *Registry) RulesFor(trigger Trigger) []Rule {
	var out []Rule
	for _, rule := range r.rules {
		if rule.Trigger == trigger {
			out = append(out, rule)
		}
	}
	return out
}

// Rules returns a copy of all registered rules in declaration order.
// Used for listings and introspection.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}
