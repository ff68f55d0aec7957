package store

import (
	"context"

	"pbsadmin/internal/rules"
	"pbsadmin/internal/timeutil"
)

// MarkFired records a rule firing for an entity. Returns false if the
// same (trigger, entity, rule) firing was already recorded.
//
// ON CONFLICT DO NOTHING makes the insert idempotent: a repeated
// lifecycle event (UI retry, booking-database re-sync) finds the row
// present and the engine skips the rule.
func (s *Store) MarkFired(ctx context.Context, trigger rules.Trigger, entityID, ruleID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO rule_firings (trigger_kind, entity_id, rule_id, fired_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(trigger_kind, entity_id, rule_id) DO NOTHING
	`, string(trigger), entityID, ruleID, timeutil.Format(s.clock.Now()))
	if err != nil {
		return false, storeErr("mark fired", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("mark fired", err)
	}
	return n > 0, nil
}

// FiringCount returns the number of recorded firings. Used by tests
// and diagnostics.
func (s *Store) FiringCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rule_firings`).Scan(&n); err != nil {
		return 0, storeErr("firing count", err)
	}
	return n, nil
}
