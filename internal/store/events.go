package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

// CreateEvent inserts an event, assigning an ID when missing.
func (s *Store) CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	if err := e.Validate(); err != nil {
		return domain.Event{}, storeErr("create event", err)
	}
	if e.ID == "" {
		e.ID = newID()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, client_id, event_type, date, notes, status, parent_event_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ClientID, string(e.Type), timeutil.Format(e.Date), e.Notes, string(e.Status), e.ParentEventID)
	if err != nil {
		return domain.Event{}, storeErr("create event", err)
	}
	return e, nil
}

// GetEvent returns the event with the given id, or ErrNotFound.
func (s *Store) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, client_id, event_type, date, notes, status, parent_event_id
		FROM events WHERE id = ?
	`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Event{}, storeErr("get event", err)
	}
	return e, nil
}

// UpdateEvent replaces the stored row for e.ID.
func (s *Store) UpdateEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	if err := e.Validate(); err != nil {
		return domain.Event{}, storeErr("update event", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET client_id = ?, event_type = ?, date = ?, notes = ?, status = ?, parent_event_id = ?
		WHERE id = ?
	`, e.ClientID, string(e.Type), timeutil.Format(e.Date), e.Notes, string(e.Status), e.ParentEventID, e.ID)
	if err != nil {
		return domain.Event{}, storeErr("update event", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Event{}, fmt.Errorf("event %s: %w", e.ID, ErrNotFound)
	}
	return e, nil
}

// UpdateEventStatus sets only the status of an existing event. This is
// the engine's update.status path.
func (s *Store) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) (domain.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events SET status = ? WHERE id = ?
	`, string(status), id)
	if err != nil {
		return domain.Event{}, storeErr("update event status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return s.GetEvent(ctx, id)
}

// EventFilter narrows ListEvents.
type EventFilter struct {
	ClientID string
	Type     domain.EventType
}

// ListEvents returns events ordered by date then id, optionally
// filtered by client and type.
func (s *Store) ListEvents(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	query := `
		SELECT id, client_id, event_type, date, notes, status, parent_event_id
		FROM events WHERE 1=1`
	args := []any{}
	if filter.ClientID != "" {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	if filter.Type != "" {
		query += " AND event_type = ?"
		args = append(args, string(filter.Type))
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr("list events", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list events", err)
	}
	return events, nil
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var (
		e            domain.Event
		eventType    string
		date, status string
	)
	if err := row.Scan(&e.ID, &e.ClientID, &eventType, &date, &e.Notes, &status, &e.ParentEventID); err != nil {
		return domain.Event{}, err
	}
	t, err := timeutil.Parse(date)
	if err != nil {
		return domain.Event{}, err
	}
	e.Type = domain.EventType(eventType)
	e.Date = t
	e.Status = domain.EventStatus(status)
	return e, nil
}
