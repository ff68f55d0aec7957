package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

// CreateTask inserts a task, assigning an ID when missing.
func (s *Store) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	if err := t.Validate(); err != nil {
		return domain.Task{}, storeErr("create task", err)
	}
	if t.ID == "" {
		t.ID = newID()
	}

	var due string
	if !t.DueDate.IsZero() {
		due = timeutil.Format(t.DueDate)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks
		(id, client_id, event_id, description, due_date, status, priority,
		 automated_action, triggered_by, completed_on, parent_task_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.ClientID, t.EventID, t.Description, due, string(t.Status), t.Priority,
		t.AutomatedAction, t.TriggeredBy, formatOptional(t.CompletedOn), t.ParentTaskID,
	)
	if err != nil {
		return domain.Task{}, storeErr("create task", err)
	}
	return t, nil
}

// GetTask returns the task with the given id, or ErrNotFound.
func (s *Store) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, client_id, event_id, description, due_date, status, priority,
		       automated_action, triggered_by, completed_on, parent_task_id
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Task{}, storeErr("get task", err)
	}
	return t, nil
}

// UpdateTaskStatus transitions an existing task's status. The
// CompletedOn pairing is validated here as well as by the schema: the
// stamp must be present exactly when the target status is Done.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status domain.TaskStatus, completedOn *time.Time) (domain.Task, error) {
	if !status.Valid() {
		return domain.Task{}, storeErr("update task status", fmt.Errorf("unknown status %q", status))
	}
	if (status == domain.TaskDone) != (completedOn != nil) {
		return domain.Task{}, storeErr("update task status",
			fmt.Errorf("completedOn must be set exactly when status is %s", domain.TaskDone))
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET status = ?, completed_on = ? WHERE id = ?
	`, string(status), formatOptional(completedOn), id)
	if err != nil {
		return domain.Task{}, storeErr("update task status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return s.GetTask(ctx, id)
}

// TaskFilter narrows ListTasks.
type TaskFilter struct {
	Status   domain.TaskStatus
	ClientID string
}

// ListTasks returns tasks ordered by due date then id, optionally
// filtered by status and client.
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error) {
	query := `
		SELECT id, client_id, event_id, description, due_date, status, priority,
		       automated_action, triggered_by, completed_on, parent_task_id
		FROM tasks WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.ClientID != "" {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	query += " ORDER BY due_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, storeErr("list tasks", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		t           domain.Task
		status      string
		due         string
		completedOn sql.NullString
	)
	if err := row.Scan(
		&t.ID, &t.ClientID, &t.EventID, &t.Description, &due, &status, &t.Priority,
		&t.AutomatedAction, &t.TriggeredBy, &completedOn, &t.ParentTaskID,
	); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.TaskStatus(status)
	if due != "" {
		ts, err := timeutil.Parse(due)
		if err != nil {
			return domain.Task{}, err
		}
		t.DueDate = ts
	}
	if completedOn.Valid && completedOn.String != "" {
		ts, err := timeutil.Parse(completedOn.String)
		if err != nil {
			return domain.Task{}, err
		}
		t.CompletedOn = &ts
	}
	return t, nil
}

// formatOptional renders a nullable instant for storage.
func formatOptional(t *time.Time) any {
	if t == nil {
		return nil
	}
	return timeutil.Format(*t)
}
