package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

// CreateClient inserts a client, assigning an ID and CreatedAt when
// missing.
func (s *Store) CreateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	if err := c.Validate(); err != nil {
		return domain.Client{}, storeErr("create client", err)
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.clock.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clients (id, name, email, phone, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, c.Phone, c.Notes, timeutil.Format(c.CreatedAt))
	if err != nil {
		return domain.Client{}, storeErr("create client", err)
	}
	return c, nil
}

// GetClient returns the client with the given id, or ErrNotFound.
func (s *Store) GetClient(ctx context.Context, id string) (domain.Client, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, notes, created_at
		FROM clients WHERE id = ?
	`, id)

	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Client{}, storeErr("get client", err)
	}
	return c, nil
}

// UpdateClient replaces the stored row for c.ID.
func (s *Store) UpdateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	if err := c.Validate(); err != nil {
		return domain.Client{}, storeErr("update client", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE clients SET name = ?, email = ?, phone = ?, notes = ?
		WHERE id = ?
	`, c.Name, c.Email, c.Phone, c.Notes, c.ID)
	if err != nil {
		return domain.Client{}, storeErr("update client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Client{}, fmt.Errorf("client %s: %w", c.ID, ErrNotFound)
	}
	return s.GetClient(ctx, c.ID)
}

// ListClients returns all clients ordered by name, then id for a
// stable order between same-named clients.
func (s *Store) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, notes, created_at
		FROM clients ORDER BY name ASC, id ASC
	`)
	if err != nil {
		return nil, storeErr("list clients", err)
	}
	defer rows.Close()

	clients := []domain.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, storeErr("list clients", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list clients", err)
	}
	return clients, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c         domain.Client
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &createdAt); err != nil {
		return domain.Client{}, err
	}
	t, err := timeutil.Parse(createdAt)
	if err != nil {
		return domain.Client{}, err
	}
	c.CreatedAt = t
	return c, nil
}
