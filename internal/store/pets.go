package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pbsadmin/internal/domain"
	"pbsadmin/internal/timeutil"
)

// CreatePet inserts a pet. The owning client must exist (foreign key).
func (s *Store) CreatePet(ctx context.Context, p domain.Pet) (domain.Pet, error) {
	if err := p.Validate(); err != nil {
		return domain.Pet{}, storeErr("create pet", err)
	}
	if p.ID == "" {
		p.ID = newID()
	}

	var dob string
	if !p.DOB.IsZero() {
		dob = timeutil.Format(p.DOB)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pets (id, client_id, name, species, breed, dob, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.ClientID, p.Name, p.Species, p.Breed, dob, p.Notes)
	if err != nil {
		return domain.Pet{}, storeErr("create pet", err)
	}
	return p, nil
}

// GetPet returns the pet with the given id, or ErrNotFound.
func (s *Store) GetPet(ctx context.Context, id string) (domain.Pet, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, client_id, name, species, breed, dob, notes
		FROM pets WHERE id = ?
	`, id)

	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Pet{}, fmt.Errorf("pet %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Pet{}, storeErr("get pet", err)
	}
	return p, nil
}

// ListPets returns a client's pets ordered by name.
func (s *Store) ListPets(ctx context.Context, clientID string) ([]domain.Pet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_id, name, species, breed, dob, notes
		FROM pets WHERE client_id = ? ORDER BY name ASC, id ASC
	`, clientID)
	if err != nil {
		return nil, storeErr("list pets", err)
	}
	defer rows.Close()

	pets := []domain.Pet{}
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, storeErr("list pets", err)
		}
		pets = append(pets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list pets", err)
	}
	return pets, nil
}

func scanPet(row rowScanner) (domain.Pet, error) {
	var (
		p   domain.Pet
		dob string
	)
	if err := row.Scan(&p.ID, &p.ClientID, &p.Name, &p.Species, &p.Breed, &dob, &p.Notes); err != nil {
		return domain.Pet{}, err
	}
	if dob != "" {
		t, err := timeutil.Parse(dob)
		if err != nil {
			return domain.Pet{}, err
		}
		p.DOB = t
	}
	return p, nil
}
