package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Client is a customer of the business. The rules engine reads clients
// only to supply ClientID context to generated records; it never mutates
// them directly.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
}

// Validate checks required fields and canonicalizes free-text input.
// Names arrive from web forms in mixed Unicode normalization; NFC
// normalization gives search and folder naming a single canonical form.
func (c *Client) Validate() error {
	c.Name = norm.NFC.String(strings.TrimSpace(c.Name))
	if c.Name == "" {
		return fmt.Errorf("client: name is required")
	}
	return nil
}

// Pet is owned by one client. Pets are stored and listed but never
// touched by the rules engine.
type Pet struct {
	ID       string
	ClientID string
	Name     string
	Species  string
	Breed    string
	DOB      time.Time
	Notes    string
}

// Validate checks required fields.
func (p *Pet) Validate() error {
	p.Name = norm.NFC.String(strings.TrimSpace(p.Name))
	if p.Name == "" {
		return fmt.Errorf("pet: name is required")
	}
	if p.ClientID == "" {
		return fmt.Errorf("pet: client id is required")
	}
	return nil
}
