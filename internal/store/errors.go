package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an update or get against an id that does not
// exist.
var ErrNotFound = errors.New("not found")

// StoreError wraps constraint violations and driver failures with the
// failing operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
