package repo

import (
	"errors"
	"fmt"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
	// ErrStore matches any *StoreError.
	ErrStore = errors.New("store error")
)

// StoreError wraps a persistence failure that has no more specific meaning.
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

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// Wrap returns nil for nil, passes ErrorNotFound/ErrorConflict through and
// wraps everything else in a StoreError.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrorNotFound) || errors.Is(err, ErrorConflict) || errors.Is(err, ErrStore) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
