package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced word or schedule entry is absent.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when adding a word that is already active.
	ErrAlreadyExists = errors.New("already exists")
	// ErrIntegrity marks data that violates the one-entry-per-active-word rule.
	ErrIntegrity = errors.New("integrity violation")
)

// StoreError wraps an I/O failure from a store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IntegrityError lists active words that have no schedule entry.
type IntegrityError struct {
	WordIDs []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation: no schedule entry for active word(s) %s", strings.Join(e.WordIDs, ", "))
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }
