package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput matches every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// Entity kinds reported by NotFoundError.
const (
	KindBoard   = "board"
	KindContact = "contact"
)

// NotFoundError reports a board or contact id missing from the current data.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// BoardNotFound returns a NotFoundError for a board id.
func BoardNotFound(id string) error {
	return &NotFoundError{Kind: KindBoard, ID: id}
}

// ContactNotFound returns a NotFoundError for a contact id.
func ContactNotFound(id string) error {
	return &NotFoundError{Kind: KindContact, ID: id}
}

// ValidationError maps field names to human readable problems.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
