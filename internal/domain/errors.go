package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrProductNotFound is returned when an order or cart references a missing product.
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	// ErrEmptyOrder is returned when a checkout carries no line items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInsufficientStock is returned when a line item asks for more than is in stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnauthorized indicates a missing, expired or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the member's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError collects per-field messages for a rejected form submission.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError holding a single field message.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add records msg for field, keeping the first message per field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string]string)
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = msg
	}
}

// HasErrors reports whether any field message was recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// OrNil returns v when it carries messages, nil otherwise.
func (v *ValidationError) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
