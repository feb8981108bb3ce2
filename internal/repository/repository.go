// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, mongodb, memory) inside this directory.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"schoolapi/internal/model"
)

// ErrNotFound is returned when an identifier does not resolve to a stored
// document, including identifiers the backend cannot parse.
var ErrNotFound = errors.New("document not found")

// Collection defines data access for one resource collection.
// No business logic here: strictly persistence operations, one store round trip each.
type Collection[T any] interface {
	// List returns every document in insertion order. It never returns a nil slice.
	List(ctx context.Context) ([]T, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*T, error)

	// Create stores doc under a freshly generated ID and returns the stored document.
	Create(ctx context.Context, doc *T) (*T, error)

	// Update merges fields into the stored document and returns the result.
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)

	// Delete removes a document and returns its state before removal.
	Delete(ctx context.Context, id string) (*T, error)
}

// DecodeJSON unmarshals a stored JSON document and attaches its identifier.
func DecodeJSON[T any, PT model.Record[T]](id string, raw []byte) (*T, error) {
	var out T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, PT(&out)); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}
	PT(&out).SetID(id)
	return &out, nil
}
