// Package registry persists the declarative app documents themselves.
// This is storage for the documents only — the interpreter's data store
// stays transient and in-memory per preview session.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when no app has the requested id.
var ErrNotFound = errors.New("app not found")

// AppRecord is one stored app document plus bookkeeping.
type AppRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store is the persistence interface for app documents.
type Store interface {
	Create(ctx context.Context, rec AppRecord) error
	Get(ctx context.Context, id string) (*AppRecord, error)
	List(ctx context.Context) ([]AppRecord, error)
	Update(ctx context.Context, id, name string, doc json.RawMessage) (*AppRecord, error)
	Delete(ctx context.Context, id string) error
}
