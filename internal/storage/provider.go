// Package storage provides the durable note store, keyed by note id.
package storage

import "github.com/starford/othala/internal/models"

// Store is the interface for durable note operations. Implementations must be
// safe for concurrent use by many simultaneous handler invocations; a single
// instance is constructed at process start and shared until shutdown.
type Store interface {
	// Get returns the note with the given id, or apperr.ErrNotFound.
	Get(id string) (*models.Note, error)
	// Put inserts a new note.
	Put(n *models.Note) error
	// Update replaces the mutable fields of an existing note.
	// Returns apperr.ErrNotFound when the row no longer exists.
	Update(n *models.Note) error
	// Delete removes the note with the given id.
	// Returns apperr.ErrNotFound when the row no longer exists.
	Delete(id string) error
	// ListByOwner returns all notes owned by owner, newest first.
	ListByOwner(owner string) ([]models.Note, error)
	// SearchByOwner returns owner's notes whose title or content contains query.
	SearchByOwner(owner, query string, limit int) ([]models.Note, error)
	// Close releases the underlying connection.
	Close() error
}
