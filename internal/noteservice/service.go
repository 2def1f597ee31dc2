// Package noteservice owns the note lifecycle rules: id generation, input
// validation, ownership checks, and field-level update composition.
package noteservice

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
)

// Patch carries the fields of a partial update. An empty string means the
// field was not provided; there is no way to clear a field.
type Patch struct {
	Title   string
	Content string
}

// Publisher receives note change notifications after successful mutations.
type Publisher interface {
	PublishNoteEvent(owner, kind, id string)
}

// Service coordinates validation, ownership, and storage operations.
type Service struct {
	store  storage.Store
	events Publisher
}

// NewService creates a new note service. events may be nil.
func NewService(store storage.Store, events Publisher) *Service {
	return &Service{store: store, events: events}
}

// Create validates inputs, generates a fresh id, stamps createdAt, and
// persists the note with a single durable write.
func (s *Service) Create(_ context.Context, owner, title, content string) (*models.Note, error) {
	if owner == "" {
		return nil, apperr.Validation("owner is required")
	}
	if err := (validation.Errors{
		"title":   validation.Validate(title, validation.Required),
		"content": validation.Validate(content, validation.Required),
	}).Filter(); err != nil {
		return nil, apperr.Validation("title and content are required")
	}
	n := &models.Note{
		ID:        uuid.NewString(),
		UserID:    owner,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(n); err != nil {
		return nil, err
	}
	s.publish(owner, "created", n.ID)
	return n, nil
}

// Get fetches a note and verifies ownership. A missing note and a note owned
// by someone else both come back as apperr.ErrNotFound.
func (s *Service) Get(_ context.Context, id, owner string) (*models.Note, error) {
	return s.getOwned(id, owner)
}

// Update applies a partial patch to an owned note and refreshes updatedAt.
// Fields absent from the patch keep their stored value. A patch with no
// recognized field is rejected.
func (s *Service) Update(_ context.Context, id, owner string, p Patch) (*models.Note, error) {
	n, err := s.getOwned(id, owner)
	if err != nil {
		return nil, err
	}
	if p.Title == "" && p.Content == "" {
		return nil, apperr.Validation("no fields to update")
	}
	if p.Title != "" {
		n.Title = p.Title
	}
	if p.Content != "" {
		n.Content = p.Content
	}
	now := time.Now().UTC()
	n.UpdatedAt = &now

	// Not transactional with the read above: a racing delete makes this a
	// zero-row update, surfaced as a plain not-found.
	if err := s.store.Update(n); err != nil {
		return nil, err
	}
	s.publish(owner, "updated", n.ID)
	return n, nil
}

// Delete removes an owned note. Repeat deletes observe apperr.ErrNotFound.
func (s *Service) Delete(_ context.Context, id, owner string) error {
	if _, err := s.getOwned(id, owner); err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.publish(owner, "deleted", id)
	return nil
}

// List returns all notes owned by owner, newest first.
func (s *Service) List(_ context.Context, owner string) ([]models.Note, error) {
	notes, err := s.store.ListByOwner(owner)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

// Search returns owner's notes whose title or content contains query.
func (s *Service) Search(_ context.Context, owner, query string, limit int) ([]models.Note, error) {
	notes, err := s.store.SearchByOwner(owner, query, limit)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return notes, nil
}

func (s *Service) getOwned(id, owner string) (*models.Note, error) {
	n, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if n.UserID != owner {
		return nil, apperr.ErrNotFound
	}
	return n, nil
}

func (s *Service) publish(owner, kind, id string) {
	if s.events != nil {
		s.events.PublishNoteEvent(owner, kind, id)
	}
}
