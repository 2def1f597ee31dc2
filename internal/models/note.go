// Package models defines the domain types for Othala.
package models

import "time"

// Note is a single user-owned text note.
//
// ID and UserID are set once at creation and never change. UpdatedAt is nil
// until the note has been updated at least once.
type Note struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
