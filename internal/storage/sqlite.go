package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id);
`

// DB implements Store backed by SQLite.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get returns the note with the given id, or apperr.ErrNotFound.
func (db *DB) Get(id string) (*models.Note, error) {
	row := db.conn.QueryRow(`
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", id, err)
	}
	return n, nil
}

// Put inserts a new note.
func (db *DB) Put(n *models.Note) error {
	_, err := db.conn.Exec(`
		INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Title, n.Content, n.CreatedAt, nullTime(n.UpdatedAt))
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", n.ID, err)
	}
	return nil
}

// Update replaces the mutable fields of an existing note. A zero-row update
// means the note vanished between the caller's read and this write (e.g. a
// concurrent delete) and is reported as apperr.ErrNotFound.
func (db *DB) Update(n *models.Note) error {
	res, err := db.conn.Exec(`
		UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?
	`, n.Title, n.Content, nullTime(n.UpdatedAt), n.ID)
	if err != nil {
		return fmt.Errorf("storage: update %s: %w", n.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: update %s: %w", n.ID, err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes the note with the given id. A zero-row delete is reported as
// apperr.ErrNotFound, which makes repeat deletes observable as such.
func (db *DB) Delete(id string) error {
	res, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", id, err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListByOwner returns all notes owned by owner, newest first.
func (db *DB) ListByOwner(owner string) ([]models.Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes WHERE user_id = ?
		ORDER BY created_at DESC, id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// SearchByOwner performs a LIKE-based substring search over owner's notes.
func (db *DB) SearchByOwner(owner, query string, limit int) ([]models.Note, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, user_id, title, content, created_at, updated_at
		FROM notes
		WHERE user_id = ? AND (title LIKE ? OR content LIKE ?)
		ORDER BY created_at DESC, id
		LIMIT ?
	`, owner, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: search: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

func scanNote(scan func(dest ...any) error) (*models.Note, error) {
	var n models.Note
	var updated sql.NullTime
	if err := scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &updated); err != nil {
		return nil, err
	}
	if updated.Valid {
		t := updated.Time
		n.UpdatedAt = &t
	}
	return &n, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
