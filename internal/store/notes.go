package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoteNotFound is returned when a note id does not exist.
var ErrNoteNotFound = errors.New("note not found")

// Note is an annotation attached to a content path. Public notes are shown
// alongside the rendered content; private ones only on the admin surface.
type Note struct {
	ID        int64
	Path      string
	Text      string
	Public    bool
	Author    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateNote inserts a note and returns it with its assigned id.
func (s *Store) CreateNote(ctx context.Context, path, text, author string, public bool) (Note, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (path, text, is_public, author, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		path, text, boolInt(public), author, now, now,
	)
	if err != nil {
		return Note{}, fmt.Errorf("create note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Note{}, fmt.Errorf("note id: %w", err)
	}
	return Note{ID: id, Path: path, Text: text, Public: public, Author: author, CreatedAt: now, UpdatedAt: now}, nil
}

// UpdateNote replaces a note's text and visibility.
func (s *Store) UpdateNote(ctx context.Context, id int64, text string, public bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET text = ?, is_public = ?, updated_at = ? WHERE id = ?`,
		text, boolInt(public), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return affectedOne(res)
}

// DeleteNote removes a note by id.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return affectedOne(res)
}

// NotesForPath returns all notes for a content path, newest first. With
// publicOnly set, private notes are filtered out.
func (s *Store) NotesForPath(ctx context.Context, path string, publicOnly bool) ([]Note, error) {
	query := `SELECT id, path, text, is_public, author, created_at, updated_at FROM notes WHERE path = ?`
	if publicOnly {
		query += ` AND is_public = 1`
	}
	query += ` ORDER BY created_at DESC`

	return s.queryNotes(ctx, query, path)
}

// AllNotes returns every note, newest first.
func (s *Store) AllNotes(ctx context.Context) ([]Note, error) {
	return s.queryNotes(ctx,
		`SELECT id, path, text, is_public, author, created_at, updated_at FROM notes ORDER BY created_at DESC`)
}

func (s *Store) queryNotes(ctx context.Context, query string, args ...any) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []Note
	for rows.Next() {
		var (
			n      Note
			public int
		)
		if err := rows.Scan(&n.ID, &n.Path, &n.Text, &public, &n.Author, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.Public = public != 0
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("notes rows: %w", err)
	}
	return notes, nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
