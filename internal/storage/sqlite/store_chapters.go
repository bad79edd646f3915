package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/candlewick-games/candlewick/internal/chapter"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

// PutChapter upserts a chapter by id.
func (s *Store) PutChapter(ctx context.Context, c chapter.Chapter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("chapter id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO chapters (id, name, location, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   location = excluded.location,
		   updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Location, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put chapter: %w", err)
	}
	return nil
}

// GetChapter fetches a chapter by id.
func (s *Store) GetChapter(ctx context.Context, chapterID string) (chapter.Chapter, error) {
	if err := ctx.Err(); err != nil {
		return chapter.Chapter{}, err
	}
	if s == nil || s.sqlDB == nil {
		return chapter.Chapter{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, location, created_at, updated_at FROM chapters WHERE id = ?`,
		chapterID,
	)
	return scanChapter(row)
}

// ListChapters returns all chapters ordered by name.
func (s *Store) ListChapters(ctx context.Context) ([]chapter.Chapter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, location, created_at, updated_at FROM chapters ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var out []chapter.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChapter(row rowScanner) (chapter.Chapter, error) {
	var c chapter.Chapter
	var createdAt, updatedAt int64
	if err := row.Scan(&c.ID, &c.Name, &c.Location, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return chapter.Chapter{}, apperrors.ErrNotFound
		}
		return chapter.Chapter{}, fmt.Errorf("scan chapter: %w", err)
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
