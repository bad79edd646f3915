package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/candlewick-games/candlewick/internal/event"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

// PutEvent upserts an event by id.
func (s *Store) PutEvent(ctx context.Context, e event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO events (id, chapter_id, name, description, starts_at, ends_at, xp_award, candle_award, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   chapter_id = excluded.chapter_id,
		   name = excluded.name,
		   description = excluded.description,
		   starts_at = excluded.starts_at,
		   ends_at = excluded.ends_at,
		   xp_award = excluded.xp_award,
		   candle_award = excluded.candle_award,
		   updated_at = excluded.updated_at`,
		e.ID, e.ChapterID, e.Name, e.Description, toMillis(e.StartsAt), toMillis(e.EndsAt),
		e.XPAward, e.CandleAward, toMillis(e.CreatedAt), toMillis(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// GetEvent fetches an event by id.
func (s *Store) GetEvent(ctx context.Context, eventID string) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, chapter_id, name, description, starts_at, ends_at, xp_award, candle_award, created_at, updated_at
		 FROM events WHERE id = ?`,
		eventID,
	)
	return scanEvent(row)
}

// ListEvents returns events ordered by start time, optionally filtered to one
// chapter.
func (s *Store) ListEvents(ctx context.Context, chapterID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	query := `SELECT id, chapter_id, name, description, starts_at, ends_at, xp_award, candle_award, created_at, updated_at
	          FROM events`
	args := []any{}
	if chapterID != "" {
		query += ` WHERE chapter_id = ?`
		args = append(args, chapterID)
	}
	query += ` ORDER BY starts_at`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// PutRSVP upserts a character's RSVP for an event.
func (s *Store) PutRSVP(ctx context.Context, r event.RSVP) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return upsertRSVP(ctx, s.sqlDB, r)
}

// PutRSVPCharging upserts the RSVP and spends the user's candles in one
// transaction: a failed write never leaves a paid-for RSVP missing, and a
// failed charge never records one.
func (s *Store) PutRSVPCharging(ctx context.Context, r event.RSVP, userID string, candles int, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if candles == 0 {
		return upsertRSVP(ctx, s.sqlDB, r)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := spendCandles(ctx, tx, userID, candles, reason); err != nil {
		return err
	}
	if err := upsertRSVP(ctx, tx, r); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rsvp: %w", err)
	}
	return nil
}

func upsertRSVP(ctx context.Context, ex execer, r event.RSVP) error {
	attended := 0
	if r.Attended {
		attended = 1
	}
	_, err := ex.ExecContext(
		ctx,
		`INSERT INTO rsvps (event_id, character_id, status, extra_xp, attended, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(event_id, character_id) DO UPDATE SET
		   status = excluded.status,
		   extra_xp = excluded.extra_xp,
		   attended = excluded.attended,
		   updated_at = excluded.updated_at`,
		r.EventID, r.CharacterID, string(r.Status), r.ExtraXP, attended,
		toMillis(r.CreatedAt), toMillis(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put rsvp: %w", err)
	}
	return nil
}

// GetRSVP fetches one character's RSVP for an event.
func (s *Store) GetRSVP(ctx context.Context, eventID, characterID string) (event.RSVP, error) {
	if err := ctx.Err(); err != nil {
		return event.RSVP{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.RSVP{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT event_id, character_id, status, extra_xp, attended, created_at, updated_at
		 FROM rsvps WHERE event_id = ? AND character_id = ?`,
		eventID, characterID,
	)
	return scanRSVP(row)
}

// ListRSVPs returns all RSVPs for an event.
func (s *Store) ListRSVPs(ctx context.Context, eventID string) ([]event.RSVP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT event_id, character_id, status, extra_xp, attended, created_at, updated_at
		 FROM rsvps WHERE event_id = ? ORDER BY created_at`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	defer rows.Close()

	var out []event.RSVP
	for rows.Next() {
		r, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	return out, nil
}

func scanEvent(row rowScanner) (event.Event, error) {
	var e event.Event
	var startsAt, endsAt, createdAt, updatedAt int64
	if err := row.Scan(
		&e.ID, &e.ChapterID, &e.Name, &e.Description, &startsAt, &endsAt,
		&e.XPAward, &e.CandleAward, &createdAt, &updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, apperrors.ErrNotFound
		}
		return event.Event{}, fmt.Errorf("scan event: %w", err)
	}
	e.StartsAt = fromMillis(startsAt)
	e.EndsAt = fromMillis(endsAt)
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	return e, nil
}

func scanRSVP(row rowScanner) (event.RSVP, error) {
	var r event.RSVP
	var status string
	var attended int
	var createdAt, updatedAt int64
	if err := row.Scan(&r.EventID, &r.CharacterID, &status, &r.ExtraXP, &attended, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return event.RSVP{}, apperrors.ErrNotFound
		}
		return event.RSVP{}, fmt.Errorf("scan rsvp: %w", err)
	}
	r.Status = event.RSVPStatus(status)
	r.Attended = attended != 0
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)
	return r, nil
}
