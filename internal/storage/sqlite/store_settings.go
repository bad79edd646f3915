package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/candlewick-games/candlewick/internal/achievement"
)

const rarityThresholdsKey = "achievement_rarity_thresholds"

// PutRarityThresholds validates and stores the achievement rarity cutoffs.
// Invalid thresholds leave the stored settings untouched.
func (s *Store) PutRarityThresholds(ctx context.Context, t achievement.RarityThresholds) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode rarity thresholds: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		rarityThresholdsKey, string(raw), time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("put rarity thresholds: %w", err)
	}
	return nil
}

// RarityThresholds returns the stored cutoffs, or the defaults when none have
// been set.
func (s *Store) RarityThresholds(ctx context.Context) (achievement.RarityThresholds, error) {
	if err := ctx.Err(); err != nil {
		return achievement.RarityThresholds{}, err
	}
	if s == nil || s.sqlDB == nil {
		return achievement.RarityThresholds{}, fmt.Errorf("storage is not configured")
	}

	var raw string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT value FROM settings WHERE key = ?`,
		rarityThresholdsKey,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return achievement.DefaultRarityThresholds(), nil
	}
	if err != nil {
		return achievement.RarityThresholds{}, fmt.Errorf("get rarity thresholds: %w", err)
	}

	var t achievement.RarityThresholds
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return achievement.RarityThresholds{}, fmt.Errorf("decode rarity thresholds: %w", err)
	}
	return t, nil
}
