package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/candlewick-games/candlewick/internal/event"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
)

// GrantCandles appends a positive candle entry to the user's ledger.
func (s *Store) GrantCandles(ctx context.Context, userID string, amount int, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if amount <= 0 {
		return apperrors.New(apperrors.CodeCandleInvalidAmount, "candle amount must be greater than zero")
	}

	entryID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate candle entry id: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO candle_transactions (id, user_id, delta, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entryID, userID, amount, reason, time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("grant candles: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// spendCandles appends a negative candle entry only when the ledger balance
// covers the amount. The balance check and the insert run as one statement,
// so concurrent spends cannot drive a balance negative.
func spendCandles(ctx context.Context, ex execer, userID string, amount int, reason string) error {
	if amount <= 0 {
		return apperrors.New(apperrors.CodeCandleInvalidAmount, "candle amount must be greater than zero")
	}

	entryID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate candle entry id: %w", err)
	}
	res, err := ex.ExecContext(
		ctx,
		`INSERT INTO candle_transactions (id, user_id, delta, reason, created_at)
		 SELECT ?, ?, ?, ?, ?
		 WHERE (SELECT COALESCE(SUM(delta), 0) FROM candle_transactions WHERE user_id = ?) >= ?`,
		entryID, userID, -amount, reason, time.Now().UTC().UnixMilli(), userID, amount,
	)
	if err != nil {
		return fmt.Errorf("spend candles: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("spend candles: %w", err)
	}
	if affected == 0 {
		return apperrors.New(apperrors.CodeCandleInsufficient, "candle balance is insufficient")
	}
	return nil
}

// CandleBalance sums the user's candle ledger.
func (s *Store) CandleBalance(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var balance int
	if err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COALESCE(SUM(delta), 0) FROM candle_transactions WHERE user_id = ?`,
		userID,
	).Scan(&balance); err != nil {
		return 0, fmt.Errorf("candle balance: %w", err)
	}
	return balance, nil
}

// CandleTransactions returns a user's candle ledger, oldest first.
func (s *Store) CandleTransactions(ctx context.Context, userID string) ([]event.CandleTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, delta, reason, created_at
		 FROM candle_transactions WHERE user_id = ? ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list candle transactions: %w", err)
	}
	defer rows.Close()

	var out []event.CandleTransaction
	for rows.Next() {
		var t event.CandleTransaction
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.UserID, &t.Delta, &t.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan candle transaction: %w", err)
		}
		t.CreatedAt = fromMillis(createdAt)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candle transactions: %w", err)
	}
	return out, nil
}
