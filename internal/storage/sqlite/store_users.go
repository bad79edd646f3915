package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/candlewick-games/candlewick/internal/account"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

// PutUser upserts a user account by id.
func (s *Store) PutUser(ctx context.Context, u account.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, email, display_name, role, chapter_id, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   email = excluded.email,
		   display_name = excluded.display_name,
		   role = excluded.role,
		   chapter_id = excluded.chapter_id,
		   password_hash = excluded.password_hash,
		   updated_at = excluded.updated_at`,
		u.ID, u.Email, u.DisplayName, string(u.Role), u.ChapterID, u.PasswordHash,
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, userID string) (account.User, error) {
	return s.getUser(ctx, "id = ?", userID)
}

// GetUserByEmail fetches a user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (account.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

func (s *Store) getUser(ctx context.Context, where string, arg string) (account.User, error) {
	if err := ctx.Err(); err != nil {
		return account.User{}, err
	}
	if s == nil || s.sqlDB == nil {
		return account.User{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, display_name, role, chapter_id, password_hash, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	)

	var u account.User
	var role string
	var createdAt, updatedAt int64
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &role, &u.ChapterID, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return account.User{}, apperrors.ErrNotFound
		}
		return account.User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role = account.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}
