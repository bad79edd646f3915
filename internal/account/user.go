// Package account holds user identity: registration, password checks, and
// session tokens.
package account

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

var (
	// ErrEmptyEmail indicates a registration without an email address.
	ErrEmptyEmail = apperrors.New(apperrors.CodeAccountEmptyEmail, "email is required")
	// ErrEmptyPassword indicates a registration without a password.
	ErrEmptyPassword = apperrors.New(apperrors.CodeAccountEmptyPassword, "password is required")
	// ErrEmailTaken indicates a registration against an existing email.
	ErrEmailTaken = apperrors.New(apperrors.CodeAccountEmailTaken, "email is already registered")
	// ErrInvalidCredentials indicates a failed login. The message is shared
	// between unknown-email and wrong-password so callers cannot probe for
	// registered addresses.
	ErrInvalidCredentials = apperrors.New(apperrors.CodeAccountInvalidCredentials, "email or password is incorrect")
	// ErrPermissionDenied indicates a non-admin calling an admin surface.
	ErrPermissionDenied = apperrors.New(apperrors.CodeAccountPermissionDenied, "admin role is required")
)

// Role grants a user either player or admin capabilities.
type Role string

const (
	// RolePlayer is the default role for registered users.
	RolePlayer Role = "player"
	// RoleAdmin can manage reference data, events, and awards.
	RoleAdmin Role = "admin"
)

// User is a registered account.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	Role         Role
	ChapterID    string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore persists user accounts.
type UserStore interface {
	PutUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// NormalizeEmail lowercases and trims an email address for lookup keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
