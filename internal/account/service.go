package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
)

// Service implements registration and login over a user store.
type Service struct {
	store       UserStore
	tokens      *TokenIssuer
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService creates an account service with default clock and id generation.
func NewService(store UserStore, tokens *TokenIssuer) *Service {
	return &Service{
		store:       store,
		tokens:      tokens,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// RegisterInput describes a new account registration.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
	ChapterID   string
}

// Register creates a player account. Emails are unique; the first password
// check happens here so the store only ever sees bcrypt hashes.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return User{}, ErrEmptyEmail
	}
	if input.Password == "" {
		return User{}, ErrEmptyPassword
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	userID, err := s.idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = email
	}

	createdAt := s.clock().UTC()
	user := User{
		ID:           userID,
		Email:        email,
		DisplayName:  displayName,
		Role:         RolePlayer,
		ChapterID:    strings.TrimSpace(input.ChapterID),
		PasswordHash: hash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		return User{}, fmt.Errorf("persist user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns a signed session token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return User{}, "", ErrInvalidCredentials
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return User{}, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user, s.clock().UTC())
	if err != nil {
		return User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// GetUser fetches a user by id.
func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	return s.store.GetUser(ctx, userID)
}

// VerifyToken resolves a session token to the identity it asserts.
func (s *Service) VerifyToken(token string) (Session, error) {
	return s.tokens.Verify(token)
}
