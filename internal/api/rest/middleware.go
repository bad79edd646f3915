package rest

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/candlewick-games/candlewick/internal/account"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

type contextKey string

const sessionKey contextKey = "session"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("[API] %s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start))
	})
}

// requireSession authenticates the Bearer token and stashes the session in
// the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, account.ErrInvalidToken)
			return
		}
		session, err := s.accounts.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			writeError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin rejects non-admin sessions.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFrom(r.Context())
		if !ok || session.Role != account.RoleAdmin {
			writeError(w, account.ErrPermissionDenied)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(ctx context.Context) (account.Session, bool) {
	session, ok := ctx.Value(sessionKey).(account.Session)
	return session, ok
}

// authorizeCharacter lets owners and admins through; everyone else sees a
// not-found so character ids cannot be probed.
func authorizeCharacter(session account.Session, ownerID string) error {
	if session.Role == account.RoleAdmin || session.UserID == ownerID {
		return nil
	}
	return apperrors.ErrNotFound
}
