package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/candlewick-games/candlewick/internal/account"
)

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	ChapterID   string `json:"chapter_id,omitempty"`
}

func toUserResponse(u account.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		ChapterID:   u.ChapterID,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
		ChapterID   string `json:"chapter_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := s.accounts.Register(r.Context(), account.RegisterInput{
		Email:       body.Email,
		DisplayName: body.DisplayName,
		Password:    body.Password,
		ChapterID:   body.ChapterID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	user, token, err := s.accounts.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	user, err := s.accounts.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleMyCandles(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	balance, err := s.candles.CandleBalance(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	transactions, err := s.candles.CandleTransactions(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	type entry struct {
		Delta     int    `json:"delta"`
		Reason    string `json:"reason"`
		CreatedAt int64  `json:"created_at"`
	}
	entries := make([]entry, 0, len(transactions))
	for _, t := range transactions {
		entries = append(entries, entry{Delta: t.Delta, Reason: t.Reason, CreatedAt: t.CreatedAt.UnixMilli()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance": balance,
		"entries": entries,
	})
}

func (s *Server) handleGrantCandles(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	user, err := s.accounts.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.candles.GrantCandles(r.Context(), user.ID, body.Amount, body.Reason); err != nil {
		writeError(w, err)
		return
	}
	balance, err := s.candles.CandleBalance(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"balance": balance})
}
