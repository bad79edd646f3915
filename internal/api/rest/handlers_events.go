package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/candlewick-games/candlewick/internal/event"
)

type eventResponse struct {
	ID          string `json:"id"`
	ChapterID   string `json:"chapter_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	XPAward     int    `json:"xp_award"`
	CandleAward int    `json:"candle_award"`
}

func toEventResponse(e event.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		ChapterID:   e.ChapterID,
		Name:        e.Name,
		Description: e.Description,
		StartsAt:    e.StartsAt.Format(time.RFC3339),
		EndsAt:      e.EndsAt.Format(time.RFC3339),
		XPAward:     e.XPAward,
		CandleAward: e.CandleAward,
	}
}

type rsvpResponse struct {
	EventID     string `json:"event_id"`
	CharacterID string `json:"character_id"`
	Status      string `json:"status"`
	ExtraXP     int    `json:"extra_xp"`
	Attended    bool   `json:"attended"`
}

func toRSVPResponse(r event.RSVP) rsvpResponse {
	return rsvpResponse{
		EventID:     r.EventID,
		CharacterID: r.CharacterID,
		Status:      string(r.Status),
		ExtraXP:     r.ExtraXP,
		Attended:    r.Attended,
	}
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ChapterID   string `json:"chapter_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		StartsAt    string `json:"starts_at"`
		EndsAt      string `json:"ends_at"`
		XPAward     int    `json:"xp_award"`
		CandleAward int    `json:"candle_award"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		writeError(w, event.ErrInvalidSchedule)
		return
	}
	endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		writeError(w, event.ErrInvalidSchedule)
		return
	}

	e, err := s.events.Create(r.Context(), event.CreateEventInput{
		ChapterID:   body.ChapterID,
		Name:        body.Name,
		Description: body.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		XPAward:     body.XPAward,
		CandleAward: body.CandleAward,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(e))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.List(r.Context(), r.URL.Query().Get("chapter_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := s.events.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

func (s *Server) handleRSVP(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	var body struct {
		CharacterID string `json:"character_id"`
		Status      string `json:"status"`
		ExtraXP     int    `json:"extra_xp"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	// The RSVP spends the owner's candles, so only the owner may file it.
	c, err := s.characters.Get(r.Context(), body.CharacterID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := authorizeCharacter(session, c.UserID); err != nil {
		writeError(w, err)
		return
	}

	rsvp, err := s.events.RSVP(r.Context(), event.RSVPInput{
		EventID:     mux.Vars(r)["id"],
		CharacterID: body.CharacterID,
		Status:      body.Status,
		ExtraXP:     body.ExtraXP,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRSVPResponse(rsvp))
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CharacterID string `json:"character_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	rsvp, err := s.events.MarkAttendance(r.Context(), mux.Vars(r)["id"], body.CharacterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRSVPResponse(rsvp))
}
