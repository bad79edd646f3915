package rest

import (
	"net/http"

	"github.com/candlewick-games/candlewick/internal/achievement"
)

type thresholdsBody struct {
	Common    int `json:"common"`
	Rare      int `json:"rare"`
	Epic      int `json:"epic"`
	Legendary int `json:"legendary"`
}

func (s *Server) handleGetRarityThresholds(w http.ResponseWriter, r *http.Request) {
	t, err := s.settings.RarityThresholds(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, thresholdsBody{
		Common: t.Common, Rare: t.Rare, Epic: t.Epic, Legendary: t.Legendary,
	})
}

func (s *Server) handlePutRarityThresholds(w http.ResponseWriter, r *http.Request) {
	var body thresholdsBody
	if !decodeBody(w, r, &body) {
		return
	}
	t := achievement.RarityThresholds{
		Common: body.Common, Rare: body.Rare, Epic: body.Epic, Legendary: body.Legendary,
	}
	if err := s.settings.PutRarityThresholds(r.Context(), t); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}
