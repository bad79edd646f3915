package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/candlewick-games/candlewick/internal/chapter"
)

type chapterResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func toChapterResponse(c chapter.Chapter) chapterResponse {
	return chapterResponse{ID: c.ID, Name: c.Name, Location: c.Location}
}

func (s *Server) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	c, err := chapter.CreateChapter(chapter.CreateChapterInput{
		Name:     body.Name,
		Location: body.Location,
	}, nil, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.chapters.PutChapter(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toChapterResponse(c))
}

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.chapters.ListChapters(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]chapterResponse, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, toChapterResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	c, err := s.chapters.GetChapter(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChapterResponse(c))
}
