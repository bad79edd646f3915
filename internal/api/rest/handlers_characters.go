package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/candlewick-games/candlewick/internal/character/domain"
	charservice "github.com/candlewick-games/candlewick/internal/character/service"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

type characterResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	Name              string   `json:"name"`
	HeritageID        string   `json:"heritage_id"`
	CultureID         string   `json:"culture_id"`
	ArchetypeID       string   `json:"archetype_id"`
	SecondArchetypeID string   `json:"second_archetype_id,omitempty"`
	Body              int      `json:"body"`
	Stamina           int      `json:"stamina"`
	Experience        int      `json:"experience"`
	SpentExperience   int      `json:"spent_experience"`
	Skills            []string `json:"skills"`
	Status            string   `json:"status"`
	RetirementReason  string   `json:"retirement_reason,omitempty"`
}

func toCharacterResponse(c domain.Character) characterResponse {
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	return characterResponse{
		ID:                c.ID,
		UserID:            c.UserID,
		Name:              c.Name,
		HeritageID:        c.HeritageID,
		CultureID:         c.CultureID,
		ArchetypeID:       c.ArchetypeID,
		SecondArchetypeID: c.SecondArchetypeID,
		Body:              c.Body,
		Stamina:           c.Stamina,
		Experience:        c.Experience,
		SpentExperience:   c.SpentExperience,
		Skills:            skills,
		Status:            c.Status.String(),
		RetirementReason:  c.RetirementReason,
	}
}

// ownedCharacter resolves the path id to a character the session may act on.
func (s *Server) ownedCharacter(w http.ResponseWriter, r *http.Request) (domain.Character, bool) {
	session, _ := sessionFrom(r.Context())
	c, err := s.characters.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return domain.Character{}, false
	}
	if err := authorizeCharacter(session, c.UserID); err != nil {
		writeError(w, err)
		return domain.Character{}, false
	}
	return c, true
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	var body struct {
		Name            string   `json:"name"`
		HeritageID      string   `json:"heritage_id"`
		CultureID       string   `json:"culture_id"`
		ArchetypeID     string   `json:"archetype_id"`
		InitialSkills   []string `json:"initial_skills"`
		BodyIncrease    int      `json:"body_increase"`
		StaminaIncrease int      `json:"stamina_increase"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	c, err := s.characters.Create(r.Context(), charservice.CreateInput{
		UserID:          session.UserID,
		Name:            body.Name,
		HeritageID:      body.HeritageID,
		CultureID:       body.CultureID,
		ArchetypeID:     body.ArchetypeID,
		InitialSkills:   body.InitialSkills,
		BodyIncrease:    body.BodyIncrease,
		StaminaIncrease: body.StaminaIncrease,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCharacterResponse(c))
}

func (s *Server) handleListMyCharacters(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	characters, err := s.characters.ListByUser(r.Context(), session.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]characterResponse, 0, len(characters))
	for _, c := range characters {
		out = append(out, toCharacterResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCharacter(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponse(c))
}

func (s *Server) handleCharacterSummary(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCharacter(w, r)
	if !ok {
		return
	}
	summary, err := s.characters.BuildSummary(r.Context(), c.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"budget":         summary.Budget,
		"skill_cost":     summary.SkillCost,
		"attribute_cost": summary.AttributeCost,
		"available":      summary.Available,
	})
}

func (s *Server) handleCharacterLedger(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCharacter(w, r)
	if !ok {
		return
	}
	entries, err := s.ledger.ExperienceEntries(r.Context(), c.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	type entry struct {
		Delta     int    `json:"delta"`
		Reason    string `json:"reason"`
		CreatedAt int64  `json:"created_at"`
	}
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entry{Delta: e.Delta, Reason: e.Reason, CreatedAt: e.CreatedAt.UnixMilli()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePurchaseSkill(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCharacter(w, r)
	if !ok {
		return
	}
	var body struct {
		Skill string `json:"skill"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.characters.PurchaseSkill(r.Context(), c.ID, body.Skill)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponse(updated))
}

func (s *Server) handleIncreaseAttribute(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCharacter(w, r)
	if !ok {
		return
	}
	var body struct {
		Attribute string `json:"attribute"`
		Points    int    `json:"points"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.characters.IncreaseAttribute(r.Context(), c.ID, domain.Attribute(body.Attribute), body.Points)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponse(updated))
}

func (s *Server) handlePurchaseSecondArchetype(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCharacter(w, r)
	if !ok {
		return
	}
	var body struct {
		ArchetypeID string `json:"archetype_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.characters.PurchaseSecondArchetype(r.Context(), c.ID, body.ArchetypeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponse(updated))
}

func (s *Server) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedCharacter(w, r)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var updated domain.Character
	var err error
	switch domain.ParseStatus(body.Status) {
	case domain.StatusActive:
		updated, err = s.characters.SetActive(r.Context(), c.ID)
	case domain.StatusInactive:
		updated, err = s.characters.SetInactive(r.Context(), c.ID)
	case domain.StatusRetired:
		updated, err = s.characters.Retire(r.Context(), c.ID, body.Reason)
	default:
		writeError(w, apperrors.WithMetadata(
			apperrors.CodeCharacterInvalidTransition,
			"status must be active, inactive, or retired",
			map[string]string{"status": body.Status},
		))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCharacterResponse(updated))
}

func (s *Server) handleAwardExperience(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	balance, err := s.characters.AwardExperience(r.Context(), mux.Vars(r)["id"], body.Amount, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"experience": balance})
}
