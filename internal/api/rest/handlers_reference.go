package rest

import (
	"net/http"

	"github.com/candlewick-games/candlewick/internal/reference"
)

func (s *Server) handleReferenceCatalog(w http.ResponseWriter, r *http.Request) {
	data := s.reference.Snapshot().Data()

	type heritage struct {
		ID                 string   `json:"id"`
		Name               string   `json:"name"`
		BaseBody           int      `json:"base_body"`
		BaseStamina        int      `json:"base_stamina"`
		SecondarySkills    []string `json:"secondary_skills"`
		Benefit            string   `json:"benefit,omitempty"`
		Weakness           string   `json:"weakness,omitempty"`
		CostumeRequirement string   `json:"costume_requirement,omitempty"`
	}
	type culture struct {
		ID              string   `json:"id"`
		HeritageID      string   `json:"heritage_id"`
		Name            string   `json:"name"`
		PrimarySkills   []string `json:"primary_skills"`
		SecondarySkills []string `json:"secondary_skills"`
	}
	type archetype struct {
		ID              string   `json:"id"`
		Name            string   `json:"name"`
		PrimarySkills   []string `json:"primary_skills"`
		SecondarySkills []string `json:"secondary_skills"`
	}
	type skill struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Description  string `json:"description,omitempty"`
		Prerequisite string `json:"prerequisite,omitempty"`
	}

	out := struct {
		Heritages  []heritage  `json:"heritages"`
		Cultures   []culture   `json:"cultures"`
		Archetypes []archetype `json:"archetypes"`
		Skills     []skill     `json:"skills"`
	}{
		Heritages:  []heritage{},
		Cultures:   []culture{},
		Archetypes: []archetype{},
		Skills:     []skill{},
	}
	for _, h := range data.Heritages {
		out.Heritages = append(out.Heritages, heritage{
			ID: h.ID, Name: h.Name, BaseBody: h.BaseBody, BaseStamina: h.BaseStamina,
			SecondarySkills: emptyIfNil(h.SecondarySkills),
			Benefit:         h.Benefit, Weakness: h.Weakness, CostumeRequirement: h.CostumeRequirement,
		})
	}
	for _, c := range data.Cultures {
		out.Cultures = append(out.Cultures, culture{
			ID: c.ID, HeritageID: c.HeritageID, Name: c.Name,
			PrimarySkills:   emptyIfNil(c.PrimarySkills),
			SecondarySkills: emptyIfNil(c.SecondarySkills),
		})
	}
	for _, a := range data.Archetypes {
		out.Archetypes = append(out.Archetypes, archetype{
			ID: a.ID, Name: a.Name,
			PrimarySkills:   emptyIfNil(a.PrimarySkills),
			SecondarySkills: emptyIfNil(a.SecondarySkills),
		})
	}
	for _, sk := range data.Skills {
		out.Skills = append(out.Skills, skill{
			ID: sk.ID, Name: sk.Name, Description: sk.Description, Prerequisite: sk.Prerequisite,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// Reference writes persist to storage and then rebuild the in-memory
// snapshot, so a write that would corrupt the catalog (a prerequisite cycle,
// a dangling culture) fails the reload and is visible immediately.
func (s *Server) reloadReference(w http.ResponseWriter, r *http.Request) {
	if err := s.reference.Reload(r.Context(), s.refStore); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handlePutHeritage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID                 string   `json:"id"`
		Name               string   `json:"name"`
		BaseBody           int      `json:"base_body"`
		BaseStamina        int      `json:"base_stamina"`
		SecondarySkills    []string `json:"secondary_skills"`
		Benefit            string   `json:"benefit"`
		Weakness           string   `json:"weakness"`
		CostumeRequirement string   `json:"costume_requirement"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.refStore.PutHeritage(r.Context(), reference.Heritage{
		ID: body.ID, Name: body.Name, BaseBody: body.BaseBody, BaseStamina: body.BaseStamina,
		SecondarySkills: body.SecondarySkills,
		Benefit:         body.Benefit, Weakness: body.Weakness, CostumeRequirement: body.CostumeRequirement,
	}); err != nil {
		writeError(w, err)
		return
	}
	s.reloadReference(w, r)
}

func (s *Server) handlePutCulture(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID              string   `json:"id"`
		HeritageID      string   `json:"heritage_id"`
		Name            string   `json:"name"`
		PrimarySkills   []string `json:"primary_skills"`
		SecondarySkills []string `json:"secondary_skills"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.refStore.PutCulture(r.Context(), reference.Culture{
		ID: body.ID, HeritageID: body.HeritageID, Name: body.Name,
		PrimarySkills: body.PrimarySkills, SecondarySkills: body.SecondarySkills,
	}); err != nil {
		writeError(w, err)
		return
	}
	s.reloadReference(w, r)
}

func (s *Server) handlePutArchetype(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID              string   `json:"id"`
		Name            string   `json:"name"`
		PrimarySkills   []string `json:"primary_skills"`
		SecondarySkills []string `json:"secondary_skills"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.refStore.PutArchetype(r.Context(), reference.Archetype{
		ID: body.ID, Name: body.Name,
		PrimarySkills: body.PrimarySkills, SecondarySkills: body.SecondarySkills,
	}); err != nil {
		writeError(w, err)
		return
	}
	s.reloadReference(w, r)
}

func (s *Server) handlePutSkill(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Description  string `json:"description"`
		Prerequisite string `json:"prerequisite"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.refStore.PutSkill(r.Context(), reference.Skill{
		ID: body.ID, Name: body.Name, Description: body.Description, Prerequisite: body.Prerequisite,
	}); err != nil {
		writeError(w, err)
		return
	}
	s.reloadReference(w, r)
}
