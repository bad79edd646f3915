// Package reference holds the game reference tables: heritages, cultures,
// archetypes, and skills. The data is immutable at runtime; admin writes go
// through storage and rebuild the in-memory snapshot.
package reference

import (
	"strings"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

var (
	// ErrEmptyName indicates a reference record without a display name.
	ErrEmptyName = apperrors.New(apperrors.CodeReferenceEmptyName, "reference record name is required")
	// ErrNegativeAttribute indicates a heritage with a negative base attribute.
	ErrNegativeAttribute = apperrors.New(apperrors.CodeReferenceNegativeAttribute, "heritage base attributes must be non-negative")
	// ErrUnknownHeritage indicates a culture referencing a missing heritage.
	ErrUnknownHeritage = apperrors.New(apperrors.CodeReferenceUnknownHeritage, "culture references an unknown heritage")
)

// Heritage is a character's species/ancestry. It fixes the base Body and
// Stamina values and a secondary-skill discount list.
type Heritage struct {
	ID                 string
	Name               string
	BaseBody           int
	BaseStamina        int
	SecondarySkills    []string
	Benefit            string
	Weakness           string
	CostumeRequirement string
}

// SkillSets exposes the heritage discount lists to the economy rules.
func (h Heritage) SkillSets() xp.HeritageSkills {
	return xp.HeritageSkills{Secondary: h.SecondarySkills}
}

// Culture belongs to exactly one heritage and carries its own discount lists.
type Culture struct {
	ID              string
	HeritageID      string
	Name            string
	PrimarySkills   []string
	SecondarySkills []string
}

// Archetype is a character's class/role with primary and secondary discount
// lists.
type Archetype struct {
	ID              string
	Name            string
	PrimarySkills   []string
	SecondarySkills []string
}

// SkillSets exposes the archetype discount lists to the economy rules.
func (a Archetype) SkillSets() xp.ArchetypeSkills {
	return xp.ArchetypeSkills{Primary: a.PrimarySkills, Secondary: a.SecondarySkills}
}

// Skill is a purchasable ability. Prerequisite names the skill that must
// already be learned, empty when there is none.
type Skill struct {
	ID           string
	Name         string
	Description  string
	Prerequisite string
}

// NormalizeHeritage trims and validates a heritage record.
func NormalizeHeritage(h Heritage) (Heritage, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return Heritage{}, ErrEmptyName
	}
	if h.BaseBody < 0 || h.BaseStamina < 0 {
		return Heritage{}, ErrNegativeAttribute
	}
	h.SecondarySkills = normalizeSkillList(h.SecondarySkills)
	return h, nil
}

// NormalizeCulture trims and validates a culture record.
func NormalizeCulture(c Culture) (Culture, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Culture{}, ErrEmptyName
	}
	c.PrimarySkills = normalizeSkillList(c.PrimarySkills)
	c.SecondarySkills = normalizeSkillList(c.SecondarySkills)
	return c, nil
}

// NormalizeArchetype trims and validates an archetype record.
func NormalizeArchetype(a Archetype) (Archetype, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return Archetype{}, ErrEmptyName
	}
	a.PrimarySkills = normalizeSkillList(a.PrimarySkills)
	a.SecondarySkills = normalizeSkillList(a.SecondarySkills)
	return a, nil
}

// NormalizeSkill trims and validates a skill record.
func NormalizeSkill(s Skill) (Skill, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return Skill{}, ErrEmptyName
	}
	s.Prerequisite = strings.TrimSpace(s.Prerequisite)
	return s, nil
}

func normalizeSkillList(list []string) []string {
	out := make([]string, 0, len(list))
	for _, name := range list {
		name = strings.TrimSpace(name)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}
