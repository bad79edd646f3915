// Package domain holds the character aggregate and its lifecycle rules.
package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
	"github.com/candlewick-games/candlewick/internal/reference"
	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

var (
	// ErrEmptyName indicates a missing character name.
	ErrEmptyName = apperrors.New(apperrors.CodeCharacterEmptyName, "character name is required")
	// ErrEmptyUserID indicates a character without an owning user.
	ErrEmptyUserID = apperrors.New(apperrors.CodeCharacterEmptyUserID, "character owner is required")
	// ErrUnknownHeritage indicates a heritage id missing from reference data.
	ErrUnknownHeritage = apperrors.New(apperrors.CodeCharacterUnknownHeritage, "heritage does not exist")
	// ErrUnknownCulture indicates a culture id missing or mismatched.
	ErrUnknownCulture = apperrors.New(apperrors.CodeCharacterUnknownCulture, "culture does not exist for this heritage")
	// ErrUnknownArchetype indicates an archetype id missing from reference data.
	ErrUnknownArchetype = apperrors.New(apperrors.CodeCharacterUnknownArchetype, "archetype does not exist")
	// ErrRetireReasonRequired indicates retirement without a reason string.
	ErrRetireReasonRequired = apperrors.New(apperrors.CodeCharacterRetireReasonMissing, "retirement reason is required")
	// ErrSecondArchetypeHeld indicates the character already has two archetypes.
	ErrSecondArchetypeHeld = apperrors.New(apperrors.CodeCharacterSecondArchetypeHeld, "character already holds a second archetype")
	// ErrSkillAlreadyLearned indicates a duplicate skill purchase.
	ErrSkillAlreadyLearned = apperrors.New(apperrors.CodeSkillAlreadyLearned, "skill is already learned")
	// ErrPrerequisiteNotMet indicates a purchase without its prerequisite skill.
	ErrPrerequisiteNotMet = apperrors.New(apperrors.CodeSkillPrerequisiteMiss, "skill prerequisite is not learned")
)

// Character is a player character. Heritage, culture, and archetype are
// fixed at creation; Body and Stamina only ever increase from their heritage
// bases; Experience never goes below zero.
type Character struct {
	ID                string
	UserID            string
	Name              string
	HeritageID        string
	CultureID         string
	ArchetypeID       string
	SecondArchetypeID string
	Body              int
	Stamina           int
	Experience        int
	SpentExperience   int
	Skills            []string
	Status            Status
	RetirementReason  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasSkill reports whether the character has learned the named skill.
func (c Character) HasSkill(name string) bool {
	for _, s := range c.Skills {
		if s == name {
			return true
		}
	}
	return false
}

// CreateCharacterInput describes the input for creating a character.
type CreateCharacterInput struct {
	UserID      string
	Name        string
	HeritageID  string
	CultureID   string
	ArchetypeID string
}

// CreateCharacter builds a draft character from validated reference data.
// Body and Stamina start at the heritage bases and Experience at the
// creation budget; the caller prices the initial build and activates it.
func CreateCharacter(input CreateCharacterInput, ref reference.Snapshot, now func() time.Time, idGenerator func() (string, error)) (Character, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Character{}, ErrEmptyName
	}
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return Character{}, ErrEmptyUserID
	}

	heritage, ok := ref.Heritage(input.HeritageID)
	if !ok {
		return Character{}, ErrUnknownHeritage
	}
	culture, ok := ref.Culture(input.CultureID)
	if !ok || culture.HeritageID != heritage.ID {
		return Character{}, ErrUnknownCulture
	}
	if _, ok := ref.Archetype(input.ArchetypeID); !ok {
		return Character{}, ErrUnknownArchetype
	}

	characterID, err := idGenerator()
	if err != nil {
		return Character{}, fmt.Errorf("generate character id: %w", err)
	}

	createdAt := now().UTC()
	return Character{
		ID:          characterID,
		UserID:      input.UserID,
		Name:        input.Name,
		HeritageID:  heritage.ID,
		CultureID:   culture.ID,
		ArchetypeID: input.ArchetypeID,
		Body:        heritage.BaseBody,
		Stamina:     heritage.BaseStamina,
		Experience:  xp.CreationBudget,
		Skills:      nil,
		Status:      StatusDraft,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// Activate moves a draft character into play.
func Activate(c Character, now func() time.Time) (Character, error) {
	return transition(c, StatusActive, now)
}

// SetInactive benches an active character.
func SetInactive(c Character, now func() time.Time) (Character, error) {
	return transition(c, StatusInactive, now)
}

// Reactivate returns an inactive character to play.
func Reactivate(c Character, now func() time.Time) (Character, error) {
	return transition(c, StatusActive, now)
}

// Retire permanently retires a character. Requires a non-empty reason and is
// irreversible.
func Retire(c Character, reason string, now func() time.Time) (Character, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Character{}, ErrRetireReasonRequired
	}
	updated, err := transition(c, StatusRetired, now)
	if err != nil {
		return Character{}, err
	}
	updated.RetirementReason = reason
	return updated, nil
}

func transition(c Character, next Status, now func() time.Time) (Character, error) {
	if now == nil {
		now = time.Now
	}
	if !c.Status.CanTransitionTo(next) {
		return Character{}, apperrors.WithMetadata(
			apperrors.CodeCharacterInvalidTransition,
			"status transition is not allowed",
			map[string]string{"from": c.Status.String(), "to": next.String()},
		)
	}
	c.Status = next
	c.UpdatedAt = now().UTC()
	return c, nil
}

// ValidateSkillPurchase checks everything about a skill purchase except
// affordability, which the storage layer enforces atomically: lifecycle
// status, duplicates, and the prerequisite at time of purchase.
func ValidateSkillPurchase(c Character, skill reference.Skill) error {
	if !c.Status.AllowsEconomyChanges() {
		return ErrStatusDisallowsOp
	}
	if c.HasSkill(skill.Name) {
		return ErrSkillAlreadyLearned
	}
	if !reference.PrerequisiteSatisfied(skill, c.Skills) {
		return apperrors.WithMetadata(
			apperrors.CodeSkillPrerequisiteMiss,
			"skill prerequisite is not learned",
			map[string]string{"skill": skill.Name, "prerequisite": skill.Prerequisite},
		)
	}
	return nil
}

// ValidateSecondArchetypePurchase checks lifecycle status and that no second
// archetype is already held.
func ValidateSecondArchetypePurchase(c Character, archetypeID string, ref reference.Snapshot) error {
	if !c.Status.AllowsEconomyChanges() {
		return ErrStatusDisallowsOp
	}
	if c.SecondArchetypeID != "" {
		return ErrSecondArchetypeHeld
	}
	if _, ok := ref.Archetype(archetypeID); !ok {
		return ErrUnknownArchetype
	}
	return nil
}

// Attribute names the two purchasable attributes.
type Attribute string

const (
	// AttributeBody is the Body attribute.
	AttributeBody Attribute = "body"
	// AttributeStamina is the Stamina attribute.
	AttributeStamina Attribute = "stamina"
)

// AttributeValue returns the current value of the named attribute.
func (c Character) AttributeValue(attr Attribute) (int, bool) {
	switch attr {
	case AttributeBody:
		return c.Body, true
	case AttributeStamina:
		return c.Stamina, true
	default:
		return 0, false
	}
}
