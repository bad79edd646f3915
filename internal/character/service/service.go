// Package service orchestrates character operations: creation, lifecycle
// transitions, and every experience purchase. Pricing comes from the economy
// rules; affordability is enforced atomically by the store so concurrent
// purchases can never drive a balance negative.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/candlewick-games/candlewick/internal/character/domain"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
	"github.com/candlewick-games/candlewick/internal/reference"
	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

var (
	// ErrUnknownSkill indicates a purchase of a skill missing from reference data.
	ErrUnknownSkill = apperrors.New(apperrors.CodeNotFound, "skill does not exist")
	// ErrUnknownAttribute indicates an attribute name other than body or stamina.
	ErrUnknownAttribute = apperrors.New(apperrors.CodeCharacterUnknownAttribute, "attribute must be body or stamina")
)

// Store persists characters. Purchase methods run as single transactions:
// they re-check the experience balance, apply the change, and append the
// ledger entry together, failing with an insufficient-experience error when
// the balance no longer covers the cost.
type Store interface {
	PutCharacter(ctx context.Context, c domain.Character) error
	GetCharacter(ctx context.Context, characterID string) (domain.Character, error)
	ListCharactersByUser(ctx context.Context, userID string) ([]domain.Character, error)
	UpdateCharacterStatus(ctx context.Context, c domain.Character) error

	PurchaseSkill(ctx context.Context, characterID, skillName string, cost int, reason string) (domain.Character, error)
	PurchaseAttribute(ctx context.Context, characterID string, attr domain.Attribute, newValue, cost int, reason string) (domain.Character, error)
	PurchaseSecondArchetype(ctx context.Context, characterID, archetypeID string, cost int, reason string) (domain.Character, error)
	AwardExperience(ctx context.Context, characterID string, amount int, reason string) (int, error)
}

// Service implements character operations over a store and the reference
// catalog.
type Service struct {
	store       Store
	ref         *reference.Repository
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService creates a character service with default clock and id generation.
func NewService(store Store, ref *reference.Repository) *Service {
	return &Service{
		store:       store,
		ref:         ref,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// CreateInput describes a new character plus its initial build, which is
// priced against the creation budget before the character goes active.
type CreateInput struct {
	UserID          string
	Name            string
	HeritageID      string
	CultureID       string
	ArchetypeID     string
	InitialSkills   []string
	BodyIncrease    int
	StaminaIncrease int
}

// Create builds, prices, and activates a character in one step. The initial
// skills and attribute increases are paid from the creation budget; anything
// the budget cannot cover rejects the whole creation.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Character, error) {
	snap := s.ref.Snapshot()

	c, err := domain.CreateCharacter(domain.CreateCharacterInput{
		UserID:      input.UserID,
		Name:        input.Name,
		HeritageID:  input.HeritageID,
		CultureID:   input.CultureID,
		ArchetypeID: input.ArchetypeID,
	}, snap, s.clock, s.idGenerator)
	if err != nil {
		return domain.Character{}, err
	}

	skillTotal := 0
	for _, name := range input.InitialSkills {
		skill, ok := snap.Skill(name)
		if !ok {
			return domain.Character{}, ErrUnknownSkill
		}
		if c.HasSkill(skill.Name) {
			return domain.Character{}, domain.ErrSkillAlreadyLearned
		}
		if !reference.PrerequisiteSatisfied(skill, c.Skills) {
			return domain.Character{}, apperrors.WithMetadata(
				apperrors.CodeSkillPrerequisiteMiss,
				"skill prerequisite is not learned",
				map[string]string{"skill": skill.Name, "prerequisite": skill.Prerequisite},
			)
		}
		skillTotal += snap.ClassifySkill(skill.Name, c.HeritageID, c.ArchetypeID, "").Cost
		c.Skills = append(c.Skills, skill.Name)
	}

	attrTotal, err := xp.AttributeCost(c.Body, input.BodyIncrease)
	if err != nil {
		return domain.Character{}, err
	}
	staminaCost, err := xp.AttributeCost(c.Stamina, input.StaminaIncrease)
	if err != nil {
		return domain.Character{}, err
	}
	attrTotal += staminaCost

	total := skillTotal + attrTotal
	if total > 0 {
		balance, _, _, err := xp.ApplySpend(xp.Balance{CharacterID: c.ID, Value: c.Experience}, total)
		if err != nil {
			return domain.Character{}, err
		}
		c.Experience = balance.Value
	}

	c.Body += input.BodyIncrease
	c.Stamina += input.StaminaIncrease
	c.SpentExperience = total

	c, err = domain.Activate(c, s.clock)
	if err != nil {
		return domain.Character{}, err
	}
	if err := s.store.PutCharacter(ctx, c); err != nil {
		return domain.Character{}, fmt.Errorf("persist character: %w", err)
	}
	return c, nil
}

// Get fetches a character by id.
func (s *Service) Get(ctx context.Context, characterID string) (domain.Character, error) {
	return s.store.GetCharacter(ctx, characterID)
}

// ListByUser returns all of a user's characters.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Character, error) {
	return s.store.ListCharactersByUser(ctx, userID)
}

// SetInactive benches a character.
func (s *Service) SetInactive(ctx context.Context, characterID string) (domain.Character, error) {
	return s.changeStatus(ctx, characterID, func(c domain.Character) (domain.Character, error) {
		return domain.SetInactive(c, s.clock)
	})
}

// SetActive returns an inactive character to play.
func (s *Service) SetActive(ctx context.Context, characterID string) (domain.Character, error) {
	return s.changeStatus(ctx, characterID, func(c domain.Character) (domain.Character, error) {
		return domain.Reactivate(c, s.clock)
	})
}

// Retire permanently retires a character with the given reason.
func (s *Service) Retire(ctx context.Context, characterID, reason string) (domain.Character, error) {
	return s.changeStatus(ctx, characterID, func(c domain.Character) (domain.Character, error) {
		return domain.Retire(c, reason, s.clock)
	})
}

func (s *Service) changeStatus(ctx context.Context, characterID string, apply func(domain.Character) (domain.Character, error)) (domain.Character, error) {
	c, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	updated, err := apply(c)
	if err != nil {
		return domain.Character{}, err
	}
	if err := s.store.UpdateCharacterStatus(ctx, updated); err != nil {
		return domain.Character{}, fmt.Errorf("persist status: %w", err)
	}
	return updated, nil
}

// AwardExperience credits experience to a character and returns the new
// balance. Retired and draft characters cannot receive awards.
func (s *Service) AwardExperience(ctx context.Context, characterID string, amount int, reason string) (int, error) {
	c, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return 0, err
	}
	if !c.Status.AllowsEconomyChanges() {
		return 0, domain.ErrStatusDisallowsOp
	}
	if _, _, _, err := xp.ApplyAward(xp.Balance{CharacterID: c.ID, Value: c.Experience}, amount); err != nil {
		return 0, err
	}
	return s.store.AwardExperience(ctx, characterID, amount, reason)
}

// BuildSummary reports how the character's total experience has been spent:
// the running budget is the creation grant plus every award, attribute costs
// are replayed from the heritage bases, and the remainder of the spent total
// is what skills and the second archetype cost at purchase time. A skill
// keeps the price that was paid for it even if a later second archetype
// would discount it now.
func (s *Service) BuildSummary(ctx context.Context, characterID string) (xp.Summary, error) {
	c, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return xp.Summary{}, err
	}
	heritage, ok := s.ref.Snapshot().Heritage(c.HeritageID)
	if !ok {
		return xp.Summary{}, domain.ErrUnknownHeritage
	}

	attributeCost, err := xp.AttributePurchaseCost(heritage.BaseBody, heritage.BaseStamina, c.Body, c.Stamina)
	if err != nil {
		return xp.Summary{}, err
	}
	skillCost := c.SpentExperience - attributeCost
	if skillCost < 0 {
		skillCost = 0
	}

	budget := c.Experience + c.SpentExperience
	return xp.Summarize(budget, []int{skillCost}, heritage.BaseBody, heritage.BaseStamina, c.Body, c.Stamina)
}
