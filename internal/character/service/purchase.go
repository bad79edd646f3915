package service

import (
	"context"
	"fmt"

	"github.com/candlewick-games/candlewick/internal/character/domain"
	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

// PurchaseSkill buys a skill at its classified price. Validation happens on a
// read snapshot; the store re-checks affordability inside the write
// transaction, so a stale read can only fail the purchase, never overdraw.
func (s *Service) PurchaseSkill(ctx context.Context, characterID, skillName string) (domain.Character, error) {
	c, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return domain.Character{}, err
	}

	snap := s.ref.Snapshot()
	skill, ok := snap.Skill(skillName)
	if !ok {
		return domain.Character{}, ErrUnknownSkill
	}
	if err := domain.ValidateSkillPurchase(c, skill); err != nil {
		return domain.Character{}, err
	}

	classification := snap.ClassifySkill(skill.Name, c.HeritageID, c.ArchetypeID, c.SecondArchetypeID)
	reason := fmt.Sprintf("skill %s (%s)", skill.Name, classification.Tier)
	return s.store.PurchaseSkill(ctx, characterID, skill.Name, classification.Cost, reason)
}

// IncreaseAttribute buys points onto Body or Stamina, each point priced at
// the value it is bought at.
func (s *Service) IncreaseAttribute(ctx context.Context, characterID string, attr domain.Attribute, points int) (domain.Character, error) {
	if points <= 0 {
		return domain.Character{}, xp.ErrInvalidAmount
	}
	c, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	if !c.Status.AllowsEconomyChanges() {
		return domain.Character{}, domain.ErrStatusDisallowsOp
	}

	current, ok := c.AttributeValue(attr)
	if !ok {
		return domain.Character{}, ErrUnknownAttribute
	}
	cost, err := xp.AttributeCost(current, points)
	if err != nil {
		return domain.Character{}, err
	}

	reason := fmt.Sprintf("%s %d to %d", attr, current, current+points)
	return s.store.PurchaseAttribute(ctx, characterID, attr, current+points, cost, reason)
}

// PurchaseSecondArchetype buys a second archetype at its flat price. The new
// archetype's discount lists apply to future skill purchases only; nothing
// already learned is repriced.
func (s *Service) PurchaseSecondArchetype(ctx context.Context, characterID, archetypeID string) (domain.Character, error) {
	c, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	if err := domain.ValidateSecondArchetypePurchase(c, archetypeID, s.ref.Snapshot()); err != nil {
		return domain.Character{}, err
	}

	return s.store.PurchaseSecondArchetype(ctx, characterID, archetypeID, xp.SecondArchetypeCost, "second archetype")
}
