// Package xp implements the experience economy: attribute cost bands, skill
// tier pricing, and budget aggregation. All functions are pure; persistence
// and affordability enforcement belong to the callers.
package xp

import (
	"fmt"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

const (
	// CreationBudget is the experience granted to every new character.
	CreationBudget = 25
	// SecondArchetypeCost is the one-time price of a second archetype.
	SecondArchetypeCost = 50
)

var (
	// ErrNegativeValue indicates a negative attribute value or point count.
	ErrNegativeValue = apperrors.New(apperrors.CodeXPNegativeValue, "attribute value and point count must be non-negative")
	// ErrAttributeBelowBase indicates a current attribute below its heritage base.
	ErrAttributeBelowBase = apperrors.New(apperrors.CodeXPAttributeBelowBase, "current attribute is below heritage base")
)

// pointCost returns the XP price of raising an attribute by one point when
// its value is currently v. Prices step up every 20 points and cap at 10.
func pointCost(v int) int {
	if v >= 180 {
		return 10
	}
	return v/20 + 1
}

// AttributeCost returns the total XP cost of buying points onto an attribute
// currently at current. Each point is priced at the value it is bought at,
// so the Nth point never costs less than the (N-1)th.
func AttributeCost(current, points int) (int, error) {
	if current < 0 || points < 0 {
		return 0, ErrNegativeValue
	}
	total := 0
	for i := 0; i < points; i++ {
		total += pointCost(current + i)
	}
	return total, nil
}

// NextPointCost returns the price of the next single point. Callers use it
// to decide whether another increase is affordable.
func NextPointCost(current int) (int, error) {
	return AttributeCost(current, 1)
}

// AttributePurchaseCost replays the point-by-point cost of having raised
// Body and Stamina from their heritage bases to their current values.
func AttributePurchaseCost(baseBody, baseStamina, currentBody, currentStamina int) (int, error) {
	bodyCost, err := replayCost(baseBody, currentBody)
	if err != nil {
		return 0, fmt.Errorf("body: %w", err)
	}
	staminaCost, err := replayCost(baseStamina, currentStamina)
	if err != nil {
		return 0, fmt.Errorf("stamina: %w", err)
	}
	return bodyCost + staminaCost, nil
}

// replayCost walks one point at a time from base to current. Attributes only
// ever increase, so current below base is a hard error.
func replayCost(base, current int) (int, error) {
	if base < 0 || current < 0 {
		return 0, ErrNegativeValue
	}
	if current < base {
		return 0, ErrAttributeBelowBase
	}
	total := 0
	for v := base; v < current; v++ {
		total += pointCost(v)
	}
	return total, nil
}
