// Package achievement holds achievement definitions and the rarity
// threshold settings that classify them.
package achievement

import (
	"strings"
	"time"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

// ErrThresholdOrder indicates rarity thresholds out of descending order.
var ErrThresholdOrder = apperrors.New(apperrors.CodeAchievementThresholdOrder, "rarity thresholds must descend: common > rare > epic > legendary")

// ErrEmptyName indicates an achievement without a name.
var ErrEmptyName = apperrors.New(apperrors.CodeReferenceEmptyName, "achievement name is required")

// RarityThresholds are the unlock-percentage cutoffs for each rarity band.
// An achievement unlocked by at least Common percent of players is common,
// and so on down to legendary below the Epic cutoff.
type RarityThresholds struct {
	Common    int
	Rare      int
	Epic      int
	Legendary int
}

// DefaultRarityThresholds are the cutoffs used until an admin overrides them.
func DefaultRarityThresholds() RarityThresholds {
	return RarityThresholds{Common: 50, Rare: 25, Epic: 10, Legendary: 2}
}

// Validate rejects thresholds that are out of range or not strictly
// descending. A violation leaves existing settings untouched; there is no
// partial update.
func (r RarityThresholds) Validate() error {
	values := []int{r.Common, r.Rare, r.Epic, r.Legendary}
	for _, v := range values {
		if v < 0 || v > 100 {
			return ErrThresholdOrder
		}
	}
	if !(r.Common > r.Rare && r.Rare > r.Epic && r.Epic > r.Legendary) {
		return ErrThresholdOrder
	}
	return nil
}

// Classify maps an unlock percentage to a rarity label.
func (r RarityThresholds) Classify(unlockedPercent int) string {
	switch {
	case unlockedPercent >= r.Common:
		return "common"
	case unlockedPercent >= r.Rare:
		return "rare"
	case unlockedPercent >= r.Epic:
		return "epic"
	default:
		return "legendary"
	}
}

// Achievement is an unlockable badge awarded to characters.
type Achievement struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// NormalizeAchievement trims and validates an achievement record.
func NormalizeAchievement(a Achievement) (Achievement, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return Achievement{}, ErrEmptyName
	}
	return a, nil
}
