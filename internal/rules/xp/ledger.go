package xp

// Summary reports how a character's experience budget has been spent.
// It is advisory: callers must still reject any purchase whose cost exceeds
// Available before committing a write.
type Summary struct {
	Budget        int
	SkillCost     int
	AttributeCost int
	Available     int
}

// Summarize totals skill and attribute spending against a budget.
// Available is clamped at zero even if the inputs overshoot the budget.
func Summarize(budget int, skillCosts []int, baseBody, baseStamina, currentBody, currentStamina int) (Summary, error) {
	skillTotal := 0
	for _, cost := range skillCosts {
		skillTotal += cost
	}

	attributeTotal, err := AttributePurchaseCost(baseBody, baseStamina, currentBody, currentStamina)
	if err != nil {
		return Summary{}, err
	}

	available := budget - skillTotal - attributeTotal
	if available < 0 {
		available = 0
	}

	return Summary{
		Budget:        budget,
		SkillCost:     skillTotal,
		AttributeCost: attributeTotal,
		Available:     available,
	}, nil
}

// CanAfford reports whether a purchase of the given cost fits the remaining
// budget.
func (s Summary) CanAfford(cost int) bool {
	return cost >= 0 && cost <= s.Available
}
