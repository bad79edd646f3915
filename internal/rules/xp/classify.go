package xp

// Tier is the discount classification determining a skill's flat XP price.
type Tier string

const (
	// TierPrimary is an archetype primary skill.
	TierPrimary Tier = "primary"
	// TierSecondary is a heritage or archetype secondary skill.
	TierSecondary Tier = "secondary"
	// TierOther is any skill outside the character's discount lists.
	TierOther Tier = "other"
)

// Flat XP prices per tier.
const (
	PrimarySkillCost   = 5
	SecondarySkillCost = 10
	OtherSkillCost     = 20
)

// Classification is the priced tier of a skill for one character build.
type Classification struct {
	Tier Tier
	Cost int
}

// HeritageSkills lists the skills a heritage discounts.
type HeritageSkills struct {
	Secondary []string
}

// ArchetypeSkills lists the skills an archetype discounts.
type ArchetypeSkills struct {
	Primary   []string
	Secondary []string
}

// Classify prices a skill for a heritage and one or two archetypes.
//
// Rule priority, first match wins:
//  1. primary skill of either archetype -> primary, 5 XP
//  2. secondary skill of the heritage or either archetype -> secondary, 10 XP
//  3. everything else, including skills missing from reference data -> other, 20 XP
//
// The ordering matters: a skill that is both an archetype primary and a
// heritage secondary is priced at 5. Unknown skills deliberately fall through
// to the full price instead of failing, so stale reference data degrades the
// UI instead of breaking it.
func Classify(skill string, heritage HeritageSkills, primary ArchetypeSkills, secondary *ArchetypeSkills) Classification {
	if contains(primary.Primary, skill) || (secondary != nil && contains(secondary.Primary, skill)) {
		return Classification{Tier: TierPrimary, Cost: PrimarySkillCost}
	}
	if contains(heritage.Secondary, skill) ||
		contains(primary.Secondary, skill) ||
		(secondary != nil && contains(secondary.Secondary, skill)) {
		return Classification{Tier: TierSecondary, Cost: SecondarySkillCost}
	}
	return Classification{Tier: TierOther, Cost: OtherSkillCost}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
