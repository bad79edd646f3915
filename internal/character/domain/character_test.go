package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/candlewick-games/candlewick/internal/reference"
	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

func testSnapshot(t *testing.T) reference.Snapshot {
	t.Helper()
	snap, err := reference.NewSnapshot(reference.Data{
		Heritages: []reference.Heritage{
			{ID: "her-human", Name: "Human", BaseBody: 10, BaseStamina: 10, SecondarySkills: []string{"Herbalism"}},
		},
		Cultures: []reference.Culture{
			{ID: "cul-lowland", HeritageID: "her-human", Name: "Lowlander"},
		},
		Archetypes: []reference.Archetype{
			{ID: "arc-advisor", Name: "Advisor", PrimarySkills: []string{"Bard"}},
			{ID: "arc-soldier", Name: "Soldier", PrimarySkills: []string{"Blade"}},
		},
		Skills: []reference.Skill{
			{ID: "skl-bard", Name: "Bard"},
			{ID: "skl-herb", Name: "Herbalism"},
			{ID: "skl-adv-herb", Name: "Advanced Herbalism", Prerequisite: "Herbalism"},
		},
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func staticID() (string, error) {
	return "char-test-id", nil
}

func validInput() CreateCharacterInput {
	return CreateCharacterInput{
		UserID:      "user-1",
		Name:        "Wren",
		HeritageID:  "her-human",
		CultureID:   "cul-lowland",
		ArchetypeID: "arc-advisor",
	}
}

func TestCreateCharacterStartsAtHeritageBases(t *testing.T) {
	c, err := CreateCharacter(validInput(), testSnapshot(t), fixedClock, staticID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Body != 10 || c.Stamina != 10 {
		t.Fatalf("body/stamina = %d/%d, want 10/10", c.Body, c.Stamina)
	}
	if c.Experience != xp.CreationBudget {
		t.Fatalf("experience = %d, want %d", c.Experience, xp.CreationBudget)
	}
	if c.Status != StatusDraft {
		t.Fatalf("status = %s, want draft", c.Status)
	}
	if c.ID != "char-test-id" {
		t.Fatalf("id = %q", c.ID)
	}
}

func TestCreateCharacterValidation(t *testing.T) {
	snap := testSnapshot(t)

	input := validInput()
	input.Name = "  "
	if _, err := CreateCharacter(input, snap, fixedClock, staticID); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}

	input = validInput()
	input.UserID = ""
	if _, err := CreateCharacter(input, snap, fixedClock, staticID); !errors.Is(err, ErrEmptyUserID) {
		t.Fatalf("err = %v, want ErrEmptyUserID", err)
	}

	input = validInput()
	input.HeritageID = "her-missing"
	if _, err := CreateCharacter(input, snap, fixedClock, staticID); !errors.Is(err, ErrUnknownHeritage) {
		t.Fatalf("err = %v, want ErrUnknownHeritage", err)
	}

	input = validInput()
	input.ArchetypeID = "arc-missing"
	if _, err := CreateCharacter(input, snap, fixedClock, staticID); !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("err = %v, want ErrUnknownArchetype", err)
	}
}

func TestCreateCharacterRejectsCultureFromOtherHeritage(t *testing.T) {
	snap, err := reference.NewSnapshot(reference.Data{
		Heritages: []reference.Heritage{
			{ID: "her-human", Name: "Human", BaseBody: 10, BaseStamina: 10},
			{ID: "her-fae", Name: "Fae", BaseBody: 8, BaseStamina: 12},
		},
		Cultures: []reference.Culture{
			{ID: "cul-court", HeritageID: "her-fae", Name: "Court"},
		},
		Archetypes: []reference.Archetype{{ID: "arc-advisor", Name: "Advisor"}},
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	input := CreateCharacterInput{
		UserID:      "user-1",
		Name:        "Wren",
		HeritageID:  "her-human",
		CultureID:   "cul-court",
		ArchetypeID: "arc-advisor",
	}
	if _, err := CreateCharacter(input, snap, fixedClock, staticID); !errors.Is(err, ErrUnknownCulture) {
		t.Fatalf("err = %v, want ErrUnknownCulture", err)
	}
}

func TestRetireRequiresReason(t *testing.T) {
	c := Character{Status: StatusActive}
	if _, err := Retire(c, "  ", fixedClock); !errors.Is(err, ErrRetireReasonRequired) {
		t.Fatalf("err = %v, want ErrRetireReasonRequired", err)
	}

	retired, err := Retire(c, "moved away", fixedClock)
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if retired.Status != StatusRetired || retired.RetirementReason != "moved away" {
		t.Fatalf("retired = %+v", retired)
	}
}

func TestRetiredIsTerminal(t *testing.T) {
	c := Character{Status: StatusRetired}
	if _, err := Reactivate(c, fixedClock); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestValidateSkillPurchase(t *testing.T) {
	snap := testSnapshot(t)
	herbalism, _ := snap.Skill("Herbalism")
	advanced, _ := snap.Skill("Advanced Herbalism")

	c := Character{Status: StatusActive, Skills: []string{"Bard"}}
	if err := ValidateSkillPurchase(c, herbalism); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Prerequisite missing.
	if err := ValidateSkillPurchase(c, advanced); !errors.Is(err, ErrPrerequisiteNotMet) {
		t.Fatalf("err = %v, want ErrPrerequisiteNotMet", err)
	}

	// Prerequisite satisfied.
	c.Skills = append(c.Skills, "Herbalism")
	if err := ValidateSkillPurchase(c, advanced); err != nil {
		t.Fatalf("validate with prerequisite: %v", err)
	}

	// Duplicate.
	if err := ValidateSkillPurchase(c, herbalism); !errors.Is(err, ErrSkillAlreadyLearned) {
		t.Fatalf("err = %v, want ErrSkillAlreadyLearned", err)
	}

	// Retired blocks everything.
	c.Status = StatusRetired
	if err := ValidateSkillPurchase(c, advanced); !errors.Is(err, ErrStatusDisallowsOp) {
		t.Fatalf("err = %v, want ErrStatusDisallowsOp", err)
	}
}

func TestValidateSecondArchetypePurchase(t *testing.T) {
	snap := testSnapshot(t)

	c := Character{Status: StatusActive, ArchetypeID: "arc-advisor"}
	if err := ValidateSecondArchetypePurchase(c, "arc-soldier", snap); err != nil {
		t.Fatalf("validate: %v", err)
	}

	c.SecondArchetypeID = "arc-soldier"
	if err := ValidateSecondArchetypePurchase(c, "arc-soldier", snap); !errors.Is(err, ErrSecondArchetypeHeld) {
		t.Fatalf("err = %v, want ErrSecondArchetypeHeld", err)
	}

	c.SecondArchetypeID = ""
	if err := ValidateSecondArchetypePurchase(c, "arc-missing", snap); !errors.Is(err, ErrUnknownArchetype) {
		t.Fatalf("err = %v, want ErrUnknownArchetype", err)
	}
}
