package reference

import (
	"errors"
	"testing"
)

func TestNormalizeHeritage(t *testing.T) {
	h, err := NormalizeHeritage(Heritage{
		ID:              "her-1",
		Name:            "  Human  ",
		BaseBody:        10,
		BaseStamina:     10,
		SecondarySkills: []string{" Herbalism ", ""},
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if h.Name != "Human" {
		t.Fatalf("name = %q, want %q", h.Name, "Human")
	}
	if len(h.SecondarySkills) != 1 || h.SecondarySkills[0] != "Herbalism" {
		t.Fatalf("secondary skills = %v, want [Herbalism]", h.SecondarySkills)
	}
}

func TestNormalizeHeritageRejectsEmptyName(t *testing.T) {
	if _, err := NormalizeHeritage(Heritage{Name: "   "}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("err = %v, want ErrEmptyName", err)
	}
}

func TestNormalizeHeritageRejectsNegativeBase(t *testing.T) {
	if _, err := NormalizeHeritage(Heritage{Name: "Human", BaseBody: -1}); !errors.Is(err, ErrNegativeAttribute) {
		t.Fatalf("err = %v, want ErrNegativeAttribute", err)
	}
}

func TestNormalizeSkillTrimsPrerequisite(t *testing.T) {
	s, err := NormalizeSkill(Skill{Name: " Advanced Herbalism ", Prerequisite: " Herbalism "})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if s.Name != "Advanced Herbalism" || s.Prerequisite != "Herbalism" {
		t.Fatalf("skill = %+v", s)
	}
}

func TestValidateSkillsDetectsCycle(t *testing.T) {
	skills := []Skill{
		{Name: "A", Prerequisite: "B"},
		{Name: "B", Prerequisite: "C"},
		{Name: "C", Prerequisite: "A"},
	}
	err := ValidateSkills(skills)
	if !errors.Is(err, ErrPrerequisiteCycle) {
		t.Fatalf("err = %v, want ErrPrerequisiteCycle", err)
	}
}

func TestValidateSkillsDetectsDanglingPrerequisite(t *testing.T) {
	skills := []Skill{{Name: "A", Prerequisite: "Missing"}}
	err := ValidateSkills(skills)
	if !errors.Is(err, ErrPrerequisiteUnknown) {
		t.Fatalf("err = %v, want ErrPrerequisiteUnknown", err)
	}
}

func TestValidateSkillsAcceptsChain(t *testing.T) {
	skills := []Skill{
		{Name: "Herbalism"},
		{Name: "Advanced Herbalism", Prerequisite: "Herbalism"},
		{Name: "Master Herbalism", Prerequisite: "Advanced Herbalism"},
	}
	if err := ValidateSkills(skills); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestPrerequisiteSatisfied(t *testing.T) {
	skill := Skill{Name: "Advanced Herbalism", Prerequisite: "Herbalism"}
	if PrerequisiteSatisfied(skill, []string{"Bard"}) {
		t.Fatal("expected unsatisfied prerequisite")
	}
	if !PrerequisiteSatisfied(skill, []string{"Bard", "Herbalism"}) {
		t.Fatal("expected satisfied prerequisite")
	}
	if !PrerequisiteSatisfied(Skill{Name: "Herbalism"}, nil) {
		t.Fatal("expected no prerequisite to always be satisfied")
	}
}
