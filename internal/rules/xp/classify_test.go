package xp

import "testing"

func TestClassifyPrimaryWinsOverHeritageSecondary(t *testing.T) {
	heritage := HeritageSkills{Secondary: []string{"Bard"}}
	archetype := ArchetypeSkills{Primary: []string{"Bard"}}

	got := Classify("Bard", heritage, archetype, nil)
	if got.Tier != TierPrimary || got.Cost != PrimarySkillCost {
		t.Fatalf("classification = %+v, want primary/5", got)
	}
}

func TestClassifyHeritageSecondary(t *testing.T) {
	heritage := HeritageSkills{Secondary: []string{"Herbalism"}}
	archetype := ArchetypeSkills{Primary: []string{"Bard"}}

	got := Classify("Herbalism", heritage, archetype, nil)
	if got.Tier != TierSecondary || got.Cost != SecondarySkillCost {
		t.Fatalf("classification = %+v, want secondary/10", got)
	}
}

func TestClassifyArchetypeSecondary(t *testing.T) {
	archetype := ArchetypeSkills{Secondary: []string{"Diplomacy"}}

	got := Classify("Diplomacy", HeritageSkills{}, archetype, nil)
	if got.Tier != TierSecondary || got.Cost != SecondarySkillCost {
		t.Fatalf("classification = %+v, want secondary/10", got)
	}
}

func TestClassifyUnknownSkillDefaultsToOther(t *testing.T) {
	got := Classify("Skill That Does Not Exist", HeritageSkills{}, ArchetypeSkills{}, nil)
	if got.Tier != TierOther || got.Cost != OtherSkillCost {
		t.Fatalf("classification = %+v, want other/20", got)
	}
}

func TestClassifySecondArchetypeImprovesPrice(t *testing.T) {
	primary := ArchetypeSkills{Primary: []string{"Bard"}}
	second := ArchetypeSkills{Primary: []string{"Blade"}, Secondary: []string{"Scouting"}}

	got := Classify("Blade", HeritageSkills{}, primary, &second)
	if got.Tier != TierPrimary || got.Cost != PrimarySkillCost {
		t.Fatalf("classification = %+v, want primary/5 from second archetype", got)
	}

	got = Classify("Scouting", HeritageSkills{}, primary, &second)
	if got.Tier != TierSecondary || got.Cost != SecondarySkillCost {
		t.Fatalf("classification = %+v, want secondary/10 from second archetype", got)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	heritage := HeritageSkills{Secondary: []string{"Herbalism"}}
	archetype := ArchetypeSkills{Primary: []string{"Bard"}}

	first := Classify("Herbalism", heritage, archetype, nil)
	for i := 0; i < 5; i++ {
		if again := Classify("Herbalism", heritage, archetype, nil); again != first {
			t.Fatalf("repeated classify = %+v, want %+v", again, first)
		}
	}
}
