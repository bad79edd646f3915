package reference

import (
	"context"
	"errors"
	"testing"

	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

func testData() Data {
	return Data{
		Heritages: []Heritage{
			{ID: "her-human", Name: "Human", BaseBody: 10, BaseStamina: 10, SecondarySkills: []string{"Herbalism"}},
		},
		Cultures: []Culture{
			{ID: "cul-lowland", HeritageID: "her-human", Name: "Lowlander", SecondarySkills: []string{"Farming"}},
		},
		Archetypes: []Archetype{
			{ID: "arc-advisor", Name: "Advisor", PrimarySkills: []string{"Bard"}, SecondarySkills: []string{"Diplomacy"}},
			{ID: "arc-soldier", Name: "Soldier", PrimarySkills: []string{"Blade"}},
		},
		Skills: []Skill{
			{ID: "skl-bard", Name: "Bard"},
			{ID: "skl-blade", Name: "Blade"},
			{ID: "skl-herb", Name: "Herbalism"},
			{ID: "skl-adv-herb", Name: "Advanced Herbalism", Prerequisite: "Herbalism"},
		},
	}
}

func TestNewSnapshotRejectsUnknownCultureHeritage(t *testing.T) {
	data := testData()
	data.Cultures[0].HeritageID = "her-missing"
	if _, err := NewSnapshot(data); !errors.Is(err, ErrUnknownHeritage) {
		t.Fatalf("err = %v, want ErrUnknownHeritage", err)
	}
}

func TestSnapshotLookups(t *testing.T) {
	snap, err := NewSnapshot(testData())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, ok := snap.Heritage("her-human"); !ok {
		t.Fatal("expected heritage lookup to succeed")
	}
	if _, ok := snap.Skill("Bard"); !ok {
		t.Fatal("expected skill lookup to succeed")
	}
	if _, ok := snap.Skill("Missing"); ok {
		t.Fatal("expected missing skill lookup to fail")
	}
}

func TestSnapshotClassifySkill(t *testing.T) {
	snap, err := NewSnapshot(testData())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	got := snap.ClassifySkill("Bard", "her-human", "arc-advisor", "")
	if got.Tier != xp.TierPrimary {
		t.Fatalf("bard tier = %s, want primary", got.Tier)
	}

	got = snap.ClassifySkill("Herbalism", "her-human", "arc-advisor", "")
	if got.Tier != xp.TierSecondary {
		t.Fatalf("herbalism tier = %s, want secondary", got.Tier)
	}

	// Blade is only discounted once the soldier archetype is held.
	got = snap.ClassifySkill("Blade", "her-human", "arc-advisor", "")
	if got.Tier != xp.TierOther {
		t.Fatalf("blade tier = %s, want other", got.Tier)
	}
	got = snap.ClassifySkill("Blade", "her-human", "arc-advisor", "arc-soldier")
	if got.Tier != xp.TierPrimary {
		t.Fatalf("blade tier with second archetype = %s, want primary", got.Tier)
	}
}

func TestSnapshotClassifySkillUnknownReferencesDefault(t *testing.T) {
	snap, err := NewSnapshot(testData())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	got := snap.ClassifySkill("Bard", "her-missing", "arc-missing", "arc-also-missing")
	if got.Tier != xp.TierOther || got.Cost != xp.OtherSkillCost {
		t.Fatalf("classification = %+v, want other/20 fallback", got)
	}
}

type staticSource struct {
	data Data
	err  error
}

func (s staticSource) ReferenceData(context.Context) (Data, error) {
	return s.data, s.err
}

func TestRepositoryReload(t *testing.T) {
	repo := NewRepository()
	if err := repo.Reload(context.Background(), staticSource{data: testData()}); err != nil {
		t.Fatalf("reload: %v", err)
	}
	snap := repo.Snapshot()
	if _, ok := snap.Heritage("her-human"); !ok {
		t.Fatal("expected reloaded snapshot to contain heritage")
	}
}

func TestRepositoryReloadRejectsInvalidCatalog(t *testing.T) {
	repo := NewRepository()
	if err := repo.Reload(context.Background(), staticSource{data: testData()}); err != nil {
		t.Fatalf("reload: %v", err)
	}

	bad := testData()
	bad.Skills = append(bad.Skills, Skill{Name: "Broken", Prerequisite: "Nowhere"})
	if err := repo.Reload(context.Background(), staticSource{data: bad}); err == nil {
		t.Fatal("expected reload of invalid catalog to fail")
	}

	// The previous snapshot must survive a failed reload.
	if _, ok := repo.Snapshot().Heritage("her-human"); !ok {
		t.Fatal("expected previous snapshot to remain after failed reload")
	}
}
