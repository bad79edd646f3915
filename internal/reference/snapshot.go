package reference

import (
	"context"
	"fmt"
	"sync"

	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

// Data is the full reference catalog as loaded from storage.
type Data struct {
	Heritages  []Heritage
	Cultures   []Culture
	Archetypes []Archetype
	Skills     []Skill
}

// Source loads the reference catalog from persistent storage.
type Source interface {
	ReferenceData(ctx context.Context) (Data, error)
}

// Snapshot is an immutable, indexed view of the reference catalog. It is
// built once per load and passed by value into the economy rules, so no
// consumer ever reads half-refreshed data.
type Snapshot struct {
	heritages    map[string]Heritage
	cultures     map[string]Culture
	archetypes   map[string]Archetype
	skillsByName map[string]Skill
	data         Data
}

// NewSnapshot indexes and validates a reference catalog.
func NewSnapshot(data Data) (Snapshot, error) {
	if err := ValidateSkills(data.Skills); err != nil {
		return Snapshot{}, err
	}

	heritages := make(map[string]Heritage, len(data.Heritages))
	for _, h := range data.Heritages {
		heritages[h.ID] = h
	}

	cultures := make(map[string]Culture, len(data.Cultures))
	for _, c := range data.Cultures {
		if _, ok := heritages[c.HeritageID]; !ok {
			return Snapshot{}, fmt.Errorf("culture %q: %w", c.Name, ErrUnknownHeritage)
		}
		cultures[c.ID] = c
	}

	archetypes := make(map[string]Archetype, len(data.Archetypes))
	for _, a := range data.Archetypes {
		archetypes[a.ID] = a
	}

	skills := make(map[string]Skill, len(data.Skills))
	for _, s := range data.Skills {
		skills[s.Name] = s
	}

	return Snapshot{
		heritages:    heritages,
		cultures:     cultures,
		archetypes:   archetypes,
		skillsByName: skills,
		data:         data,
	}, nil
}

// Heritage looks up a heritage by id.
func (s Snapshot) Heritage(id string) (Heritage, bool) {
	h, ok := s.heritages[id]
	return h, ok
}

// Culture looks up a culture by id.
func (s Snapshot) Culture(id string) (Culture, bool) {
	c, ok := s.cultures[id]
	return c, ok
}

// Archetype looks up an archetype by id.
func (s Snapshot) Archetype(id string) (Archetype, bool) {
	a, ok := s.archetypes[id]
	return a, ok
}

// Skill looks up a skill by name.
func (s Snapshot) Skill(name string) (Skill, bool) {
	sk, ok := s.skillsByName[name]
	return sk, ok
}

// Data returns the raw catalog backing this snapshot.
func (s Snapshot) Data() Data {
	return s.data
}

// ClassifySkill prices a skill for a character build by id. Unknown heritage
// or archetype ids resolve to empty discount lists, so malformed references
// degrade to the full price instead of failing.
func (s Snapshot) ClassifySkill(skillName, heritageID, archetypeID, secondArchetypeID string) xp.Classification {
	heritage := s.heritages[heritageID]
	primary := s.archetypes[archetypeID]

	var secondary *xp.ArchetypeSkills
	if secondArchetypeID != "" {
		if a, ok := s.archetypes[secondArchetypeID]; ok {
			sets := a.SkillSets()
			secondary = &sets
		}
	}

	return xp.Classify(skillName, heritage.SkillSets(), primary.SkillSets(), secondary)
}

// Repository owns the authoritative in-memory snapshot for a process. Reads
// are lock-free copies; Reload swaps the snapshot wholesale after admin
// writes or at startup.
type Repository struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewRepository returns a repository with an empty snapshot.
func NewRepository() *Repository {
	return &Repository{}
}

// Reload fetches the catalog from storage and swaps the snapshot.
func (r *Repository) Reload(ctx context.Context, source Source) error {
	if source == nil {
		return fmt.Errorf("reference source is required")
	}
	data, err := source.ReferenceData(ctx)
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}
	snap, err := NewSnapshot(data)
	if err != nil {
		return fmt.Errorf("build reference snapshot: %w", err)
	}

	r.mu.Lock()
	r.snap = snap
	r.mu.Unlock()
	return nil
}

// Snapshot returns the current snapshot.
func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}
