package reference

import (
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
)

var (
	// ErrPrerequisiteUnknown indicates a skill whose prerequisite does not exist.
	ErrPrerequisiteUnknown = apperrors.New(apperrors.CodeReferencePrerequisiteUnknown, "skill prerequisite does not exist")
	// ErrPrerequisiteCycle indicates a cycle in the skill prerequisite chain.
	ErrPrerequisiteCycle = apperrors.New(apperrors.CodeReferencePrerequisiteCycle, "skill prerequisite chain contains a cycle")
)

// ValidateSkills checks prerequisite chains for dangling references and
// cycles. A cycle would make every skill on it permanently unpurchasable, so
// it is rejected at load time rather than discovered at purchase time.
func ValidateSkills(skills []Skill) error {
	byName := make(map[string]Skill, len(skills))
	for _, s := range skills {
		byName[s.Name] = s
	}

	for _, s := range skills {
		if s.Prerequisite == "" {
			continue
		}
		if _, ok := byName[s.Prerequisite]; !ok {
			return apperrors.WithMetadata(
				apperrors.CodeReferencePrerequisiteUnknown,
				"skill prerequisite does not exist",
				map[string]string{"skill": s.Name, "prerequisite": s.Prerequisite},
			)
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(skills))

	var walk func(name string) error
	walk = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return apperrors.WithMetadata(
				apperrors.CodeReferencePrerequisiteCycle,
				"skill prerequisite chain contains a cycle",
				map[string]string{"skill": name},
			)
		}
		state[name] = visiting
		if prereq := byName[name].Prerequisite; prereq != "" {
			if err := walk(prereq); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, s := range skills {
		if err := walk(s.Name); err != nil {
			return err
		}
	}
	return nil
}

// PrerequisiteSatisfied reports whether the skill's prerequisite, if any, is
// present in the learned list.
func PrerequisiteSatisfied(skill Skill, learned []string) bool {
	if skill.Prerequisite == "" {
		return true
	}
	for _, name := range learned {
		if name == skill.Prerequisite {
			return true
		}
	}
	return false
}
