package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/candlewick-games/candlewick/internal/reference"
)

// Skill discount lists are small and read wholesale with their parent
// record, so they are stored as JSON arrays instead of join tables.
func encodeSkillList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode skill list: %w", err)
	}
	return string(raw), nil
}

func decodeSkillList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode skill list: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}

// PutHeritage upserts a heritage record.
func (s *Store) PutHeritage(ctx context.Context, h reference.Heritage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h, err := reference.NormalizeHeritage(h)
	if err != nil {
		return err
	}
	secondary, err := encodeSkillList(h.SecondarySkills)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO heritages (id, name, base_body, base_stamina, secondary_skills, benefit, weakness, costume_requirement)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   base_body = excluded.base_body,
		   base_stamina = excluded.base_stamina,
		   secondary_skills = excluded.secondary_skills,
		   benefit = excluded.benefit,
		   weakness = excluded.weakness,
		   costume_requirement = excluded.costume_requirement`,
		h.ID, h.Name, h.BaseBody, h.BaseStamina, secondary, h.Benefit, h.Weakness, h.CostumeRequirement,
	)
	if err != nil {
		return fmt.Errorf("put heritage: %w", err)
	}
	return nil
}

// PutCulture upserts a culture record.
func (s *Store) PutCulture(ctx context.Context, c reference.Culture) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := reference.NormalizeCulture(c)
	if err != nil {
		return err
	}
	primary, err := encodeSkillList(c.PrimarySkills)
	if err != nil {
		return err
	}
	secondary, err := encodeSkillList(c.SecondarySkills)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO cultures (id, heritage_id, name, primary_skills, secondary_skills)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   heritage_id = excluded.heritage_id,
		   name = excluded.name,
		   primary_skills = excluded.primary_skills,
		   secondary_skills = excluded.secondary_skills`,
		c.ID, c.HeritageID, c.Name, primary, secondary,
	)
	if err != nil {
		return fmt.Errorf("put culture: %w", err)
	}
	return nil
}

// PutArchetype upserts an archetype record.
func (s *Store) PutArchetype(ctx context.Context, a reference.Archetype) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, err := reference.NormalizeArchetype(a)
	if err != nil {
		return err
	}
	primary, err := encodeSkillList(a.PrimarySkills)
	if err != nil {
		return err
	}
	secondary, err := encodeSkillList(a.SecondarySkills)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO archetypes (id, name, primary_skills, secondary_skills)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   primary_skills = excluded.primary_skills,
		   secondary_skills = excluded.secondary_skills`,
		a.ID, a.Name, primary, secondary,
	)
	if err != nil {
		return fmt.Errorf("put archetype: %w", err)
	}
	return nil
}

// PutSkill upserts a skill record.
func (s *Store) PutSkill(ctx context.Context, sk reference.Skill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sk, err := reference.NormalizeSkill(sk)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO skills (id, name, description, prerequisite)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   prerequisite = excluded.prerequisite`,
		sk.ID, sk.Name, sk.Description, sk.Prerequisite,
	)
	if err != nil {
		return fmt.Errorf("put skill: %w", err)
	}
	return nil
}

// ReferenceData loads the full reference catalog. It implements
// reference.Source for snapshot reloads.
func (s *Store) ReferenceData(ctx context.Context) (reference.Data, error) {
	if err := ctx.Err(); err != nil {
		return reference.Data{}, err
	}
	if s == nil || s.sqlDB == nil {
		return reference.Data{}, fmt.Errorf("storage is not configured")
	}

	var data reference.Data

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, base_body, base_stamina, secondary_skills, benefit, weakness, costume_requirement
		 FROM heritages ORDER BY name`)
	if err != nil {
		return reference.Data{}, fmt.Errorf("list heritages: %w", err)
	}
	for rows.Next() {
		var h reference.Heritage
		var secondary string
		if err := rows.Scan(&h.ID, &h.Name, &h.BaseBody, &h.BaseStamina, &secondary, &h.Benefit, &h.Weakness, &h.CostumeRequirement); err != nil {
			rows.Close()
			return reference.Data{}, fmt.Errorf("scan heritage: %w", err)
		}
		if h.SecondarySkills, err = decodeSkillList(secondary); err != nil {
			rows.Close()
			return reference.Data{}, err
		}
		data.Heritages = append(data.Heritages, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return reference.Data{}, fmt.Errorf("list heritages: %w", err)
	}

	rows, err = s.sqlDB.QueryContext(ctx,
		`SELECT id, heritage_id, name, primary_skills, secondary_skills FROM cultures ORDER BY name`)
	if err != nil {
		return reference.Data{}, fmt.Errorf("list cultures: %w", err)
	}
	for rows.Next() {
		var c reference.Culture
		var primary, secondary string
		if err := rows.Scan(&c.ID, &c.HeritageID, &c.Name, &primary, &secondary); err != nil {
			rows.Close()
			return reference.Data{}, fmt.Errorf("scan culture: %w", err)
		}
		if c.PrimarySkills, err = decodeSkillList(primary); err != nil {
			rows.Close()
			return reference.Data{}, err
		}
		if c.SecondarySkills, err = decodeSkillList(secondary); err != nil {
			rows.Close()
			return reference.Data{}, err
		}
		data.Cultures = append(data.Cultures, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return reference.Data{}, fmt.Errorf("list cultures: %w", err)
	}

	rows, err = s.sqlDB.QueryContext(ctx,
		`SELECT id, name, primary_skills, secondary_skills FROM archetypes ORDER BY name`)
	if err != nil {
		return reference.Data{}, fmt.Errorf("list archetypes: %w", err)
	}
	for rows.Next() {
		var a reference.Archetype
		var primary, secondary string
		if err := rows.Scan(&a.ID, &a.Name, &primary, &secondary); err != nil {
			rows.Close()
			return reference.Data{}, fmt.Errorf("scan archetype: %w", err)
		}
		if a.PrimarySkills, err = decodeSkillList(primary); err != nil {
			rows.Close()
			return reference.Data{}, err
		}
		if a.SecondarySkills, err = decodeSkillList(secondary); err != nil {
			rows.Close()
			return reference.Data{}, err
		}
		data.Archetypes = append(data.Archetypes, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return reference.Data{}, fmt.Errorf("list archetypes: %w", err)
	}

	rows, err = s.sqlDB.QueryContext(ctx,
		`SELECT id, name, description, prerequisite FROM skills ORDER BY name`)
	if err != nil {
		return reference.Data{}, fmt.Errorf("list skills: %w", err)
	}
	for rows.Next() {
		var sk reference.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Description, &sk.Prerequisite); err != nil {
			rows.Close()
			return reference.Data{}, fmt.Errorf("scan skill: %w", err)
		}
		data.Skills = append(data.Skills, sk)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return reference.Data{}, fmt.Errorf("list skills: %w", err)
	}

	return data, nil
}
