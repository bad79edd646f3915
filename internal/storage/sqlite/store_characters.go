package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/candlewick-games/candlewick/internal/character/domain"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

// PutCharacter upserts a character and its learned skills. For a brand new
// character the experience ledger is seeded with the creation grant and, when
// part of the budget was spent on the initial build, the matching debit, so
// the ledger always sums to the stored balance.
func (s *Store) PutCharacter(ctx context.Context, c domain.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("character id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existing int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM characters WHERE id = ?`, c.ID).Scan(&existing)
	isNew := err == sql.ErrNoRows
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("check character: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO characters (id, user_id, name, heritage_id, culture_id, archetype_id, second_archetype_id,
		   body, stamina, experience, spent_experience, status, retirement_reason, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   second_archetype_id = excluded.second_archetype_id,
		   body = excluded.body,
		   stamina = excluded.stamina,
		   experience = excluded.experience,
		   spent_experience = excluded.spent_experience,
		   status = excluded.status,
		   retirement_reason = excluded.retirement_reason,
		   updated_at = excluded.updated_at`,
		c.ID, c.UserID, c.Name, c.HeritageID, c.CultureID, c.ArchetypeID, c.SecondArchetypeID,
		c.Body, c.Stamina, c.Experience, c.SpentExperience, c.Status.String(), c.RetirementReason,
		toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	); err != nil {
		return fmt.Errorf("put character: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM character_skills WHERE character_id = ?`, c.ID); err != nil {
		return fmt.Errorf("clear character skills: %w", err)
	}
	for i, name := range c.Skills {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO character_skills (character_id, skill_name, cost, position, created_at)
			 VALUES (?, ?, 0, ?, ?)`,
			c.ID, name, i, toMillis(c.CreatedAt),
		); err != nil {
			return fmt.Errorf("put character skill: %w", err)
		}
	}

	if isNew {
		grant := c.Experience + c.SpentExperience
		if grant > 0 {
			if err := insertExperienceEntry(ctx, tx, c.ID, grant, "creation budget", c.CreatedAt); err != nil {
				return err
			}
		}
		if c.SpentExperience > 0 {
			if err := insertExperienceEntry(ctx, tx, c.ID, -c.SpentExperience, "initial build", c.CreatedAt); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit character: %w", err)
	}
	return nil
}

// GetCharacter fetches a character and its skills by id.
func (s *Store) GetCharacter(ctx context.Context, characterID string) (domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return domain.Character{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Character{}, fmt.Errorf("storage is not configured")
	}
	return s.getCharacter(ctx, s.sqlDB, characterID)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) getCharacter(ctx context.Context, q querier, characterID string) (domain.Character, error) {
	row := q.QueryRowContext(
		ctx,
		`SELECT id, user_id, name, heritage_id, culture_id, archetype_id, second_archetype_id,
		   body, stamina, experience, spent_experience, status, retirement_reason, created_at, updated_at
		 FROM characters WHERE id = ?`,
		characterID,
	)

	c, err := scanCharacter(row)
	if err != nil {
		return domain.Character{}, err
	}

	rows, err := q.QueryContext(
		ctx,
		`SELECT skill_name FROM character_skills WHERE character_id = ? ORDER BY position`,
		characterID,
	)
	if err != nil {
		return domain.Character{}, fmt.Errorf("list character skills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return domain.Character{}, fmt.Errorf("scan character skill: %w", err)
		}
		c.Skills = append(c.Skills, name)
	}
	if err := rows.Err(); err != nil {
		return domain.Character{}, fmt.Errorf("list character skills: %w", err)
	}
	return c, nil
}

// ListCharactersByUser returns a user's characters ordered by creation time.
func (s *Store) ListCharactersByUser(ctx context.Context, userID string) ([]domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id FROM characters WHERE user_id = ? ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan character id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	out := make([]domain.Character, 0, len(ids))
	for _, id := range ids {
		c, err := s.getCharacter(ctx, s.sqlDB, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// UpdateCharacterStatus persists a lifecycle transition.
func (s *Store) UpdateCharacterStatus(ctx context.Context, c domain.Character) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE characters SET status = ?, retirement_reason = ?, updated_at = ? WHERE id = ?`,
		c.Status.String(), c.RetirementReason, toMillis(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update character status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update character status: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// PurchaseSkill spends cost, records the skill, and appends the ledger entry
// in one transaction.
func (s *Store) PurchaseSkill(ctx context.Context, characterID, skillName string, cost int, reason string) (domain.Character, error) {
	return s.purchase(ctx, characterID, cost, reason, func(tx *sql.Tx) error {
		var position int
		if err := tx.QueryRowContext(
			ctx,
			`SELECT COUNT(*) FROM character_skills WHERE character_id = ?`,
			characterID,
		).Scan(&position); err != nil {
			return fmt.Errorf("count character skills: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO character_skills (character_id, skill_name, cost, position, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			characterID, skillName, cost, position, time.Now().UTC().UnixMilli(),
		); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				return domain.ErrSkillAlreadyLearned
			}
			return fmt.Errorf("put character skill: %w", err)
		}
		return nil
	})
}

// PurchaseAttribute spends cost and raises the attribute to newValue in one
// transaction.
func (s *Store) PurchaseAttribute(ctx context.Context, characterID string, attr domain.Attribute, newValue, cost int, reason string) (domain.Character, error) {
	column := ""
	switch attr {
	case domain.AttributeBody:
		column = "body"
	case domain.AttributeStamina:
		column = "stamina"
	default:
		return domain.Character{}, fmt.Errorf("unknown attribute %q", attr)
	}

	return s.purchase(ctx, characterID, cost, reason, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE characters SET `+column+` = ? WHERE id = ?`,
			newValue, characterID,
		); err != nil {
			return fmt.Errorf("update attribute: %w", err)
		}
		return nil
	})
}

// PurchaseSecondArchetype spends cost and sets the second archetype in one
// transaction. The slot must still be empty at write time.
func (s *Store) PurchaseSecondArchetype(ctx context.Context, characterID, archetypeID string, cost int, reason string) (domain.Character, error) {
	return s.purchase(ctx, characterID, cost, reason, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE characters SET second_archetype_id = ? WHERE id = ? AND second_archetype_id = ''`,
			archetypeID, characterID,
		)
		if err != nil {
			return fmt.Errorf("set second archetype: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("set second archetype: %w", err)
		}
		if affected == 0 {
			return domain.ErrSecondArchetypeHeld
		}
		return nil
	})
}

// purchase debits the balance with a conditional update so a concurrent spend
// can never overdraw, applies the purchase-specific change, and appends the
// ledger entry before committing.
func (s *Store) purchase(ctx context.Context, characterID string, cost int, reason string, apply func(tx *sql.Tx) error) (domain.Character, error) {
	if err := ctx.Err(); err != nil {
		return domain.Character{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Character{}, fmt.Errorf("storage is not configured")
	}
	if cost < 0 {
		return domain.Character{}, xp.ErrInvalidAmount
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Character{}, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(
		ctx,
		`UPDATE characters
		 SET experience = experience - ?, spent_experience = spent_experience + ?, updated_at = ?
		 WHERE id = ? AND experience >= ?`,
		cost, cost, toMillis(now), characterID, cost,
	)
	if err != nil {
		return domain.Character{}, fmt.Errorf("debit experience: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Character{}, fmt.Errorf("debit experience: %w", err)
	}
	if affected == 0 {
		var found int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM characters WHERE id = ?`, characterID).Scan(&found); err != nil {
			if err == sql.ErrNoRows {
				return domain.Character{}, apperrors.ErrNotFound
			}
			return domain.Character{}, fmt.Errorf("check character: %w", err)
		}
		return domain.Character{}, xp.ErrInsufficient
	}

	if err := apply(tx); err != nil {
		return domain.Character{}, err
	}

	if cost > 0 {
		if err := insertExperienceEntry(ctx, tx, characterID, -cost, reason, now); err != nil {
			return domain.Character{}, err
		}
	}

	c, err := s.getCharacter(ctx, tx, characterID)
	if err != nil {
		return domain.Character{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Character{}, fmt.Errorf("commit purchase: %w", err)
	}
	return c, nil
}

// AwardExperience credits amount to the character's balance with a ledger
// entry and returns the new balance.
func (s *Store) AwardExperience(ctx context.Context, characterID string, amount int, reason string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if amount <= 0 {
		return 0, xp.ErrInvalidAmount
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	res, err := tx.ExecContext(
		ctx,
		`UPDATE characters SET experience = experience + ?, updated_at = ? WHERE id = ?`,
		amount, toMillis(now), characterID,
	)
	if err != nil {
		return 0, fmt.Errorf("credit experience: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("credit experience: %w", err)
	}
	if affected == 0 {
		return 0, apperrors.ErrNotFound
	}

	if err := insertExperienceEntry(ctx, tx, characterID, amount, reason, now); err != nil {
		return 0, err
	}

	var balance int
	if err := tx.QueryRowContext(ctx, `SELECT experience FROM characters WHERE id = ?`, characterID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit award: %w", err)
	}
	return balance, nil
}

// ExperienceEntry is one ledger line for a character.
type ExperienceEntry struct {
	ID          int64
	CharacterID string
	Delta       int
	Reason      string
	CreatedAt   time.Time
}

// ExperienceEntries returns a character's ledger, oldest first.
func (s *Store) ExperienceEntries(ctx context.Context, characterID string) ([]ExperienceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, character_id, delta, reason, created_at
		 FROM experience_entries WHERE character_id = ? ORDER BY id`,
		characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("list experience entries: %w", err)
	}
	defer rows.Close()

	var out []ExperienceEntry
	for rows.Next() {
		var e ExperienceEntry
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.CharacterID, &e.Delta, &e.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scan experience entry: %w", err)
		}
		e.CreatedAt = fromMillis(createdAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list experience entries: %w", err)
	}
	return out, nil
}

// RecomputeSpentTotals resets every character's spent_experience to the sum
// of its ledger debits. It returns how many rows changed, which should be
// zero outside of manual data surgery.
func (s *Store) RecomputeSpentTotals(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE characters SET spent_experience = (
		   SELECT COALESCE(-SUM(delta), 0)
		   FROM experience_entries
		   WHERE character_id = characters.id AND delta < 0
		 )
		 WHERE spent_experience != (
		   SELECT COALESCE(-SUM(delta), 0)
		   FROM experience_entries
		   WHERE character_id = characters.id AND delta < 0
		 )`,
	)
	if err != nil {
		return 0, fmt.Errorf("recompute spent totals: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("recompute spent totals: %w", err)
	}
	return affected, nil
}

func insertExperienceEntry(ctx context.Context, tx *sql.Tx, characterID string, delta int, reason string, at time.Time) error {
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO experience_entries (character_id, delta, reason, created_at)
		 VALUES (?, ?, ?, ?)`,
		characterID, delta, reason, toMillis(at),
	); err != nil {
		return fmt.Errorf("append experience entry: %w", err)
	}
	return nil
}

func scanCharacter(row rowScanner) (domain.Character, error) {
	var c domain.Character
	var status string
	var createdAt, updatedAt int64
	if err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.HeritageID, &c.CultureID, &c.ArchetypeID, &c.SecondArchetypeID,
		&c.Body, &c.Stamina, &c.Experience, &c.SpentExperience, &status, &c.RetirementReason,
		&createdAt, &updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Character{}, apperrors.ErrNotFound
		}
		return domain.Character{}, fmt.Errorf("scan character: %w", err)
	}

	c.Status = domain.ParseStatus(status)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
