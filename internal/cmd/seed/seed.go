// Package seed parses seed command flags and loads the starter catalog into
// an empty database.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/candlewick-games/candlewick/internal/account"
	"github.com/candlewick-games/candlewick/internal/chapter"
	entrypoint "github.com/candlewick-games/candlewick/internal/platform/cmd"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
	"github.com/candlewick-games/candlewick/internal/reference"
	"github.com/candlewick-games/candlewick/internal/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	StoragePath   string `env:"CANDLEWICK_STORAGE_PATH" envDefault:"candlewick.db"`
	AdminEmail    string `env:"CANDLEWICK_ADMIN_EMAIL"`
	AdminPassword string `env:"CANDLEWICK_ADMIN_PASSWORD"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "Path to the SQLite database file")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "Email for the bootstrap admin account")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the reference catalog, a starter chapter, and optionally a
// bootstrap admin account. Seeding is idempotent: records are upserted by id.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() {
			_ = store.Close()
		}()

		if err := seedCatalog(ctx, store); err != nil {
			return err
		}
		if err := seedChapter(ctx, store); err != nil {
			return err
		}
		if cfg.AdminEmail != "" {
			if err := seedAdmin(ctx, store, cfg.AdminEmail, cfg.AdminPassword); err != nil {
				return err
			}
		}

		// Prove the seeded catalog builds a valid snapshot before declaring
		// success.
		repo := reference.NewRepository()
		if err := repo.Reload(ctx, store); err != nil {
			return fmt.Errorf("validate seeded catalog: %w", err)
		}
		log.Println("seed complete")
		return nil
	})
}

func seedCatalog(ctx context.Context, store *sqlite.Store) error {
	heritages := []reference.Heritage{
		{
			ID: "human", Name: "Human", BaseBody: 10, BaseStamina: 10,
			SecondarySkills:    []string{"Herbalism", "Diplomacy"},
			Benefit:            "One extra starting ritual slot",
			Weakness:           "No darkvision",
			CostumeRequirement: "None",
		},
		{
			ID: "stoneborn", Name: "Stoneborn", BaseBody: 14, BaseStamina: 8,
			SecondarySkills:    []string{"Smithing", "Mining"},
			Benefit:            "Resistance to knockdown",
			Weakness:           "Cannot swim",
			CostumeRequirement: "Grey skin tone and prosthetic brow",
		},
		{
			ID: "wildkin", Name: "Wildkin", BaseBody: 8, BaseStamina: 12,
			SecondarySkills:    []string{"Tracking", "Herbalism"},
			Benefit:            "Scent tracking once per day",
			Weakness:           "Vulnerable to silver",
			CostumeRequirement: "Ears and tail",
		},
	}
	for _, h := range heritages {
		if err := store.PutHeritage(ctx, h); err != nil {
			return fmt.Errorf("seed heritage %s: %w", h.ID, err)
		}
	}

	cultures := []reference.Culture{
		{ID: "lowlander", HeritageID: "human", Name: "Lowlander", SecondarySkills: []string{"Farming"}},
		{ID: "crownsworn", HeritageID: "human", Name: "Crownsworn", SecondarySkills: []string{"Etiquette"}},
		{ID: "deepdelver", HeritageID: "stoneborn", Name: "Deepdelver", SecondarySkills: []string{"Mining"}},
		{ID: "thornwalker", HeritageID: "wildkin", Name: "Thornwalker", SecondarySkills: []string{"Foraging"}},
	}
	for _, c := range cultures {
		if err := store.PutCulture(ctx, c); err != nil {
			return fmt.Errorf("seed culture %s: %w", c.ID, err)
		}
	}

	archetypes := []reference.Archetype{
		{
			ID: "advisor", Name: "Advisor",
			PrimarySkills:   []string{"Bard", "Oratory"},
			SecondarySkills: []string{"Diplomacy", "Etiquette"},
		},
		{
			ID: "warden", Name: "Warden",
			PrimarySkills:   []string{"Shieldwork", "Polearms"},
			SecondarySkills: []string{"First Aid", "Tracking"},
		},
		{
			ID: "ritualist", Name: "Ritualist",
			PrimarySkills:   []string{"Ritual Casting", "Lore"},
			SecondarySkills: []string{"Herbalism", "Scribing"},
		},
	}
	for _, a := range archetypes {
		if err := store.PutArchetype(ctx, a); err != nil {
			return fmt.Errorf("seed archetype %s: %w", a.ID, err)
		}
	}

	skills := []reference.Skill{
		{ID: "sk-bard", Name: "Bard", Description: "Perform songs that grant morale."},
		{ID: "sk-master-bard", Name: "Master Bard", Description: "Extend morale songs to a full camp.", Prerequisite: "Bard"},
		{ID: "sk-oratory", Name: "Oratory", Description: "Sway a crowd with a speech."},
		{ID: "sk-diplomacy", Name: "Diplomacy", Description: "Open formal negotiations."},
		{ID: "sk-etiquette", Name: "Etiquette", Description: "Navigate court protocol."},
		{ID: "sk-herbalism", Name: "Herbalism", Description: "Identify and prepare herbs."},
		{ID: "sk-shieldwork", Name: "Shieldwork", Description: "Block with a shield."},
		{ID: "sk-polearms", Name: "Polearms", Description: "Fight with spears and halberds."},
		{ID: "sk-first-aid", Name: "First Aid", Description: "Stabilize a downed character."},
		{ID: "sk-tracking", Name: "Tracking", Description: "Follow a trail through the wilds."},
		{ID: "sk-ritual-casting", Name: "Ritual Casting", Description: "Lead a ritual circle."},
		{ID: "sk-lore", Name: "Lore", Description: "Recall histories and legends."},
		{ID: "sk-scribing", Name: "Scribing", Description: "Produce ritual scrolls.", Prerequisite: "Lore"},
		{ID: "sk-smithing", Name: "Smithing", Description: "Repair weapons and armor."},
		{ID: "sk-mining", Name: "Mining", Description: "Extract ore from marked nodes."},
		{ID: "sk-farming", Name: "Farming", Description: "Work the land between events."},
		{ID: "sk-foraging", Name: "Foraging", Description: "Gather food in the wilds."},
	}
	for _, sk := range skills {
		if err := store.PutSkill(ctx, sk); err != nil {
			return fmt.Errorf("seed skill %s: %w", sk.ID, err)
		}
	}
	return nil
}

func seedChapter(ctx context.Context, store *sqlite.Store) error {
	if _, err := store.GetChapter(ctx, "emberfall"); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("check chapter: %w", err)
	}

	c, err := chapter.CreateChapter(chapter.CreateChapterInput{
		Name:     "Emberfall",
		Location: "Lund",
	}, nil, func() (string, error) { return "emberfall", nil })
	if err != nil {
		return err
	}
	if err := store.PutChapter(ctx, c); err != nil {
		return fmt.Errorf("seed chapter: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, store *sqlite.Store, email, password string) error {
	if password == "" {
		return fmt.Errorf("admin password is required when admin email is set")
	}
	normalized := account.NormalizeEmail(email)
	if _, err := store.GetUserByEmail(ctx, normalized); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("check admin: %w", err)
	}

	hash, err := account.HashPassword(password)
	if err != nil {
		return err
	}
	userID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate admin id: %w", err)
	}
	u := account.User{
		ID:           userID,
		Email:        normalized,
		DisplayName:  "Game Master",
		Role:         account.RoleAdmin,
		PasswordHash: hash,
	}
	if err := store.PutUser(ctx, u); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
