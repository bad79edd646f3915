package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/candlewick-games/candlewick/internal/account"
	"github.com/candlewick-games/candlewick/internal/achievement"
	"github.com/candlewick-games/candlewick/internal/chapter"
	"github.com/candlewick-games/candlewick/internal/character/domain"
	"github.com/candlewick-games/candlewick/internal/event"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/reference"
	"github.com/candlewick-games/candlewick/internal/rules/xp"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	// Reopening reruns migrations against an already-migrated file.
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	_ = store.Close()
}

func TestUserRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	u := account.User{
		ID:           "user-1",
		Email:        "wren@example.com",
		DisplayName:  "Wren",
		Role:         account.RolePlayer,
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.PutUser(ctx, u); err != nil {
		t.Fatalf("put user: %v", err)
	}

	got, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != u.Email || got.Role != account.RolePlayer || !got.CreatedAt.Equal(now) {
		t.Fatalf("got = %+v", got)
	}

	byEmail, err := store.GetUserByEmail(ctx, "wren@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Fatalf("id = %q", byEmail.ID)
	}

	if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestChapterRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	chapters := []chapter.Chapter{
		{ID: "ch-2", Name: "Northreach", Location: "Uppsala", CreatedAt: now, UpdatedAt: now},
		{ID: "ch-1", Name: "Emberfall", Location: "Lund", CreatedAt: now, UpdatedAt: now},
	}
	for _, c := range chapters {
		if err := store.PutChapter(ctx, c); err != nil {
			t.Fatalf("put chapter: %v", err)
		}
	}

	listed, err := store.ListChapters(ctx)
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(listed) != 2 || listed[0].Name != "Emberfall" {
		t.Fatalf("listed = %+v", listed)
	}
}

func TestReferenceDataRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.PutHeritage(ctx, reference.Heritage{
		ID: "human", Name: "Human", BaseBody: 10, BaseStamina: 10,
		SecondarySkills: []string{"Herbalism"},
	}); err != nil {
		t.Fatalf("put heritage: %v", err)
	}
	if err := store.PutCulture(ctx, reference.Culture{
		ID: "lowlander", HeritageID: "human", Name: "Lowlander",
	}); err != nil {
		t.Fatalf("put culture: %v", err)
	}
	if err := store.PutArchetype(ctx, reference.Archetype{
		ID: "advisor", Name: "Advisor", PrimarySkills: []string{"Bard"},
		SecondarySkills: []string{"Diplomacy"},
	}); err != nil {
		t.Fatalf("put archetype: %v", err)
	}
	if err := store.PutSkill(ctx, reference.Skill{ID: "sk-bard", Name: "Bard"}); err != nil {
		t.Fatalf("put skill: %v", err)
	}

	data, err := store.ReferenceData(ctx)
	if err != nil {
		t.Fatalf("reference data: %v", err)
	}
	if len(data.Heritages) != 1 || len(data.Cultures) != 1 || len(data.Archetypes) != 1 || len(data.Skills) != 1 {
		t.Fatalf("data = %+v", data)
	}
	if data.Heritages[0].SecondarySkills[0] != "Herbalism" {
		t.Fatalf("heritage skills = %v", data.Heritages[0].SecondarySkills)
	}

	// The catalog builds a valid snapshot end to end.
	if _, err := reference.NewSnapshot(data); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
}

func seedCharacter(t *testing.T, store *Store, experience int) domain.Character {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := store.PutUser(ctx, account.User{
		ID: "user-1", Email: "wren@example.com", DisplayName: "Wren",
		Role: account.RolePlayer, PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("put user: %v", err)
	}
	c := domain.Character{
		ID:          "char-1",
		UserID:      "user-1",
		Name:        "Maren",
		HeritageID:  "human",
		CultureID:   "lowlander",
		ArchetypeID: "advisor",
		Body:        10,
		Stamina:     10,
		Experience:  experience,
		Status:      domain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.PutCharacter(ctx, c); err != nil {
		t.Fatalf("put character: %v", err)
	}
	return c
}

func TestCharacterRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 25)

	got, err := store.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if got.Name != "Maren" || got.Experience != 25 || got.Status != domain.StatusActive {
		t.Fatalf("got = %+v", got)
	}

	listed, err := store.ListCharactersByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed %d characters", len(listed))
	}
}

func TestPutCharacterSeedsLedger(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 25)

	entries, err := store.ExperienceEntries(ctx, "char-1")
	if err != nil {
		t.Fatalf("experience entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Delta != 25 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestPurchaseSkillDebitsAndRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 25)

	c, err := store.PurchaseSkill(ctx, "char-1", "Bard", 5, "skill Bard (primary)")
	if err != nil {
		t.Fatalf("purchase skill: %v", err)
	}
	if c.Experience != 20 || c.SpentExperience != 5 {
		t.Fatalf("balance = %d spent %d", c.Experience, c.SpentExperience)
	}
	if !c.HasSkill("Bard") {
		t.Fatal("expected Bard learned")
	}

	entries, err := store.ExperienceEntries(ctx, "char-1")
	if err != nil {
		t.Fatalf("experience entries: %v", err)
	}
	last := entries[len(entries)-1]
	if last.Delta != -5 || last.Reason != "skill Bard (primary)" {
		t.Fatalf("last entry = %+v", last)
	}
}

func TestPurchaseRejectsOverdraw(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 3)

	if _, err := store.PurchaseSkill(ctx, "char-1", "Bard", 5, "skill Bard"); !errors.Is(err, xp.ErrInsufficient) {
		t.Fatalf("err = %v, want ErrInsufficient", err)
	}

	// Nothing changed: no skill, no debit, balance intact.
	c, err := store.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.Experience != 3 || len(c.Skills) != 0 {
		t.Fatalf("character = %+v", c)
	}
	entries, err := store.ExperienceEntries(ctx, "char-1")
	if err != nil {
		t.Fatalf("experience entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestPurchaseUnknownCharacter(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.PurchaseSkill(context.Background(), "missing", "Bard", 5, "skill"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPurchaseAttributeUpdatesValue(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 25)

	c, err := store.PurchaseAttribute(ctx, "char-1", domain.AttributeBody, 13, 3, "body 10 to 13")
	if err != nil {
		t.Fatalf("purchase attribute: %v", err)
	}
	if c.Body != 13 || c.Experience != 22 {
		t.Fatalf("body = %d, experience = %d", c.Body, c.Experience)
	}
}

func TestPurchaseSecondArchetypeGuardsSlot(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 120)

	c, err := store.PurchaseSecondArchetype(ctx, "char-1", "warden", 50, "second archetype")
	if err != nil {
		t.Fatalf("purchase archetype: %v", err)
	}
	if c.SecondArchetypeID != "warden" || c.Experience != 70 {
		t.Fatalf("character = %+v", c)
	}

	if _, err := store.PurchaseSecondArchetype(ctx, "char-1", "advisor", 50, "second archetype"); !errors.Is(err, domain.ErrSecondArchetypeHeld) {
		t.Fatalf("err = %v, want ErrSecondArchetypeHeld", err)
	}
	// The failed purchase must not have debited anything.
	after, err := store.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if after.Experience != 70 {
		t.Fatalf("experience = %d, want 70", after.Experience)
	}
}

func TestAwardExperienceAppendsLedger(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 10)

	balance, err := store.AwardExperience(ctx, "char-1", 7, "attendance at Midsummer Gathering")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if balance != 17 {
		t.Fatalf("balance = %d, want 17", balance)
	}
	if _, err := store.AwardExperience(ctx, "char-1", 0, "zero"); !errors.Is(err, xp.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if _, err := store.AwardExperience(ctx, "missing", 5, "grant"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRecomputeSpentTotals(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 25)
	if _, err := store.PurchaseSkill(ctx, "char-1", "Bard", 5, "skill Bard"); err != nil {
		t.Fatalf("purchase: %v", err)
	}

	// Consistent data means a no-op.
	changed, err := store.RecomputeSpentTotals(ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if changed != 0 {
		t.Fatalf("changed = %d, want 0", changed)
	}

	// Corrupt the cached total and verify the ledger wins.
	if _, err := store.sqlDB.ExecContext(ctx, `UPDATE characters SET spent_experience = 999 WHERE id = 'char-1'`); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	changed, err = store.RecomputeSpentTotals(ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if changed != 1 {
		t.Fatalf("changed = %d, want 1", changed)
	}
	c, err := store.GetCharacter(ctx, "char-1")
	if err != nil {
		t.Fatalf("get character: %v", err)
	}
	if c.SpentExperience != 5 {
		t.Fatalf("spent = %d, want 5", c.SpentExperience)
	}
}

func TestCandleLedger(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 25)

	now := time.Now().UTC().Truncate(time.Millisecond)
	e := event.Event{
		ID:        "ev-1",
		ChapterID: "ch-1",
		Name:      "Midsummer Gathering",
		StartsAt:  now,
		EndsAt:    now.Add(8 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.PutEvent(ctx, e); err != nil {
		t.Fatalf("put event: %v", err)
	}

	if err := store.GrantCandles(ctx, "user-1", 5, "attendance"); err != nil {
		t.Fatalf("grant: %v", err)
	}

	r := event.RSVP{
		EventID:     "ev-1",
		CharacterID: "char-1",
		Status:      event.RSVPGoing,
		ExtraXP:     3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.PutRSVPCharging(ctx, r, "user-1", 3, "extra xp"); err != nil {
		t.Fatalf("rsvp with charge: %v", err)
	}
	balance, err := store.CandleBalance(ctx, "user-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 2 {
		t.Fatalf("balance = %d, want 2", balance)
	}

	// An overdraw fails the whole write: no debit, no RSVP change.
	over := r
	over.ExtraXP = 6
	err = store.PutRSVPCharging(ctx, over, "user-1", 3, "extra xp")
	if apperrors.CodeOf(err) != apperrors.CodeCandleInsufficient {
		t.Fatalf("err = %v, want candle insufficient", err)
	}
	balance, err = store.CandleBalance(ctx, "user-1")
	if err != nil {
		t.Fatalf("balance after failed charge: %v", err)
	}
	if balance != 2 {
		t.Fatalf("balance = %d, want 2", balance)
	}
	got, err := store.GetRSVP(ctx, "ev-1", "char-1")
	if err != nil {
		t.Fatalf("get rsvp: %v", err)
	}
	if got.ExtraXP != 3 {
		t.Fatalf("extra xp = %d, want 3", got.ExtraXP)
	}

	entries, err := store.CandleTransactions(ctx, "user-1")
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestEventAndRSVPRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedCharacter(t, store, 25)

	now := time.Now().UTC().Truncate(time.Millisecond)
	e := event.Event{
		ID:          "ev-1",
		ChapterID:   "ch-1",
		Name:        "Midsummer Gathering",
		StartsAt:    now,
		EndsAt:      now.Add(8 * time.Hour),
		XPAward:     3,
		CandleAward: 2,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.PutEvent(ctx, e); err != nil {
		t.Fatalf("put event: %v", err)
	}

	got, err := store.GetEvent(ctx, "ev-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Name != e.Name || got.XPAward != 3 || !got.StartsAt.Equal(e.StartsAt) {
		t.Fatalf("got = %+v", got)
	}

	listed, err := store.ListEvents(ctx, "ch-1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed %d events", len(listed))
	}
	if other, err := store.ListEvents(ctx, "ch-other"); err != nil || len(other) != 0 {
		t.Fatalf("other chapter = %v, %v", other, err)
	}

	r := event.RSVP{
		EventID:     "ev-1",
		CharacterID: "char-1",
		Status:      event.RSVPGoing,
		ExtraXP:     2,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.PutRSVP(ctx, r); err != nil {
		t.Fatalf("put rsvp: %v", err)
	}
	r.Attended = true
	if err := store.PutRSVP(ctx, r); err != nil {
		t.Fatalf("update rsvp: %v", err)
	}

	gotRSVP, err := store.GetRSVP(ctx, "ev-1", "char-1")
	if err != nil {
		t.Fatalf("get rsvp: %v", err)
	}
	if !gotRSVP.Attended || gotRSVP.ExtraXP != 2 || gotRSVP.Status != event.RSVPGoing {
		t.Fatalf("rsvp = %+v", gotRSVP)
	}

	all, err := store.ListRSVPs(ctx, "ev-1")
	if err != nil {
		t.Fatalf("list rsvps: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("listed %d rsvps", len(all))
	}
}

func TestRarityThresholdsDefaultAndOverride(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	got, err := store.RarityThresholds(ctx)
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	if got != achievement.DefaultRarityThresholds() {
		t.Fatalf("got = %+v", got)
	}

	custom := achievement.RarityThresholds{Common: 60, Rare: 30, Epic: 15, Legendary: 5}
	if err := store.PutRarityThresholds(ctx, custom); err != nil {
		t.Fatalf("put thresholds: %v", err)
	}
	got, err = store.RarityThresholds(ctx)
	if err != nil {
		t.Fatalf("thresholds: %v", err)
	}
	if got != custom {
		t.Fatalf("got = %+v", got)
	}

	// Invalid thresholds are rejected wholesale.
	bad := achievement.RarityThresholds{Common: 10, Rare: 30, Epic: 15, Legendary: 5}
	if err := store.PutRarityThresholds(ctx, bad); !errors.Is(err, achievement.ErrThresholdOrder) {
		t.Fatalf("err = %v, want ErrThresholdOrder", err)
	}
	got, _ = store.RarityThresholds(ctx)
	if got != custom {
		t.Fatalf("stored thresholds changed: %+v", got)
	}
}
