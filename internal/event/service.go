package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	chardomain "github.com/candlewick-games/candlewick/internal/character/domain"
	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
)

// CharacterReader resolves characters for RSVP and attendance checks.
type CharacterReader interface {
	GetCharacter(ctx context.Context, characterID string) (chardomain.Character, error)
}

// ExperienceAwarder credits XP to a character with a ledger entry.
type ExperienceAwarder interface {
	AwardExperience(ctx context.Context, characterID string, amount int, reason string) (int, error)
}

// Service implements event scheduling, RSVPs, and attendance awards.
type Service struct {
	store       Store
	candles     CandleLedger
	characters  CharacterReader
	awarder     ExperienceAwarder
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewService creates an event service with default clock and id generation.
func NewService(store Store, candles CandleLedger, characters CharacterReader, awarder ExperienceAwarder) *Service {
	return &Service{
		store:       store,
		candles:     candles,
		characters:  characters,
		awarder:     awarder,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// Create schedules a new event.
func (s *Service) Create(ctx context.Context, input CreateEventInput) (Event, error) {
	e, err := CreateEvent(input, s.clock, s.idGenerator)
	if err != nil {
		return Event{}, err
	}
	if err := s.store.PutEvent(ctx, e); err != nil {
		return Event{}, fmt.Errorf("persist event: %w", err)
	}
	return e, nil
}

// Get fetches an event by id.
func (s *Service) Get(ctx context.Context, eventID string) (Event, error) {
	return s.store.GetEvent(ctx, eventID)
}

// List returns events, optionally filtered to one chapter.
func (s *Service) List(ctx context.Context, chapterID string) ([]Event, error) {
	return s.store.ListEvents(ctx, chapterID)
}

// RSVPInput describes a character's registration for an event.
type RSVPInput struct {
	EventID     string
	CharacterID string
	Status      string
	ExtraXP     int
}

// RSVP registers or updates a character's intention for an event. Extra XP
// is paid in candles up front by the owning user; resubmissions only charge
// the increase over what was already paid, and nothing is ever refunded.
func (s *Service) RSVP(ctx context.Context, input RSVPInput) (RSVP, error) {
	status, err := ParseRSVPStatus(input.Status)
	if err != nil {
		return RSVP{}, err
	}
	if input.ExtraXP < 0 || input.ExtraXP > MaxExtraXP {
		return RSVP{}, apperrors.WithMetadata(
			apperrors.CodeEventInvalidRSVP,
			"extra xp purchase is out of range",
			map[string]string{"max": fmt.Sprintf("%d", MaxExtraXP)},
		)
	}

	if _, err := s.store.GetEvent(ctx, input.EventID); err != nil {
		return RSVP{}, err
	}

	character, err := s.characters.GetCharacter(ctx, input.CharacterID)
	if err != nil {
		return RSVP{}, err
	}
	if !character.Status.AllowsEconomyChanges() {
		return RSVP{}, chardomain.ErrStatusDisallowsOp
	}

	now := s.clock().UTC()
	r := RSVP{
		EventID:     input.EventID,
		CharacterID: input.CharacterID,
		Status:      status,
		ExtraXP:     input.ExtraXP,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	paid := 0
	existing, err := s.store.GetRSVP(ctx, input.EventID, input.CharacterID)
	switch {
	case err == nil:
		paid = existing.ExtraXP
		r.Attended = existing.Attended
		r.CreatedAt = existing.CreatedAt
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return RSVP{}, err
	}

	// ExtraXP tracks what has been paid for. Unpaid extra XP is never
	// recorded, paid extra XP is never lowered, and nothing changes after
	// attendance has been marked.
	if status != RSVPGoing || r.Attended || r.ExtraXP < paid {
		r.ExtraXP = paid
	}
	charge := (r.ExtraXP - paid) * CandlesPerExtraXP

	reason := fmt.Sprintf("extra xp for event %s", input.EventID)
	if err := s.store.PutRSVPCharging(ctx, r, character.UserID, charge, reason); err != nil {
		return RSVP{}, err
	}
	return r, nil
}

// MarkAttendance records that a character attended and pays out the event
// awards: base XP plus any pre-purchased extra XP to the character, candles
// to the owning user. Marking twice is a no-op for the awards.
func (s *Service) MarkAttendance(ctx context.Context, eventID, characterID string) (RSVP, error) {
	e, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return RSVP{}, err
	}
	r, err := s.store.GetRSVP(ctx, eventID, characterID)
	if err != nil {
		return RSVP{}, err
	}
	if r.Attended {
		return r, nil
	}

	character, err := s.characters.GetCharacter(ctx, characterID)
	if err != nil {
		return RSVP{}, err
	}

	award := e.XPAward + r.ExtraXP
	if award > 0 {
		reason := fmt.Sprintf("attendance at %s", e.Name)
		if _, err := s.awarder.AwardExperience(ctx, characterID, award, reason); err != nil {
			return RSVP{}, err
		}
	}
	if e.CandleAward > 0 {
		reason := fmt.Sprintf("attendance at %s", e.Name)
		if err := s.candles.GrantCandles(ctx, character.UserID, e.CandleAward, reason); err != nil {
			return RSVP{}, err
		}
	}

	r.Attended = true
	r.UpdatedAt = s.clock().UTC()
	if err := s.store.PutRSVP(ctx, r); err != nil {
		return RSVP{}, fmt.Errorf("persist attendance: %w", err)
	}
	return r, nil
}
