// Package event holds events, RSVPs, attendance, and the candle currency
// awarded for showing up.
package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/candlewick-games/candlewick/internal/platform/errors"
	"github.com/candlewick-games/candlewick/internal/platform/id"
)

var (
	// ErrEmptyName indicates a missing event name.
	ErrEmptyName = apperrors.New(apperrors.CodeEventEmptyName, "event name is required")
	// ErrInvalidSchedule indicates an event ending before it starts.
	ErrInvalidSchedule = apperrors.New(apperrors.CodeEventInvalidSchedule, "event must end after it starts")
	// ErrInvalidAward indicates a negative XP or candle award.
	ErrInvalidAward = apperrors.New(apperrors.CodeEventInvalidAward, "event awards must be non-negative")
	// ErrInvalidRSVPStatus indicates an unrecognized RSVP status.
	ErrInvalidRSVPStatus = apperrors.New(apperrors.CodeEventInvalidRSVP, "rsvp status must be going or declined")
)

// Extra XP purchased with candles at RSVP time is capped per event so
// attendance stays the dominant XP source.
const (
	MaxExtraXP        = 5
	CandlesPerExtraXP = 1
)

// Event is a scheduled game happening within a chapter.
type Event struct {
	ID          string
	ChapterID   string
	Name        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	XPAward     int
	CandleAward int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateEventInput describes the metadata needed to create an event.
type CreateEventInput struct {
	ChapterID   string
	Name        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	XPAward     int
	CandleAward int
}

// CreateEvent creates a new event with a generated ID and timestamps.
func CreateEvent(input CreateEventInput, now func() time.Time, idGenerator func() (string, error)) (Event, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Event{}, ErrEmptyName
	}
	if !input.EndsAt.After(input.StartsAt) {
		return Event{}, ErrInvalidSchedule
	}
	if input.XPAward < 0 || input.CandleAward < 0 {
		return Event{}, ErrInvalidAward
	}

	eventID, err := idGenerator()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}

	createdAt := now().UTC()
	return Event{
		ID:          eventID,
		ChapterID:   strings.TrimSpace(input.ChapterID),
		Name:        input.Name,
		Description: strings.TrimSpace(input.Description),
		StartsAt:    input.StartsAt.UTC(),
		EndsAt:      input.EndsAt.UTC(),
		XPAward:     input.XPAward,
		CandleAward: input.CandleAward,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// RSVPStatus is a player's stated intention for an event.
type RSVPStatus string

const (
	// RSVPGoing marks intent to attend.
	RSVPGoing RSVPStatus = "going"
	// RSVPDeclined marks a pass on the event.
	RSVPDeclined RSVPStatus = "declined"
)

// ParseRSVPStatus validates a stored or submitted RSVP status.
func ParseRSVPStatus(value string) (RSVPStatus, error) {
	switch RSVPStatus(value) {
	case RSVPGoing, RSVPDeclined:
		return RSVPStatus(value), nil
	default:
		return "", ErrInvalidRSVPStatus
	}
}

// RSVP registers a character's attendance intention for an event, optionally
// with extra XP bought with candles.
type RSVP struct {
	EventID     string
	CharacterID string
	Status      RSVPStatus
	ExtraXP     int
	Attended    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CandleTransaction is one append-only entry in a user's candle ledger.
// Balances are derived by summing deltas, never stored.
type CandleTransaction struct {
	ID        string
	UserID    string
	Delta     int
	Reason    string
	CreatedAt time.Time
}

// Store persists events and RSVPs. PutRSVPCharging writes the RSVP and spends
// the user's candles in one transaction, failing both together when the
// balance cannot cover the charge.
type Store interface {
	PutEvent(ctx context.Context, e Event) error
	GetEvent(ctx context.Context, eventID string) (Event, error)
	ListEvents(ctx context.Context, chapterID string) ([]Event, error)
	PutRSVP(ctx context.Context, r RSVP) error
	PutRSVPCharging(ctx context.Context, r RSVP, userID string, candles int, reason string) error
	GetRSVP(ctx context.Context, eventID, characterID string) (RSVP, error)
	ListRSVPs(ctx context.Context, eventID string) ([]RSVP, error)
}

// CandleLedger records candle grants. Spends ride inside the RSVP write so
// the charge and the RSVP persist together.
type CandleLedger interface {
	GrantCandles(ctx context.Context, userID string, amount int, reason string) error
}
