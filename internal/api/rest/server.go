// Package rest exposes the HTTP API: authentication, reference data,
// characters and their purchases, chapters, events, and settings.
package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/candlewick-games/candlewick/internal/account"
	"github.com/candlewick-games/candlewick/internal/achievement"
	charservice "github.com/candlewick-games/candlewick/internal/character/service"
	"github.com/candlewick-games/candlewick/internal/chapter"
	"github.com/candlewick-games/candlewick/internal/event"
	"github.com/candlewick-games/candlewick/internal/reference"
	"github.com/candlewick-games/candlewick/internal/storage/sqlite"
)

// ChapterStore persists chapters.
type ChapterStore interface {
	PutChapter(ctx context.Context, c chapter.Chapter) error
	GetChapter(ctx context.Context, chapterID string) (chapter.Chapter, error)
	ListChapters(ctx context.Context) ([]chapter.Chapter, error)
}

// ReferenceAdminStore persists reference catalog writes.
type ReferenceAdminStore interface {
	reference.Source
	PutHeritage(ctx context.Context, h reference.Heritage) error
	PutCulture(ctx context.Context, c reference.Culture) error
	PutArchetype(ctx context.Context, a reference.Archetype) error
	PutSkill(ctx context.Context, sk reference.Skill) error
}

// SettingsStore persists admin-tunable settings.
type SettingsStore interface {
	PutRarityThresholds(ctx context.Context, t achievement.RarityThresholds) error
	RarityThresholds(ctx context.Context) (achievement.RarityThresholds, error)
}

// CandleStore reads candle balances and ledgers and records admin grants.
type CandleStore interface {
	CandleBalance(ctx context.Context, userID string) (int, error)
	CandleTransactions(ctx context.Context, userID string) ([]event.CandleTransaction, error)
	GrantCandles(ctx context.Context, userID string, amount int, reason string) error
}

// LedgerReader reads character experience ledgers.
type LedgerReader interface {
	ExperienceEntries(ctx context.Context, characterID string) ([]sqlite.ExperienceEntry, error)
}

// Server wires the HTTP routes to the application services.
type Server struct {
	accounts   *account.Service
	characters *charservice.Service
	events     *event.Service
	chapters   ChapterStore
	reference  *reference.Repository
	refStore   ReferenceAdminStore
	settings   SettingsStore
	candles    CandleStore
	ledger     LedgerReader
}

// Deps bundles everything the server needs.
type Deps struct {
	Accounts   *account.Service
	Characters *charservice.Service
	Events     *event.Service
	Chapters   ChapterStore
	Reference  *reference.Repository
	RefStore   ReferenceAdminStore
	Settings   SettingsStore
	Candles    CandleStore
	Ledger     LedgerReader
}

// NewServer creates an HTTP server over the given dependencies.
func NewServer(deps Deps) *Server {
	return &Server{
		accounts:   deps.Accounts,
		characters: deps.Characters,
		events:     deps.Events,
		chapters:   deps.Chapters,
		reference:  deps.Reference,
		refStore:   deps.RefStore,
		settings:   deps.Settings,
		candles:    deps.Candles,
		ledger:     deps.Ledger,
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	api.HandleFunc("/reference", s.handleReferenceCatalog).Methods(http.MethodGet)
	api.HandleFunc("/chapters", s.handleListChapters).Methods(http.MethodGet)
	api.HandleFunc("/chapters/{id}", s.handleGetChapter).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleListEvents).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", s.handleGetEvent).Methods(http.MethodGet)
	api.HandleFunc("/settings/rarity-thresholds", s.handleGetRarityThresholds).Methods(http.MethodGet)

	// Routes below require a session token.
	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireSession)

	authed.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/me/candles", s.handleMyCandles).Methods(http.MethodGet)

	authed.HandleFunc("/characters", s.handleCreateCharacter).Methods(http.MethodPost)
	authed.HandleFunc("/characters", s.handleListMyCharacters).Methods(http.MethodGet)
	authed.HandleFunc("/characters/{id}", s.handleGetCharacter).Methods(http.MethodGet)
	authed.HandleFunc("/characters/{id}/summary", s.handleCharacterSummary).Methods(http.MethodGet)
	authed.HandleFunc("/characters/{id}/ledger", s.handleCharacterLedger).Methods(http.MethodGet)
	authed.HandleFunc("/characters/{id}/skills", s.handlePurchaseSkill).Methods(http.MethodPost)
	authed.HandleFunc("/characters/{id}/attributes", s.handleIncreaseAttribute).Methods(http.MethodPost)
	authed.HandleFunc("/characters/{id}/second-archetype", s.handlePurchaseSecondArchetype).Methods(http.MethodPost)
	authed.HandleFunc("/characters/{id}/status", s.handleChangeStatus).Methods(http.MethodPost)

	authed.HandleFunc("/events/{id}/rsvp", s.handleRSVP).Methods(http.MethodPost)

	// Admin-only management surface.
	admin := authed.NewRoute().Subrouter()
	admin.Use(s.requireAdmin)

	admin.HandleFunc("/chapters", s.handleCreateChapter).Methods(http.MethodPost)
	admin.HandleFunc("/events", s.handleCreateEvent).Methods(http.MethodPost)
	admin.HandleFunc("/events/{id}/attendance", s.handleMarkAttendance).Methods(http.MethodPost)
	admin.HandleFunc("/characters/{id}/awards", s.handleAwardExperience).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}/candles", s.handleGrantCandles).Methods(http.MethodPost)
	admin.HandleFunc("/reference/heritages", s.handlePutHeritage).Methods(http.MethodPut)
	admin.HandleFunc("/reference/cultures", s.handlePutCulture).Methods(http.MethodPut)
	admin.HandleFunc("/reference/archetypes", s.handlePutArchetype).Methods(http.MethodPut)
	admin.HandleFunc("/reference/skills", s.handlePutSkill).Methods(http.MethodPut)
	admin.HandleFunc("/settings/rarity-thresholds", s.handlePutRarityThresholds).Methods(http.MethodPut)

	return requestLogger(router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
