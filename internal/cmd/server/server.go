// Package server parses server command flags and starts the HTTP runtime.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/candlewick-games/candlewick/internal/account"
	"github.com/candlewick-games/candlewick/internal/api/rest"
	charservice "github.com/candlewick-games/candlewick/internal/character/service"
	"github.com/candlewick-games/candlewick/internal/event"
	"github.com/candlewick-games/candlewick/internal/jobs"
	entrypoint "github.com/candlewick-games/candlewick/internal/platform/cmd"
	"github.com/candlewick-games/candlewick/internal/reference"
	"github.com/candlewick-games/candlewick/internal/storage/sqlite"
)

// Config holds server command configuration.
type Config struct {
	Addr        string        `env:"CANDLEWICK_ADDR" envDefault:":8080"`
	StoragePath string        `env:"CANDLEWICK_STORAGE_PATH" envDefault:"candlewick.db"`
	SessionKey  string        `env:"CANDLEWICK_SESSION_KEY"`
	SessionTTL  time.Duration `env:"CANDLEWICK_SESSION_TTL" envDefault:"168h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address")
	fs.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "Path to the SQLite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the HTTP API and the nightly job schedule, blocking until ctx is
// canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close storage: %v", err)
			}
		}()

		ref := reference.NewRepository()
		if err := ref.Reload(ctx, store); err != nil {
			return fmt.Errorf("load reference data: %w", err)
		}

		tokens, err := account.NewTokenIssuer([]byte(cfg.SessionKey), cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("session tokens: %w", err)
		}

		accounts := account.NewService(store, tokens)
		characters := charservice.NewService(store, ref)
		// The character service is the awarder so attendance payouts respect
		// the lifecycle gate: a retired character cannot receive event XP.
		events := event.NewService(store, store, store, characters)

		runner, err := jobs.New(store, ref, store)
		if err != nil {
			return fmt.Errorf("create jobs: %w", err)
		}
		if err := runner.Start(); err != nil {
			return fmt.Errorf("start jobs: %w", err)
		}
		defer func() {
			if err := runner.Stop(); err != nil {
				log.Printf("stop jobs: %v", err)
			}
		}()

		api := rest.NewServer(rest.Deps{
			Accounts:   accounts,
			Characters: characters,
			Events:     events,
			Chapters:   store,
			Reference:  ref,
			RefStore:   store,
			Settings:   store,
			Candles:    store,
			Ledger:     store,
		})

		httpServer := &http.Server{
			Addr:         cfg.Addr,
			Handler:      api.Handler(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("listening on %s", cfg.Addr)
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	})
}
