// Package server wires configuration, storage, and the HTTP API into
// the genealogy serving process.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	platformcmd "github.com/louisbranch/arbor.space/internal/platform/cmd"
	"github.com/louisbranch/arbor.space/internal/platform/timeouts"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/api"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/app"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage/sqlite"
	"github.com/louisbranch/arbor.space/internal/session"
)

const defaultHTTPAddr = "localhost:8080"

// Config holds the server command configuration.
type Config struct {
	HTTPAddr string `env:"ARBOR_SPACE_HTTP_ADDR"`
	DBPath   string `env:"ARBOR_SPACE_DB_PATH"`
}

// ParseConfig loads env defaults and parses flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "genealogy.db")
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the genealogy HTTP server and blocks until the context
// is canceled or the listener fails.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceServer, func(ctx context.Context) error {
		sessionCfg, err := session.LoadConfigFromEnv(time.Now)
		if err != nil {
			return fmt.Errorf("load session config: %w", err)
		}
		verifier, err := session.NewVerifier(sessionCfg)
		if err != nil {
			return fmt.Errorf("init session verifier: %w", err)
		}

		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open genealogy store: %w", err)
		}
		defer func() { _ = store.Close() }()

		handler := api.New(app.New(store), verifier)
		server := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("genealogy server listening addr=%s db=%s", cfg.HTTPAddr, cfg.DBPath)
			errCh <- server.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			return nil
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve http: %w", err)
			}
			return nil
		}
	})
}
