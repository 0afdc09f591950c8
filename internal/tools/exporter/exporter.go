// Package exporter implements the tree export CLI. It reads a genealogy
// database directly and writes a full owner-scope export document, which
// makes it suitable for backups and operator tooling.
package exporter

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/app"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/export"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage/sqlite"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/visibility"
)

// Config holds the exporter CLI configuration.
type Config struct {
	DBPath         string
	TreeID         string
	Format         string
	Output         string
	IncludeNotes   bool
	IncludePrivate bool
	IncludeSources bool
}

// ParseConfig parses the exporter command-line flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DBPath, "db-path", "", "SQLite database path")
	fs.StringVar(&cfg.TreeID, "tree", "", "tree ID to export")
	fs.StringVar(&cfg.Format, "format", "json", "export format (json, csv, gedcom)")
	fs.StringVar(&cfg.Output, "out", "", "output file (defaults to stdout)")
	fs.BoolVar(&cfg.IncludeNotes, "notes", false, "include notes in JSON exports")
	fs.BoolVar(&cfg.IncludePrivate, "private", false, "include private notes in JSON exports")
	fs.BoolVar(&cfg.IncludeSources, "sources", false, "include event sources in JSON exports")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("db-path is required")
	}
	if strings.TrimSpace(cfg.TreeID) == "" {
		return Config{}, errors.New("tree is required")
	}
	return cfg, nil
}

// Run exports the requested tree with the owner's full scope and writes
// the document to cfg.Output or out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	record, err := store.GetTree(ctx, cfg.TreeID)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", cfg.TreeID, err)
	}

	svc := app.New(store)
	result, err := svc.Export(ctx, record.ID, visibility.Viewer{UserID: record.OwnerID}, format, export.Options{
		IncludeNotes:   cfg.IncludeNotes,
		IncludePrivate: cfg.IncludePrivate,
		IncludeSources: cfg.IncludeSources,
	})
	if err != nil {
		return fmt.Errorf("export tree %s: %w", cfg.TreeID, err)
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, result.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", cfg.Output, err)
		}
		return nil
	}
	if _, err := out.Write(result.Data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
