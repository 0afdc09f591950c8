package server

import (
	"flag"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != defaultHTTPAddr {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, defaultHTTPAddr)
	}
	if want := filepath.Join("data", "genealogy.db"); cfg.DBPath != want {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, want)
	}
}

func TestParseConfigFlagOverrides(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:9090", "-db-path", "/tmp/trees.db"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9090" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9090")
	}
	if cfg.DBPath != "/tmp/trees.db" {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, "/tmp/trees.db")
	}
}

func TestParseConfigEnvDefaults(t *testing.T) {
	t.Setenv("ARBOR_SPACE_HTTP_ADDR", "0.0.0.0:8181")
	t.Setenv("ARBOR_SPACE_DB_PATH", "/var/lib/arbor/genealogy.db")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:8181" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "0.0.0.0:8181")
	}
	if cfg.DBPath != "/var/lib/arbor/genealogy.db" {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, "/var/lib/arbor/genealogy.db")
	}
}
