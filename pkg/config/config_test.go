package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ListenAddr != ":6001" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.JournalMode != "WAL" {
		t.Errorf("JournalMode = %q", cfg.JournalMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	content := `
listen_addr: ":7777"
data_dir: "/tmp/dbs"
journal_mode: "DELETE"
logging:
  colors: false
  output_file: ""
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ListenAddr != ":7777" || cfg.DataDir != "/tmp/dbs" || cfg.JournalMode != "DELETE" {
		t.Fatalf("loaded %+v", cfg)
	}
	if cfg.Logging.Colors {
		t.Error("colors should be off")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte("listen_addrs: \":1\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ListenAddr = " "
	cfg.JournalMode = "BOGUS"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "listen_addr") || !strings.Contains(err.Error(), "journal_mode") {
		t.Fatalf("error should name every problem: %v", err)
	}
}
