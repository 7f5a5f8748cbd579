package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(&levelRouter{
		stdout: slog.NewTextHandler(&stdout, nil),
		stderr: slog.NewTextHandler(&stderr, nil),
	}).With("component", "test")

	logger.Debug("hidden")
	logger.Info("listed")
	logger.Warn("slow publish")
	logger.Error("failed")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug record should be dropped")
	}
	if !strings.Contains(stdout.String(), "listed") || !strings.Contains(stdout.String(), "slow publish") {
		t.Errorf("expected info and warn on stdout, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "failed") {
		t.Error("error record should not go to stdout")
	}
	if !strings.Contains(stderr.String(), "failed") || !strings.Contains(stderr.String(), "component=test") {
		t.Errorf("expected error with attrs on stderr, got %q", stderr.String())
	}
}

func TestLoadConfigFlagOverride(t *testing.T) {
	t.Setenv("DB_PATH", "from-env.db")

	cfg, err := loadConfig(commonFlags{dbPath: "from-flag.db"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DB.Path != "from-flag.db" {
		t.Errorf("expected flag to win, got %q", cfg.DB.Path)
	}

	cfg, err = loadConfig(commonFlags{})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DB.Path != "from-env.db" {
		t.Errorf("expected env value, got %q", cfg.DB.Path)
	}
}
