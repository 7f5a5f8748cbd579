package db

import (
	"path/filepath"
	"testing"
)

func TestOpenFileAppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.sqlite3")

	database, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	var fk int
	if err := database.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("reading foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	var mode string
	if err := database.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("reading journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected journal_mode wal, got %q", mode)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := Migrate(database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_items_price'`,
	).Scan(&n)
	if err != nil {
		t.Fatalf("checking index: %v", err)
	}
	if n != 1 {
		t.Errorf("expected idx_items_price to exist once, got %d", n)
	}
}

func TestAvailabilityCheckConstraint(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO items (item_id, item_name, price, quantity, category, condition, available, date_listed)
		 VALUES ('x', 'Lamp', 10, 0, 'HOME', 'USED', 1, '2026-01-01')`,
	)
	if err == nil {
		t.Error("expected CHECK violation for available item with zero quantity")
	}
}

func TestCasefold(t *testing.T) {
	database := NewTestDB(t)

	tests := []struct {
		in   string
		want string
	}{
		{"iPhone Case", "iphone case"},
		{"ČAJNIK", "čajnik"},
		{"Straße", "straße"},
	}

	for _, tt := range tests {
		var got string
		if err := database.QueryRow(`SELECT casefold(?)`, tt.in).Scan(&got); err != nil {
			t.Fatalf("casefold(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("casefold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
