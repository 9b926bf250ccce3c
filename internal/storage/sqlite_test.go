package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

// newTestDB creates an in-memory SQLite database with migrations applied.
// The database is closed when the test completes.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(newTestDB(t))
}

func TestOpenDatabase_InMemory(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase(:memory:) error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, err := OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("OpenDatabase(:memory:) error: %v", err)
	}
	store := NewStore(db)

	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := store.GetOption(context.Background(), "cwc_headline"); err == nil {
		t.Error("GetOption() after Close succeeded, want error")
	}
}

func TestOpenDatabase_CreatesDirectoryAndFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deep", "test.db")

	db, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase(%q) error: %v", dbPath, err)
	}
	defer db.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file not created at %q: %v", dbPath, err)
	}
}

func TestRunMigrations_CreatesOptionsTable(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"options", "schema_migrations"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("second RunMigrations error: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("counting migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 migration record, got %d", count)
	}
}

func TestParseVersion(t *testing.T) {
	tests := map[string]int{
		"001_options.sql": 1,
		"012_more.sql":    12,
		"readme.sql":      0,
		"x_options.sql":   0,
	}
	for in, want := range tests {
		if got := parseVersion(in); got != want {
			t.Errorf("parseVersion(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // "2006-01-02 15:04:05" layout, or "zero"
	}{
		{name: "sqlite format", input: "2025-01-15 10:30:00", want: "2025-01-15 10:30:00"},
		{name: "RFC3339", input: "2025-01-15T10:30:00Z", want: "2025-01-15 10:30:00"},
		{name: "invalid", input: "not-a-date", want: "zero"},
		{name: "empty", input: "", want: "zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTime(tt.input)
			if tt.want == "zero" {
				if !got.IsZero() {
					t.Errorf("parseTime(%q) = %v, want zero time", tt.input, got)
				}
				return
			}
			if s := got.Format("2006-01-02 15:04:05"); s != tt.want {
				t.Errorf("parseTime(%q) = %q, want %q", tt.input, s, tt.want)
			}
		})
	}
}
