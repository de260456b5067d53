package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM activity_log").Scan(&count); err != nil {
		t.Errorf("table activity_log: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty activity_log, got %d rows", count)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "opsdash.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	if d.Path() != path {
		t.Errorf("Path() = %q, want %q", d.Path(), path)
	}
	if _, err := d.Exec(`INSERT INTO activity_log (id, timestamp, source, level, text) VALUES ('a', datetime('now'), 'system', 'info', 'boot')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestSchemaRejectsUnknownLevel(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	_, err = d.Exec(`INSERT INTO activity_log (id, timestamp, source, level, text) VALUES ('a', datetime('now'), 'system', 'loud', 'x')`)
	if err == nil {
		t.Error("expected CHECK constraint failure for unknown level")
	}
}
