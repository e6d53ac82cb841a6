package database

import (
	"path/filepath"
	"testing"
)

func TestOpen_SQLite(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "layouts.db")
	db, err := Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("MaxOpenConnections = %d, want 1", got)
	}
	var one int
	if err := db.Get(&one, "SELECT 1"); err != nil || one != 1 {
		t.Fatalf("SELECT 1 = %d, %v", one, err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("postgres", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
