package database

import (
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	tmpFile := "test_database.db"
	defer os.Remove(tmpFile)

	db, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
	if db.Driver() != "sqlite" {
		t.Errorf("Driver = %q, want sqlite", db.Driver())
	}
}

func TestInitialize(t *testing.T) {
	tmpFile := "test_init.db"
	defer os.Remove(tmpFile)

	db, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	// Verify tables were created
	tables := []string{
		"profiles",
		"tasks",
		"habits",
		"habit_entries",
		"health_metrics",
		"finance_metrics",
	}

	for _, table := range tables {
		var name string
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		if err := db.QueryRow(query, table).Scan(&name); err != nil {
			t.Errorf("Table %s was not created: %v", table, err)
		}
	}
}

func TestInitialize_Indexes(t *testing.T) {
	tmpFile := "test_indexes.db"
	defer os.Remove(tmpFile)

	db, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	indexes := []string{
		"idx_tasks_user_status",
		"idx_habits_user_active",
		"idx_entries_habit_date",
		"idx_health_user_date",
		"idx_finance_user_date",
	}

	for _, index := range indexes {
		var name string
		query := "SELECT name FROM sqlite_master WHERE type='index' AND name=?"
		if err := db.QueryRow(query, index).Scan(&name); err != nil {
			t.Errorf("Index %s was not created: %v", index, err)
		}
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	tmpFile := "test_idempotent.db"
	defer os.Remove(tmpFile)

	db, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	// Initialize multiple times - should not error
	for i := 0; i < 3; i++ {
		if err := db.Initialize(); err != nil {
			t.Fatalf("Initialization %d failed: %v", i+1, err)
		}
	}
}

func TestInsertAndQueryRoundTrip(t *testing.T) {
	tmpFile := "test_roundtrip.db"
	defer os.Remove(tmpFile)

	db, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	_, err = db.Exec(`INSERT INTO habits (id, user_id, name) VALUES (?, ?, ?)`,
		"h1", "u1", "morning run")
	if err != nil {
		t.Fatalf("Failed to insert habit: %v", err)
	}

	_, err = db.Exec(`INSERT INTO habit_entries (id, habit_id, user_id, logged_date, value) VALUES (?, ?, ?, ?, ?)`,
		"e1", "h1", "u1", "2026-03-15", 1)
	if err != nil {
		t.Fatalf("Failed to insert habit entry: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM habit_entries WHERE habit_id = 'h1'").Scan(&count); err != nil {
		t.Fatalf("Failed to query entries: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry, got %d", count)
	}
}
