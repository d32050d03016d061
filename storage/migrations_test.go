package storage

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	storage := newTestStorage(t)

	version, err := storage.SchemaVersion()
	if err != nil {
		t.Fatalf("Failed to get schema version: %v", err)
	}

	if version < 2 {
		t.Errorf("Expected schema version >= 2, got %d", version)
	}

	db, err := storage.GetDB()
	if err != nil {
		t.Fatalf("Failed to get database: %v", err)
	}

	// Both tables must exist after Up
	for _, table := range []string{"users", "movies"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Fatalf("Table %q was not created: %v", table, err)
		}
	}

	// Applying migrations again should be idempotent
	if err := storage.MigrateUp(); err != nil {
		t.Fatalf("Re-applying migrations failed: %v", err)
	}

	again, err := storage.SchemaVersion()
	if err != nil {
		t.Fatalf("Failed to get schema version: %v", err)
	}
	if again != version {
		t.Errorf("Expected version %d after idempotent Up, got %d", version, again)
	}
}

func TestResetDatabase(t *testing.T) {
	storage := newTestStorage(t)

	user, err := storage.GetOrCreateUser("Alice")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if err := storage.AddMovie(Movie{UserID: user.ID, Title: "Inception", Year: 2010, Rating: 8.8}); err != nil {
		t.Fatalf("Failed to add movie: %v", err)
	}

	if err := storage.ResetDatabase(); err != nil {
		t.Fatalf("Failed to reset database: %v", err)
	}

	// Schema is back in place, data is gone
	users, err := storage.ListUsers()
	if err != nil {
		t.Fatalf("Failed to list users after reset: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected no users after reset, got %d", len(users))
	}

	if _, err := storage.GetOrCreateUser("Bob"); err != nil {
		t.Errorf("Expected a usable schema after reset: %v", err)
	}
}

func TestMovieUniquenessConstraint(t *testing.T) {
	storage := newTestStorage(t)

	user, err := storage.GetOrCreateUser("Alice")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	db, err := storage.GetDB()
	if err != nil {
		t.Fatalf("Failed to get database: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO movies (user_id, title, year, rating) VALUES (?, 'Dune', 2021, 8.0)`, user.ID); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	_, err = db.Exec(`INSERT INTO movies (user_id, title, year, rating) VALUES (?, 'Dune', 2021, 8.0)`, user.ID)
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation on duplicate (user_id, title), got %v", err)
	}
}
