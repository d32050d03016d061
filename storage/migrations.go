package storage

import (
	"embed"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"
)

// The users and movies schema travels inside the binary; goose records the
// applied version in the database file itself.
//
//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

func prepareGoose() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %v", err)
	}

	return nil
}

// MigrateUp applies any pending schema migrations.
func (s *SQLiteStorage) MigrateUp() error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Up(s.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}
	log.Println("Movie shelf schema is up to date")
	return nil
}

// MigrateDown rolls back the most recent migration.
func (s *SQLiteStorage) MigrateDown() error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Down(s.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to rollback migration: %v", err)
	}
	log.Println("Rolled back one schema migration")
	return nil
}

// MigrationStatus prints the applied and pending state of each migration.
func (s *SQLiteStorage) MigrationStatus() error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Status(s.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to get migration status: %v", err)
	}
	return nil
}

// SchemaVersion reports the migration version recorded for this database.
func (s *SQLiteStorage) SchemaVersion() (int64, error) {
	if err := prepareGoose(); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersion(s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get database version: %v", err)
	}
	return version, nil
}

// ResetDatabase rolls every migration back and reapplies them, dropping all
// stored users and movies.
func (s *SQLiteStorage) ResetDatabase() error {
	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Reset(s.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to reset database: %v", err)
	}
	if err := goose.Up(s.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to reapply migrations: %v", err)
	}
	log.Println("Database reset completed")
	return nil
}
