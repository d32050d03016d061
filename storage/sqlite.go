package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
}

type StorageInterface interface {
	Initialize() error
	ListUsers() ([]User, error)
	GetOrCreateUser(name string) (User, error)
	ListMovies(userID int64) ([]Movie, error)
	AddMovie(movie Movie) error
	DeleteMovie(title string, userID int64) error
	UpdateMovieRating(title string, rating float64, userID int64) error
	Close() error
}

func NewSQLiteStorage(dataPath string) *SQLiteStorage {
	dbPath := filepath.Join(dataPath, "movieshelf.db")
	return &SQLiteStorage{
		dbPath:   dbPath,
		dataPath: dataPath,
	}
}

func (s *SQLiteStorage) Initialize() error {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// Foreign keys are off by default in sqlite; movies reference users
	db, err := sql.Open("sqlite3", s.dbPath+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	s.db = db

	if err := s.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Printf("SQLite database initialized at: %s", s.dbPath)
	return nil
}

// ListUsers returns every stored user ordered by name.
func (s *SQLiteStorage) ListUsers() ([]User, error) {
	rows, err := s.db.Query(`SELECT id, name FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %v", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %v", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %v", err)
	}

	return users, nil
}

// GetOrCreateUser looks a user up by name, inserting it on first use.
// Repeat calls with the same name return the same identity.
func (s *SQLiteStorage) GetOrCreateUser(name string) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, fmt.Errorf("user name cannot be empty: %w", ErrValidation)
	}

	var user User
	err := s.db.QueryRow(`SELECT id, name FROM users WHERE name = ?`, name).
		Scan(&user.ID, &user.Name)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("failed to look up user: %v", err)
	}

	result, err := s.db.Exec(`INSERT INTO users (name) VALUES (?)`, name)
	if err != nil {
		return User{}, fmt.Errorf("failed to insert user: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("failed to read new user id: %v", err)
	}

	return User{ID: id, Name: name}, nil
}

// ListMovies returns the user's collection ordered by title.
func (s *SQLiteStorage) ListMovies(userID int64) ([]Movie, error) {
	query := `
	SELECT id, user_id, title, year, rating, poster_url
	FROM movies
	WHERE user_id = ?
	ORDER BY title COLLATE NOCASE
	`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %v", err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		var movie Movie
		err := rows.Scan(&movie.ID, &movie.UserID, &movie.Title, &movie.Year, &movie.Rating, &movie.PosterURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %v", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movies: %v", err)
	}

	return movies, nil
}

// AddMovie inserts one row into the user's collection. The same title may
// exist for different users but not twice for one user.
func (s *SQLiteStorage) AddMovie(movie Movie) error {
	if strings.TrimSpace(movie.Title) == "" {
		return fmt.Errorf("movie title cannot be empty: %w", ErrValidation)
	}

	query := `
	INSERT INTO movies (user_id, title, year, rating, poster_url)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query, movie.UserID, movie.Title, movie.Year, movie.Rating, movie.PosterURL)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movie %q: %w", movie.Title, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert movie: %v", err)
	}

	return nil
}

// DeleteMovie removes the row matching (title, user). Rows owned by other
// users are never touched.
func (s *SQLiteStorage) DeleteMovie(title string, userID int64) error {
	result, err := s.db.Exec(`DELETE FROM movies WHERE title = ? AND user_id = ?`, title, userID)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %v", err)
	}
	if affected == 0 {
		return fmt.Errorf("movie %q: %w", title, ErrNotFound)
	}

	return nil
}

// UpdateMovieRating changes only the rating of the row matching (title, user).
func (s *SQLiteStorage) UpdateMovieRating(title string, rating float64, userID int64) error {
	result, err := s.db.Exec(`UPDATE movies SET rating = ? WHERE title = ? AND user_id = ?`, rating, title, userID)
	if err != nil {
		return fmt.Errorf("failed to update movie: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %v", err)
	}
	if affected == 0 {
		return fmt.Errorf("movie %q: %w", title, ErrNotFound)
	}

	return nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		db, err := sql.Open("sqlite3", s.dbPath+"?_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %v", err)
		}
		s.db = db
	}
	return s.db, nil
}

func (s *SQLiteStorage) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	var users int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&users)
	if err != nil {
		return nil, fmt.Errorf("failed to get users count: %v", err)
	}
	stats["users"] = users

	var movies int
	err = s.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&movies)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies count: %v", err)
	}
	stats["movies"] = movies

	return stats, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
