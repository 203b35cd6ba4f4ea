package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	_ "github.com/jackc/pgx/v5/stdlib" // postgresql driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/go-shade/shade/app/enum"
)

// DBType identifies the database backend.
type DBType int

// supported database backends
const (
	DBTypeSQLite DBType = iota
	DBTypePostgres
)

// RWLocker is a subset of sync.RWMutex, allowing a no-op implementation for
// backends with proper concurrent writers.
type RWLocker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// noopLocker does nothing; postgres handles concurrency server-side.
type noopLocker struct{}

func (noopLocker) Lock()    {}
func (noopLocker) Unlock()  {}
func (noopLocker) RLock()   {}
func (noopLocker) RUnlock() {}

// Store implements preference storage using SQLite or PostgreSQL.
type Store struct {
	db     *sqlx.DB
	dbType DBType
	mu     RWLocker
}

// New creates a new Store with the given database URL.
// Automatically detects database type from URL:
// - postgres:// or postgresql:// -> PostgreSQL
// - everything else -> SQLite
func New(dbURL string) (*Store, error) {
	dbType := detectDBType(dbURL)

	var db *sqlx.DB
	var err error
	var locker RWLocker

	switch dbType {
	case DBTypePostgres:
		db, err = connectPostgres(dbURL)
		locker = noopLocker{}
	default:
		db, err = connectSQLite(dbURL)
		locker = &sync.RWMutex{}
	}

	if err != nil {
		return nil, err
	}

	s := &Store{db: db, dbType: dbType, mu: locker}

	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[DEBUG] initialized %s preference store", s.dbTypeName())
	return s, nil
}

// detectDBType determines database type from URL.
func detectDBType(url string) DBType {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return DBTypePostgres
	}
	return DBTypeSQLite
}

// connectSQLite establishes SQLite connection with pragmas.
func connectSQLite(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	// set pragmas for performance and reliability
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=1000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil { //nolint:noctx // init-time, no context available
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	// limit connections for SQLite (single writer)
	db.SetMaxOpenConns(1)

	return db, nil
}

// connectPostgres establishes PostgreSQL connection.
func connectPostgres(dbURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// set reasonable connection pool defaults
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// createSchema creates the prefs table if it doesn't exist.
func (s *Store) createSchema() error {
	var schema string
	switch s.dbType {
	case DBTypePostgres:
		schema = `
			CREATE TABLE IF NOT EXISTS prefs (
				profile TEXT PRIMARY KEY,
				theme TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT NOW(),
				updated_at TIMESTAMP DEFAULT NOW()
			)`
	default:
		schema = `
			CREATE TABLE IF NOT EXISTS prefs (
				profile TEXT PRIMARY KEY,
				theme TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`
	}
	if _, err := s.db.Exec(schema); err != nil { //nolint:noctx // init-time, no context available
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// dbTypeName returns human-readable database type name.
func (s *Store) dbTypeName() string {
	switch s.dbType {
	case DBTypePostgres:
		return "postgres"
	default:
		return "sqlite"
	}
}

// themeValid reports whether v is inside the persistable two-value domain.
func themeValid(v string) bool {
	return v == enum.ThemeLight.String() || v == enum.ThemeDark.String()
}

// Get retrieves the stored theme for the given profile.
// Returns ErrNotFound if no preference is stored. A value outside the
// light/dark domain (corrupted externally) is treated as absent.
func (s *Store) Get(profile string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	query := s.adoptQuery("SELECT theme FROM prefs WHERE profile = ?")
	err := s.db.Get(&value, query, profile)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference for %q: %w", profile, err)
	}
	if !themeValid(value) {
		log.Printf("[WARN] ignoring corrupted theme %q for profile %s", value, profile)
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores the theme for the given profile, creating or updating the row.
// Values outside the light/dark domain are rejected with ErrInvalidTheme.
func (s *Store) Set(profile, theme string) error {
	if !themeValid(theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	query := s.adoptQuery(`
		INSERT INTO prefs (profile, theme, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET theme = excluded.theme, updated_at = excluded.updated_at`)
	if _, err := s.db.Exec(query, profile, theme, now, now); err != nil { //nolint:noctx // store interface doesn't expose context
		return fmt.Errorf("failed to set preference for %q: %w", profile, err)
	}
	return nil
}

// Delete removes the stored preference for the profile.
// Returns ErrNotFound if nothing is stored.
func (s *Store) Delete(profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := s.adoptQuery("DELETE FROM prefs WHERE profile = ?")
	result, err := s.db.Exec(query, profile) //nolint:noctx // store interface doesn't expose context
	if err != nil {
		return fmt.Errorf("failed to delete preference for %q: %w", profile, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all stored preferences, ordered by updated_at descending.
func (s *Store) List() ([]PrefInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var prefs []PrefInfo
	query := s.adoptQuery(`SELECT profile, theme, created_at, updated_at FROM prefs ORDER BY updated_at DESC`)
	if err := s.db.Select(&prefs, query); err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return prefs, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// adoptQuery converts SQLite query syntax to PostgreSQL:
// - placeholders: ? → $1, $2, ...
// - case: excluded. → EXCLUDED.
func (s *Store) adoptQuery(query string) string {
	if s.dbType != DBTypePostgres {
		return query
	}

	query = strings.ReplaceAll(query, "excluded.", "EXCLUDED.")

	// placeholder conversion
	result := make([]byte, 0, len(query)+10)
	paramNum := 1
	for i := range len(query) {
		if query[i] != '?' {
			result = append(result, query[i])
			continue
		}
		result = append(result, '$')
		result = append(result, strconv.Itoa(paramNum)...)
		paramNum++
	}
	return string(result)
}
