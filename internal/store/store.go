// Package store persists plan inputs between sessions. It is a plain
// key-value layer over SQLite: the projection core never calls it, the CLI
// hands it values to keep and asks for them back on the next run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ukplan/drawdown/internal/domain"
)

const (
	keyAccounts    = "accounts"
	keyHousehold   = "household"
	keyAssumptions = "assumptions"
)

// ErrNotFound is returned when a key has never been saved.
var ErrNotFound = errors.New("not found")

// Store is a SQLite-backed key-value store for plan state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS plan_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plan_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string, out any) error {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM plan_state WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SaveAccounts persists the account list.
func (s *Store) SaveAccounts(ctx context.Context, accounts []domain.Account) error {
	return s.put(ctx, keyAccounts, accounts)
}

// LoadAccounts returns the saved account list, or ErrNotFound on first run.
func (s *Store) LoadAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := s.get(ctx, keyAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SaveHousehold persists the household profile.
func (s *Store) SaveHousehold(ctx context.Context, household domain.HouseholdProfile) error {
	return s.put(ctx, keyHousehold, household)
}

// LoadHousehold returns the saved household, or ErrNotFound on first run.
func (s *Store) LoadHousehold(ctx context.Context) (domain.HouseholdProfile, error) {
	var household domain.HouseholdProfile
	if err := s.get(ctx, keyHousehold, &household); err != nil {
		return domain.HouseholdProfile{}, err
	}
	return household, nil
}

// SaveAssumptions persists the assumptions.
func (s *Store) SaveAssumptions(ctx context.Context, assumptions domain.Assumptions) error {
	return s.put(ctx, keyAssumptions, assumptions)
}

// LoadAssumptions returns the saved assumptions, or ErrNotFound on first run.
func (s *Store) LoadAssumptions(ctx context.Context) (domain.Assumptions, error) {
	var assumptions domain.Assumptions
	if err := s.get(ctx, keyAssumptions, &assumptions); err != nil {
		return domain.Assumptions{}, err
	}
	return assumptions, nil
}
