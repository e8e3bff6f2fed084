/*
Package sqlite provides SQLite-backed persistence for agency settings.

PURPOSE:
  Stores each agency's cancellation-policy document. The document lives in
  a single text column - the historical field that held free-text policy
  prose before the structured era - so the codec package's legacy decoder
  handles whatever this store returns.

SAVE SEMANTICS:
  The policy document is replaced wholesale on save (last-writer-wins).
  There is no partial mutation and no version history; a caller wanting
  concurrent-edit conflict resolution must layer optimistic versioning on
  top.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/agency.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.SavePolicyDoc(ctx, "agency-1", doc)
  doc, ok, err := store.GetPolicyDoc(ctx, "agency-1")

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - codec: Decodes the stored document (JSON or legacy free text)
  - api: HTTP surface over this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists agency settings using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agency_settings (
		agency_id   TEXT PRIMARY KEY,
		policy_doc  TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMP NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POLICY DOCUMENT
// =============================================================================

// SavePolicyDoc atomically replaces the agency's policy document.
func (s *Store) SavePolicyDoc(ctx context.Context, agencyID, doc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agency_settings (agency_id, policy_doc, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(agency_id) DO UPDATE SET
			policy_doc = excluded.policy_doc,
			updated_at = excluded.updated_at
	`, agencyID, doc, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save policy document: %w", err)
	}
	return nil
}

// GetPolicyDoc returns the agency's policy document. The second return
// value is false when the agency has no settings record.
func (s *Store) GetPolicyDoc(ctx context.Context, agencyID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT policy_doc FROM agency_settings WHERE agency_id = ?`, agencyID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get policy document: %w", err)
	}
	return doc, true, nil
}

// ListAgencies returns the IDs of every agency with a settings record.
func (s *Store) ListAgencies(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT agency_id FROM agency_settings ORDER BY agency_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list agencies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
