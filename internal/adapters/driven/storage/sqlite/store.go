package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/guttenberg/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/guttenberg/internal/core/domain"
	"github.com/custodia-labs/guttenberg/internal/core/ports/driven"
)

// DatabaseName is the file name of the database inside the data directory.
const DatabaseName = "guttenberg.db"

// Store is a SQLite-based storage that hands out the store interfaces
// through wrapper types sharing one connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.guttenberg/data/guttenberg.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".guttenberg", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseName)

	// WAL lets the listener and a one-off CLI command share the file
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FeedbackStore returns a FeedbackStore interface backed by this store.
func (s *Store) FeedbackStore() driven.FeedbackStore {
	return &feedbackStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_feedback.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Feedback Store ====================

// feedbackStore implements driven.FeedbackStore.
type feedbackStore struct {
	store *Store
}

var _ driven.FeedbackStore = (*feedbackStore)(nil)

// Save stores a verdict. A verdict with an existing ID replaces it.
func (s *feedbackStore) Save(ctx context.Context, fb domain.Feedback) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO feedback (id, answer_id, verdict, reporter, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			answer_id = excluded.answer_id,
			verdict = excluded.verdict,
			reporter = excluded.reporter,
			created_at = excluded.created_at
	`, fb.ID, fb.AnswerID, string(fb.Verdict), fb.Reporter, fb.CreatedAt.UnixNano())

	if err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}
	return nil
}

// ListByAnswer returns all verdicts for an answer, oldest first.
func (s *feedbackStore) ListByAnswer(ctx context.Context, answerID int) ([]domain.Feedback, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, answer_id, verdict, reporter, created_at
		FROM feedback WHERE answer_id = ?
		ORDER BY created_at, rowid
	`, answerID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// List returns every stored verdict, oldest first.
func (s *feedbackStore) List(ctx context.Context) ([]domain.Feedback, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, answer_id, verdict, reporter, created_at
		FROM feedback ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// scanFeedback scans all rows into feedback values.
func scanFeedback(rows *sql.Rows) ([]domain.Feedback, error) {
	result := make([]domain.Feedback, 0)
	for rows.Next() {
		var (
			fb        domain.Feedback
			verdict   string
			createdAt int64
		)
		if err := rows.Scan(&fb.ID, &fb.AnswerID, &verdict, &fb.Reporter, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		fb.Verdict = domain.Verdict(verdict)
		fb.CreatedAt = time.Unix(0, createdAt).UTC()
		result = append(result, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return result, nil
}

// IsConstraintError reports whether err came from a failed CHECK or
// NOT NULL constraint, e.g. an unknown verdict.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var target interface{ Code() int }
	if errors.As(err, &target) {
		// SQLITE_CONSTRAINT and its extended codes share the low byte.
		return target.Code()&0xff == 19
	}
	return strings.Contains(err.Error(), "constraint failed")
}
