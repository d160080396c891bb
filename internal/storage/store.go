package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SaveKey is the single storage key the state document lives under.
const SaveKey = "main_save"

// ResolveDBPath returns the save DB location: $MINDPALACE_DB if set,
// otherwise ~/.mindpalace.db.
func ResolveDBPath() (string, error) {
	if p := os.Getenv("MINDPALACE_DB"); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".mindpalace.db"), nil
}

// Open opens (and creates if missing) the SQLite database at the provided
// path and ensures the schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	stmt := `CREATE TABLE IF NOT EXISTS save_state (
		key TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Store owns the persisted state document. Persistence discipline is
// whole-document: mutate an in-memory copy, then Save it.
//
// Concurrent writers (two processes against the same DB) are resolved as
// last-write-wins: Save replaces the entire row and there is no optimistic
// version check. Single-writer use is the expected mode.
type Store struct {
	db        *sql.DB
	key       string
	skillKeys []string
	logger    *slog.Logger
}

func NewStore(db *sql.DB, skillKeys []string) *Store {
	return &Store{
		db:        db,
		key:       SaveKey,
		skillKeys: skillKeys,
		logger:    slog.Default(),
	}
}

// Load reads the persisted document. A missing row, unreadable JSON, or a
// version mismatch all yield a freshly built default document; none of these
// is surfaced as an error. Skill keys added since the save was written are
// backfilled at level 1 without touching existing progress.
func (s *Store) Load(ctx context.Context) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM save_state WHERE key = ?`, s.key)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return DefaultDocument(s.skillKeys), nil
		}
		return nil, fmt.Errorf("save load: %w", err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.logger.Warn("save unreadable, starting fresh", "error", err)
		return DefaultDocument(s.skillKeys), nil
	}
	if doc.Version != DocumentVersion {
		s.logger.Warn("save version mismatch, starting fresh",
			"have", doc.Version, "want", DocumentVersion)
		return DefaultDocument(s.skillKeys), nil
	}

	s.backfill(&doc)
	return &doc, nil
}

// Save serializes and persists the full document, replacing whatever was
// stored before.
func (s *Store) Save(ctx context.Context, doc *Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("save marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO save_state (key, doc, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET doc = excluded.doc, updated_at = CURRENT_TIMESTAMP
	`, s.key, string(raw))
	if err != nil {
		return fmt.Errorf("save write: %w", err)
	}
	return nil
}

// Reset replaces the document with defaults and persists them.
func (s *Store) Reset(ctx context.Context) (*Document, error) {
	doc := DefaultDocument(s.skillKeys)
	if err := s.Save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) backfill(doc *Document) {
	if doc.Skills == nil {
		doc.Skills = make(map[string]SkillState, len(s.skillKeys))
	}
	for _, k := range s.skillKeys {
		if _, ok := doc.Skills[k]; !ok {
			doc.Skills[k] = SkillState{Level: 1, XP: 0}
		}
	}
	if doc.Completions == nil {
		doc.Completions = map[string]CompletionRecord{}
	}
	if doc.Mastery == nil {
		doc.Mastery = map[string]MasteryRecord{}
	}
	if doc.Calendar == nil {
		doc.Calendar = map[string]CalendarDay{}
	}
	if doc.Palaces == nil {
		doc.Palaces = map[string]PalaceState{}
	}
	if doc.Achievements == nil {
		doc.Achievements = map[string]time.Time{}
	}
	if doc.Daily.Completed == nil {
		doc.Daily.Completed = map[string]time.Time{}
	}
	if doc.Settings.TimeBudgetSeconds <= 0 {
		doc.Settings.TimeBudgetSeconds = DefaultTimeBudgetSeconds
	}
}
