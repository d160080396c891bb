package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSkillKeys = []string{"variables", "slices", "maps"}

func newTestStore(t *testing.T) (*Store, *sql.DB, context.Context) {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewStore(db, testSkillKeys), db, ctx
}

func TestLoadMissingRowYieldsDefaults(t *testing.T) {
	store, _, ctx := newTestStore(t)

	doc, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, 1, doc.Player.Level)
	assert.Zero(t, doc.Player.TotalXP)
	assert.Len(t, doc.Skills, len(testSkillKeys))
	for _, k := range testSkillKeys {
		assert.Equal(t, SkillState{Level: 1}, doc.Skills[k])
	}
	assert.Equal(t, DefaultTimeBudgetSeconds, doc.Settings.TimeBudgetSeconds)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _, ctx := newTestStore(t)

	doc, err := store.Load(ctx)
	require.NoError(t, err)

	doc.Player.Name = "Joker"
	doc.Player.TotalXP = 420
	doc.Player.Level = 3
	doc.Skills["slices"] = SkillState{Level: 4, XP: 12}
	doc.Completions["slices-basics_v1"] = CompletionRecord{Grade: "S", XPEarned: 90, Difficulty: 2, SkillKey: "slices"}
	doc.Streak = StreakState{Current: 2, Longest: 5, LastActiveDate: "2026-03-10"}
	require.NoError(t, store.Save(ctx, doc))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Joker", got.Player.Name)
	assert.Equal(t, 420, got.Player.TotalXP)
	assert.Equal(t, SkillState{Level: 4, XP: 12}, got.Skills["slices"])
	assert.Equal(t, doc.Completions, got.Completions)
	assert.Equal(t, doc.Streak, got.Streak)
}

func TestSaveOverwritesSingleRow(t *testing.T) {
	store, db, ctx := newTestStore(t)

	doc, _ := store.Load(ctx)
	require.NoError(t, store.Save(ctx, doc))
	doc.Player.TotalXP = 99
	require.NoError(t, store.Save(ctx, doc))

	var rows int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM save_state`).Scan(&rows))
	assert.Equal(t, 1, rows)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99, got.Player.TotalXP)
}

func TestVersionMismatchStartsFresh(t *testing.T) {
	store, db, ctx := newTestStore(t)

	_, err := db.ExecContext(ctx,
		`INSERT INTO save_state (key, doc) VALUES (?, ?)`,
		SaveKey, `{"version":1,"player":{"name":"Old","level":9,"total_xp":9999}}`)
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Empty(t, doc.Player.Name)
	assert.Equal(t, 1, doc.Player.Level)
}

func TestCorruptSaveStartsFresh(t *testing.T) {
	store, db, ctx := newTestStore(t)

	_, err := db.ExecContext(ctx,
		`INSERT INTO save_state (key, doc) VALUES (?, ?)`, SaveKey, `{not json`)
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, 1, doc.Player.Level)
}

func TestBackfillAddsNewSkillKeys(t *testing.T) {
	store, _, ctx := newTestStore(t)

	// A save written before "maps" existed, with progress on the others.
	doc := DefaultDocument([]string{"variables", "slices"})
	doc.Skills["slices"] = SkillState{Level: 7, XP: 30}
	require.NoError(t, store.Save(ctx, doc))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, SkillState{Level: 1}, got.Skills["maps"], "new key backfilled at level 1")
	assert.Equal(t, SkillState{Level: 7, XP: 30}, got.Skills["slices"], "existing progress untouched")
}

func TestBackfillInitializesNilMaps(t *testing.T) {
	store, db, ctx := newTestStore(t)

	_, err := db.ExecContext(ctx,
		`INSERT INTO save_state (key, doc) VALUES (?, ?)`,
		SaveKey, `{"version":3,"player":{"level":2,"total_xp":150}}`)
	require.NoError(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Player.Level, "trusted save keeps its progress")
	assert.NotNil(t, doc.Completions)
	assert.NotNil(t, doc.Mastery)
	assert.NotNil(t, doc.Calendar)
	assert.NotNil(t, doc.Palaces)
	assert.NotNil(t, doc.Achievements)
	assert.NotNil(t, doc.Daily.Completed)
	assert.Equal(t, DefaultTimeBudgetSeconds, doc.Settings.TimeBudgetSeconds)
}

func TestResetWipesProgress(t *testing.T) {
	store, _, ctx := newTestStore(t)

	doc, _ := store.Load(ctx)
	doc.Player.TotalXP = 500
	doc.Completions["a_v1"] = CompletionRecord{Grade: "A"}
	require.NoError(t, store.Save(ctx, doc))

	fresh, err := store.Reset(ctx)
	require.NoError(t, err)
	assert.Zero(t, fresh.Player.TotalXP)
	assert.Empty(t, fresh.Completions)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, got.Player.TotalXP)
	assert.Empty(t, got.Completions)
}
