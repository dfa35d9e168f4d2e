package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/guttenberg/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

func feedbackAt(id string, answerID int, verdict domain.Verdict, at time.Time) domain.Feedback {
	return domain.Feedback{
		ID:        id,
		AnswerID:  answerID,
		Verdict:   verdict,
		Reporter:  "reviewer",
		CreatedAt: at,
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseName), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewStore("")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(home, ".guttenberg", "data", DatabaseName), store.Path())
}

func TestNewStore_InvalidDir(t *testing.T) {
	store, err := NewStore("/dev/null/cannot/create")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.FeedbackStore().Save(ctx, feedbackAt("a", 1, domain.VerdictTruePositive, time.Now())))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	items, err := second.FeedbackStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	var applied int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestStore_Migrate_SkipsAppliedAndUnversioned(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"001_feedback.up.sql": {Data: []byte("THIS WOULD FAIL")},
		"002_extra.up.sql":    {Data: []byte("CREATE TABLE extra (id INTEGER PRIMARY KEY);")},
		"002_extra.down.sql":  {Data: []byte("DROP TABLE extra;")},
		"notes.up.sql":        {Data: []byte("ALSO WOULD FAIL")},
	}

	require.NoError(t, store.migrate(fsys))

	var name string
	err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'extra'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "extra", name)
}

func TestStore_Migrate_FailureRollsBack(t *testing.T) {
	store := setupTestStore(t)

	err := store.migrate(fstest.MapFS{
		"005_broken.up.sql": {Data: []byte("CREATE TABLE half (id INTEGER); NOT SQL")},
	})
	require.Error(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestFeedbackStore_SaveAndList(t *testing.T) {
	store := setupTestStore(t).FeedbackStore()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, feedbackAt("late", 10, domain.VerdictFalsePositive, base.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, feedbackAt("early", 10, domain.VerdictTruePositive, base)))
	require.NoError(t, store.Save(ctx, feedbackAt("other", 20, domain.VerdictTruePositive, base.Add(time.Minute))))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "early", all[0].ID)
	assert.Equal(t, "other", all[1].ID)
	assert.Equal(t, "late", all[2].ID)

	forAnswer, err := store.ListByAnswer(ctx, 10)
	require.NoError(t, err)
	require.Len(t, forAnswer, 2)
	assert.Equal(t, "early", forAnswer[0].ID)
	assert.Equal(t, domain.VerdictTruePositive, forAnswer[0].Verdict)
	assert.Equal(t, "reviewer", forAnswer[0].Reporter)
	assert.True(t, base.Equal(forAnswer[0].CreatedAt))
	assert.Equal(t, domain.VerdictFalsePositive, forAnswer[1].Verdict)
}

func TestFeedbackStore_ListByAnswer_Empty(t *testing.T) {
	store := setupTestStore(t).FeedbackStore()

	items, err := store.ListByAnswer(context.Background(), 99)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFeedbackStore_SaveReplacesByID(t *testing.T) {
	store := setupTestStore(t).FeedbackStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, feedbackAt("same", 5, domain.VerdictTruePositive, now)))
	require.NoError(t, store.Save(ctx, feedbackAt("same", 5, domain.VerdictFalsePositive, now)))

	items, err := store.ListByAnswer(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.VerdictFalsePositive, items[0].Verdict)
}

func TestFeedbackStore_RejectsUnknownVerdict(t *testing.T) {
	store := setupTestStore(t).FeedbackStore()

	err := store.Save(context.Background(), feedbackAt("bad", 1, domain.Verdict("maybe"), time.Now()))

	require.Error(t, err)
	assert.True(t, IsConstraintError(err))
}

func TestFeedbackStore_CancelledContext(t *testing.T) {
	store := setupTestStore(t).FeedbackStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx)

	assert.Error(t, err)
}

func TestIsConstraintError_Nil(t *testing.T) {
	assert.False(t, IsConstraintError(nil))
}
