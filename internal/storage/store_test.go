package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// bbolt runs no background goroutines; anything left after Close is a leak.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_ThemeDefaultsToDark(t *testing.T) {
	store := setupTestStore(t)

	theme, err := store.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
}

func TestStore_ThemePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetTheme(ThemeLight))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	theme, err := store.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	require.NoError(t, store.SetTheme(ThemeDark))
	theme, err = store.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)
}

func TestStore_SetThemeRejectsUnknown(t *testing.T) {
	store := setupTestStore(t)
	assert.Error(t, store.SetTheme("sepia"))
}

func TestStore_MostViewed(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordView("a", base))
	require.NoError(t, store.RecordView("b", base.Add(time.Hour)))
	require.NoError(t, store.RecordView("b", base.Add(2*time.Hour)))
	require.NoError(t, store.RecordView("c", base.Add(3*time.Hour)))
	require.NoError(t, store.RecordView("", base), "empty ids are ignored")

	counts, err := store.MostViewed(0)
	require.NoError(t, err)
	require.Len(t, counts, 3)
	assert.Equal(t, "b", counts[0].ArticleID)
	assert.Equal(t, 2, counts[0].Count)
	assert.Equal(t, "c", counts[1].ArticleID, "ties go to the most recent view")
	assert.Equal(t, "a", counts[2].ArticleID)

	top, err := store.MostViewed(1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestStore_MemoryPath(t *testing.T) {
	store, err := NewStore(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, store.SetTheme(ThemeLight))
	dir := store.tempDir
	require.NotEmpty(t, dir)
	require.NoError(t, store.Close())
	assert.NoDirExists(t, dir)
}
