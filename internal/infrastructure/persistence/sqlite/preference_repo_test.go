package sqlite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dimmer/internal/domain/entity"
	"github.com/bnema/dimmer/internal/infrastructure/persistence/sqlite"
)

func TestPreferenceRepository_GetMissingKey(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewPreferenceRepository(db)

	value, ok, err := repo.Get(ctx, entity.KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestPreferenceRepository_SetAndOverwrite(t *testing.T) {
	ctx := testCtx()
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewPreferenceRepository(db)

	require.NoError(t, repo.Set(ctx, entity.KeyTheme, "dark"))
	require.NoError(t, repo.Set(ctx, entity.KeyDarkMode, "true"))
	require.NoError(t, repo.Set(ctx, entity.KeyTheme, "system"))

	value, ok, err := repo.Get(ctx, entity.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "system", value)

	all, err := sqlite.ListPreferences(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"darkMode": "true", "theme": "system"}, all)
}

func TestPreferenceRepository_SurvivesReopen(t *testing.T) {
	ctx := testCtx()
	dbPath := filepath.Join(t.TempDir(), "prefs.db")

	db, err := sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewPreferenceRepository(db).Set(ctx, entity.KeyTheme, "light"))
	require.NoError(t, db.Close())

	db, err = sqlite.NewConnection(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	value, ok, err := sqlite.NewPreferenceRepository(db).Get(ctx, entity.KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", value)

	version, err := sqlite.GetMigrationStatus(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestLazyPreferenceRepository_OpensOnFirstUse(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "prefs.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	repo := sqlite.NewLazyPreferenceRepository(lazy)
	assert.False(t, lazy.IsInitialized())

	require.NoError(t, repo.Set(ctx, entity.KeyDarkMode, "false"))
	assert.True(t, lazy.IsInitialized())

	value, ok, err := repo.Get(ctx, entity.KeyDarkMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", value)
}

func TestLazyPreferenceRepository_InitFailureIsReturned(t *testing.T) {
	ctx := testCtx()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	repo := sqlite.NewLazyPreferenceRepository(sqlite.NewLazyDB(filepath.Join(blocker, "prefs.db")))

	_, ok, err := repo.Get(ctx, entity.KeyTheme)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, repo.Set(ctx, entity.KeyTheme, "dark"))
}
