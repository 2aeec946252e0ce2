package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-widget/models"
)

func openSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(path)
	require.NoError(t, err)
	return s
}

func TestSQLiteSetAndGet(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, filepath.Join(t.TempDir(), "prefs.db"))
	defer s.Close()

	_, ok, err := s.Get(ctx, "sess", "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "sess", "k", "v1"))
	require.NoError(t, s.Set(ctx, "sess", "k", "v2"))
	require.NoError(t, s.Set(ctx, "other", "k", "x"))

	v, ok, err := s.Get(ctx, "sess", "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestPreferencesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	s := openSQLite(t, path)
	prefs := NewPreferences(s, "browser-1")
	for i := 0; i < 3; i++ {
		require.NoError(t, prefs.SetLastCity(ctx, "  São Paulo "))
	}
	require.NoError(t, prefs.SetTheme(ctx, models.ThemeDark))
	require.NoError(t, s.Close())

	s = openSQLite(t, path)
	defer s.Close()
	prefs = NewPreferences(s, "browser-1")

	city, err := prefs.LastCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "  São Paulo ", city)

	theme, err := prefs.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, theme)
}

func TestPreferencesDefaults(t *testing.T) {
	ctx := context.Background()
	prefs := NewPreferences(NewMemoryStore(), "fresh")

	city, err := prefs.LastCity(ctx)
	require.NoError(t, err)
	assert.Empty(t, city)

	theme, err := prefs.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, theme)
}

func TestSetThemeNormalizes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	prefs := NewPreferences(store, "s")

	require.NoError(t, prefs.SetTheme(ctx, models.Theme("purple")))
	v, _, _ := store.Get(ctx, "s", ThemeKey)
	assert.Equal(t, "light", v)
}
