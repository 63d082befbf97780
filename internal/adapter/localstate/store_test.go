package localstate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/translation-desk/internal/config"
	"github.com/heartmarshall/translation-desk/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.StateConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "state.db"),
	}
	s, err := Open(context.Background(), cfg, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), config.StateConfig{Driver: "mysql"}, newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
}

func TestOpen_MigrationsAreRepeatable(t *testing.T) {
	t.Parallel()

	cfg := config.StateConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "state.db")}
	ctx := context.Background()

	first, err := Open(ctx, cfg, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, KeyTheme, "dark"))
	require.NoError(t, first.Close())

	second, err := Open(ctx, cfg, newTestLogger())
	require.NoError(t, err)
	defer second.Close()

	theme, err := second.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestStore_GetPutDelete(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get missing: got %v, want ErrNotFound", err)
	}

	require.NoError(t, s.Put(ctx, "k", "v1"))
	require.NoError(t, s.Put(ctx, "k", "v2"))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, s.Delete(ctx, "k", "never-set"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, s.Delete(ctx))
}

func TestStore_SessionRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	ps, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, ps, "no session stored yet")

	user := domain.User{ID: "u1", Username: "alice", Email: "a@example.com", Name: "Alice"}
	require.NoError(t, s.SaveSession(ctx, "tok-1", user))

	ps, err = s.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, ps)
	assert.Equal(t, "tok-1", ps.Token)
	require.NotNil(t, ps.User)
	assert.Equal(t, user, *ps.User)

	require.NoError(t, s.ClearSession(ctx))
	ps, err = s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, ps)
}

func TestStore_LoadSession_UnreadableUser(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, KeyAuthToken, "tok"))
	require.NoError(t, s.Put(ctx, KeyUserInfo, "{not json"))

	ps, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, ps)
	assert.Equal(t, "tok", ps.Token)
	assert.Nil(t, ps.User)
}

func TestStore_ThemeDefaultsToLight(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	theme, err := s.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, theme)

	require.NoError(t, s.SaveTheme(ctx, "dark"))
	theme, err = s.LoadTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}
