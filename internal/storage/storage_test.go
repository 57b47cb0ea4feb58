package storage

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/axon/internal/access"
)

func newStorage(t *testing.T, path string) *Storage {
	t.Helper()
	s, err := New(path, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestStorage_ModConfigUnknownGuild(t *testing.T) {
	s := newStorage(t, filepath.Join(t.TempDir(), "store.json"))
	defer s.Close()

	cfg, err := s.ModConfig("g1")
	require.NoError(t, err)
	assert.Empty(t, cfg.Users)
	assert.Empty(t, cfg.Roles)
	assert.Empty(t, s.Guilds())
}

func TestStorage_ModUsersAndRoles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := newStorage(t, path)

	require.NoError(t, s.AddModUser("g1", "u1"))
	require.NoError(t, s.AddModUser("g1", "u1"))
	require.NoError(t, s.AddModUser("g1", "u2"))
	require.NoError(t, s.AddModRole("g1", "r1"))
	require.NoError(t, s.RemoveModUser("g1", "u2"))
	require.NoError(t, s.RemoveModUser("g1", "missing"))
	require.NoError(t, s.Close())

	reopened := newStorage(t, path)
	defer reopened.Close()

	cfg, err := reopened.ModConfig("g1")
	require.NoError(t, err)
	assert.Equal(t, access.ModConfig{Users: []string{"u1"}, Roles: []string{"r1"}}, cfg)
	assert.Equal(t, []string{"g1"}, reopened.Guilds())

	require.NoError(t, reopened.RemoveModRole("g1", "r1"))
	cfg, err = reopened.ModConfig("g1")
	require.NoError(t, err)
	assert.Empty(t, cfg.Roles)
}

func TestStorage_EmptiedGuildIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := newStorage(t, path)

	require.NoError(t, s.AddModUser("g1", "u1"))
	require.NoError(t, s.AddModRole("g2", "r1"))
	require.NoError(t, s.RemoveModUser("g1", "u1"))
	assert.Equal(t, []string{"g2"}, s.Guilds())
	require.NoError(t, s.Close())

	reopened := newStorage(t, path)
	defer reopened.Close()
	assert.Equal(t, []string{"g2"}, reopened.Guilds())
}

func TestStorage_ModConfigIsACopy(t *testing.T) {
	s := newStorage(t, filepath.Join(t.TempDir(), "store.json"))
	defer s.Close()

	require.NoError(t, s.AddModUser("g1", "u1"))
	cfg, err := s.ModConfig("g1")
	require.NoError(t, err)
	cfg.Users[0] = "tampered"

	again, err := s.ModConfig("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, again.Users)
}

func TestStorage_EmptyGuild(t *testing.T) {
	s := newStorage(t, filepath.Join(t.TempDir(), "store.json"))
	defer s.Close()

	assert.Error(t, s.AddModUser("", "u1"))
	_, err := s.ModConfig("")
	assert.Error(t, err)
}

func TestStorage_ModConfigFeedsResolver(t *testing.T) {
	s := newStorage(t, filepath.Join(t.TempDir(), "store.json"))
	defer s.Close()

	require.NoError(t, s.AddModRole("g1", "helpers"))
	cfg, err := s.ModConfig("g1")
	require.NoError(t, err)

	r := access.NewResolver(access.StaticRoster(access.NewRoster(nil, nil, nil)), nil)
	assert.True(t, r.IsGuildModerator(access.Member{ID: "u9", Roles: []string{"helpers"}}, cfg))
	assert.False(t, r.IsGuildModerator(access.Member{ID: "u9"}, cfg))
}
