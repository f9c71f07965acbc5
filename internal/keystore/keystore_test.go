package keystore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/overcastlabs/skycast/pkg/weathersdk"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "keyring.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "accessToken", "tok-1"))

	got, err := s.Get(ctx, "accessToken")
	require.NoError(t, err)
	require.Equal(t, "tok-1", got)

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "accessToken", "tok-2"))
		got, err := s.Get(ctx, "accessToken")
		require.NoError(t, err)
		require.Equal(t, "tok-2", got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "accessToken"))
		_, err := s.Get(ctx, "accessToken")
		require.ErrorIs(t, err, weathersdk.ErrKeyNotFound)
	})

	t.Run("delete absent key is fine", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "never-set"))
	})
}

func TestStoreMissingKey(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	_, err := s.Get(context.Background(), "absent")
	require.ErrorIs(t, err, weathersdk.ErrKeyNotFound)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keyring.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "username", "alice"))
	require.NoError(t, s.Close())

	// Reopen: migrations are a no-op and data survives.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "username")
	require.NoError(t, err)
	require.Equal(t, "alice", got)
}

// The store must satisfy the SDK keyring contract.
var _ weathersdk.Keyring = (*Store)(nil)
