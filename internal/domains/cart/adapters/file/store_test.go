package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_ReadMissingKey(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	value, found, err := store.Read(context.Background(), "@RocketShoes:cart")

	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, value)
}

func TestStore_WriteThenRead(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":1}]`)))
	require.NoError(t, store.Write(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":2}]`)))

	value, found, err := store.Read(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `[{"id":1,"amount":2}]`, string(value))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStore_KeysAreIsolated(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "a", []byte("1")))
	require.NoError(t, store.Write(ctx, "b", []byte("2")))

	a, _, err := store.Read(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "1", string(a))
}

func TestNewStore_RequiresDirectory(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}
