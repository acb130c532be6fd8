//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) (*Store, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store := NewStore(fmt.Sprintf("redis://%s:%s/0", host, port.Port()), nil)
	require.NoError(t, store.Initialize(ctx, 5))

	cleanup := func() {
		_ = store.Close()
		_ = container.Terminate(ctx)
	}
	return store, cleanup
}

func TestStore_ReadMissing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	store, cleanup := setupRedisContainer(t)
	defer cleanup()

	value, found, err := store.Read(context.Background(), "@RocketShoes:cart")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func TestStore_WriteOverwrites(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	store, cleanup := setupRedisContainer(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":1}]`)))
	require.NoError(t, store.Write(ctx, "@RocketShoes:cart", []byte(`[]`)))

	value, found, err := store.Read(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, string(value))
}
