package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_SetsClientNameAndPings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, "goasset", client.Options().ClientName)
	assert.Equal(t, 2, client.Options().DB)
}

func TestNewClient_KeepsExplicitClientName(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"?client_name=asset-worker")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, "asset-worker", client.Options().ClientName)
}

func TestNewClient_Errors(t *testing.T) {
	t.Run("invalid url", func(t *testing.T) {
		_, err := NewClient(context.Background(), "://bad-url")
		require.ErrorContains(t, err, "parse redis URL")
	})

	t.Run("server down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewClient(context.Background(), "redis://"+addr)
		require.ErrorContains(t, err, "ping redis")
	})
}
