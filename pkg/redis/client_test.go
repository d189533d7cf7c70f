package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_RequiresHost(t *testing.T) {
	client, err := NewClient(&Config{})
	assert.Error(t, err)
	assert.Nil(t, client)

	client, err = NewClient(nil)
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestNewClient_PingsServer(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(&Config{Host: srv.Host(), Port: srv.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()))
	assert.NotNil(t, client.GetClient())
}

func TestNewClient_UnreachableServer(t *testing.T) {
	srv := miniredis.RunT(t)
	host, port := srv.Host(), srv.Port()
	srv.Close()

	client, err := NewClient(&Config{Host: host, Port: port})
	assert.Error(t, err)
	assert.Nil(t, client)
}
