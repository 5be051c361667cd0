package app

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdofull/LibyaParts/internal/pkg/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory}

	s, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Parts)
	assert.NotNil(t, s.Requests)
	assert.Nil(t, s.Cache)
	assert.Empty(t, s.Checks)
}

func TestOpen_UnreachableCacheIsSkipped(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreMemory}
	cfg.Redis.Addr = "127.0.0.1:1"

	s, err := Open(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Nil(t, s.Cache)
	assert.NotContains(t, s.Checks, "redis")
	assert.NoError(t, s.Close(context.Background()))
}
