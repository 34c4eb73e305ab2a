package main

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cowbull-server/internal/config"
	"github.com/robalobadob/cowbull-server/internal/game"
)

func baseConfig() *config.Config {
	return &config.Config{
		Persister:   "memory",
		RedisPrefix: "cowbull:game:",
		SessionTTL:  time.Hour,
	}
}

func TestBuildManager_Memory(t *testing.T) {
	mgr, closeStore, err := buildManager(context.Background(), baseConfig(), nil)
	require.NoError(t, err)
	defer closeStore()

	sum, err := mgr.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "easy", sum.Mode)
	assert.Equal(t, 3600, sum.TTL)
}

func TestBuildManager_RedisLockNeedsRedis(t *testing.T) {
	cfg := baseConfig()
	cfg.RedisLock = true
	_, _, err := buildManager(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, game.ErrConfig)
}

func TestBuildManager_RedisWithLock(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := baseConfig()
	cfg.Persister = "redis"
	cfg.RedisHost = mr.Host()
	cfg.RedisPort = port
	cfg.RedisLock = true

	mgr, closeStore, err := buildManager(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closeStore()

	sum, err := mgr.Create(context.Background(), "normal")
	require.NoError(t, err)
	res, err := mgr.Guess(context.Background(), sum.Key, []any{1, 2, 3, 4})
	require.NoError(t, err)
	assert.True(t, res.Outcome.Scored())
	assert.True(t, mr.Exists("cowbull:game:"+sum.Key))
	assert.False(t, mr.Exists("cowbull:game:lock:"+sum.Key), "lock released after guess")
}
