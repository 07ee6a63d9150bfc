package placement_cache

import (
	"context"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartwerk/riverlabel/placement"
)

func square(size float64) orb.Polygon {
	return orb.Polygon{{{0, 0}, {size, 0}, {size, size}, {0, size}, {0, 0}}}
}

func TestKey(t *testing.T) {
	metrics := placement.TextMetrics{Width: 40, Height: 12}
	evaluator := placement.DefaultEvaluator()
	polygons := []orb.Polygon{square(10), square(20)}

	key := Key(polygons, metrics, 3, evaluator)
	assert.Equal(t, key, Key([]orb.Polygon{square(10), square(20)}, metrics, 3, evaluator))
	assert.Regexp(t, `^[0-9a-f]+$`, key)

	assert.NotEqual(t, key, Key(polygons, metrics, 2, evaluator))
	assert.NotEqual(t, key, Key(polygons[:1], metrics, 3, evaluator))
	assert.NotEqual(t, key, Key(polygons, placement.TextMetrics{Width: 41, Height: 12}, 3, evaluator))

	// order matters because placements are index-ordered
	assert.NotEqual(t, key, Key([]orb.Polygon{square(20), square(10)}, metrics, 3, evaluator))

	evaluator.WidthTolerance = 2
	assert.NotEqual(t, key, Key(polygons, metrics, 3, evaluator))

	// informational fields are not part of the key
	metrics.Text = "ELBE"
	assert.Equal(t, key, Key(polygons, metrics, 3, placement.DefaultEvaluator()))
}

func TestNoopCache(t *testing.T) {
	cache := NewNoopCache()
	require.NoError(t, cache.Set(context.Background(), "k", []placement.Placement{{X: 1}}))

	placements, found, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, placements)
}

func TestNewCache(t *testing.T) {
	logger := logrus.New()

	cfg := GetDefaultConfig()
	assert.Equal(t, "no-op", NewCache(cfg, logger).Name())

	cfg.Enabled = true
	cache := NewCache(cfg, logger)
	assert.Equal(t, "redis", cache.Name())
	require.NoError(t, cache.(*RedisCache).Close())
}

func TestRedisCache_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	cache := NewRedisCacheWithClient(client, DEFAULT_KEY_PREFIX, 0)
	defer cache.Close()

	_, found, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, cache.Set(context.Background(), "k", nil))
}

func TestConfig_Validate(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, time.Hour, cfg.TTL())

	cfg.Enabled = true
	assert.NoError(t, cfg.Validate())

	cfg.TTLSeconds = 0
	assert.Error(t, cfg.Validate())

	cfg = GetDefaultConfig()
	cfg.Enabled = true
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())
}
