package redis

import (
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/sarali19/Eventful-Event-management-platform/internal/config"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := config.Load()
	client, err := NewClient(&cfg.Redis)
	if err != nil {
		t.Skip("Redis not available")
	}
	t.Cleanup(func() { client.Close() })
	return client
}
