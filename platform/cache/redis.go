package cache

import (
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
)

// CreateRedisPool builds the shared connection pool. Returns nil when
// REDIS_URL is unset, in which case the snapshot store degrades to a no-op.
func CreateRedisPool() *redis.Pool {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		return nil
	}
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", addr) },
	}
}
