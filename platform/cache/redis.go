package cache

import (
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
	_ "github.com/joho/godotenv/autoload"
)

// CreateRedisPool builds the shared pool used for room presence
// bookkeeping. REDIS_URL is host:port.
func CreateRedisPool() *redis.Pool {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", addr) },
	}
}
