package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the optional Redis session backend. A URL that does not
// parse is treated as a bare host:port address.
func InitRedis(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		log.Printf("⚠️  Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.Session.RedisURL,
		}
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")

	return rdb, nil
}
