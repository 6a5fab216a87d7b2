package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmehdipour/jokecast/internal/config"
	"github.com/redis/go-redis/v9"
)

// OpenRedis connects the broadcast report store.
func OpenRedis(c config.RedisConfig) (*redis.Client, error) {
	dial := c.DialTimeout
	if dial <= 0 {
		dial = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: dial,
	})
	ctx, cancel := context.WithTimeout(context.Background(), dial)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: ping: %w", c.Addr, err)
	}

	return rdb, nil
}
