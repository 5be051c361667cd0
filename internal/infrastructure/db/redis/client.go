package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The listing cache is optional: a slow Redis must fail fast so PartService
// can fall back to the store instead of stalling the request.
const (
	defaultOpTimeout   = 250 * time.Millisecond
	defaultDialTimeout = 2 * time.Second
	defaultPoolSize    = 20
	defaultMinIdle     = 2
	defaultIdleTime    = 5 * time.Minute
)

// ClientConfig sizes the connection pool behind PartsCache.
type ClientConfig struct {
	Addr         string
	Password     string
	DB           int
	OpTimeout    time.Duration // read, write and pool wait
	DialTimeout  time.Duration
	PoolSize     int
	MinIdleConns int
}

func clientOptions(cfg ClientConfig) *redis.Options {
	op := cfg.OpTimeout
	if op <= 0 {
		op = defaultOpTimeout
	}
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	pool := cfg.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}
	idle := cfg.MinIdleConns
	if idle <= 0 {
		idle = defaultMinIdle
	}
	if idle > pool {
		idle = pool
	}

	return &redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     dial,
		ReadTimeout:     op,
		WriteTimeout:    op,
		PoolTimeout:     op,
		PoolSize:        pool,
		MinIdleConns:    idle,
		ConnMaxIdleTime: defaultIdleTime,
		// Listing reads are idempotent; one retry covers a dropped pooled conn.
		MaxRetries: 1,
	}
}

// Dial opens the pool for the listing cache and pings it once. The client is
// closed again when the ping fails.
func Dial(ctx context.Context, cfg ClientConfig) (*redis.Client, error) {
	opts := clientOptions(cfg)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("parts cache ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
