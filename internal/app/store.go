// Package app assembles the persistence layer selected by configuration.
// Both the HTTP server and the admin CLI open their stores through it.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abdofull/LibyaParts/internal/api/handler"
	"github.com/abdofull/LibyaParts/internal/core/ports"
	"github.com/abdofull/LibyaParts/internal/infrastructure/db/memory"
	"github.com/abdofull/LibyaParts/internal/infrastructure/db/mongo"
	"github.com/abdofull/LibyaParts/internal/infrastructure/db/redis"
	"github.com/abdofull/LibyaParts/internal/pkg/config"
)

// Store bundles the repositories, the optional listing cache and the
// readiness checks of the backends behind them.
type Store struct {
	Users    ports.UserRepository
	Parts    ports.PartRepository
	Requests ports.RequestRepository
	// Cache is nil when no Redis address is configured.
	Cache  ports.ListingCache
	Checks map[string]handler.Check

	closers []func(context.Context) error
}

// Open connects the configured store driver and, when REDIS_ADDR is set, the
// listing cache. A cache that cannot be reached is logged and skipped; the
// primary store failing is fatal to the caller.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	s := &Store{Checks: map[string]handler.Check{}}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		mem := memory.NewStore()
		s.Users, s.Parts, s.Requests = mem.Users(), mem.Parts(), mem.Requests()
		log.Warn().Msg("using in-memory store; data is lost on restart")

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)

		users := mongo.NewUserRepository(db)
		parts := mongo.NewPartRepository(db)
		requests := mongo.NewRequestRepository(db)
		if err := mongo.EnsureIndexes(ctx, users, parts, requests); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		s.Users, s.Parts, s.Requests = users, parts, requests
		s.Checks["mongo"] = handler.MongoCheck(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.Dial(ctx, redis.ClientConfig{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			OpTimeout:    cfg.Redis.Timeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			log.Warn().Err(err).Msg("listing cache disabled")
		} else {
			s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
			s.Cache = redis.NewPartsCache(rdb, cfg.Redis.CacheTTL)
			s.Checks["redis"] = handler.RedisCheck(rdb)
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		}
	}

	return s, nil
}

// Close releases backend connections in reverse order of opening.
func (s *Store) Close(ctx context.Context) error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}
