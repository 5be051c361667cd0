package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

const (
	DefaultPartsTTL = time.Minute

	// generationKey is bumped on every part write. Listing keys embed the
	// generation, so a bump orphans every cached listing at once and the
	// old entries age out through their TTL.
	generationKey = "parts:list:gen"
)

// PartsCache caches public part listings.
// Key format: parts:list:v<generation>:<filter cache key>
type PartsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ ports.ListingCache = (*PartsCache)(nil)

func NewPartsCache(client redis.Cmdable, ttl time.Duration) *PartsCache {
	if ttl <= 0 {
		ttl = DefaultPartsTTL
	}
	return &PartsCache{client: client, ttl: ttl}
}

func (c *PartsCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("parts cache generation: %w", err)
	}
	return gen, nil
}

func listingKey(gen int64, f ports.PartFilter) string {
	return fmt.Sprintf("parts:list:v%d:%s", gen, f.CacheKey())
}

// Get looks up f in the current generation and returns that generation
// for a following Set.
func (c *PartsCache) Get(ctx context.Context, f ports.PartFilter) ([]*domain.Part, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, listingKey(gen, f)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("parts cache get: %w", err)
	}

	var parts []*domain.Part
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, gen, false, fmt.Errorf("parts cache decode: %w", err)
	}
	return parts, gen, true, nil
}

// Set stores parts under gen, the generation Get reported before they were
// loaded. If a write bumped the generation in between, the entry lands in a
// retired generation and is never read.
func (c *PartsCache) Set(ctx context.Context, gen int64, f ports.PartFilter, parts []*domain.Part) error {
	raw, err := json.Marshal(parts)
	if err != nil {
		return fmt.Errorf("parts cache encode: %w", err)
	}
	if err := c.client.Set(ctx, listingKey(gen, f), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("parts cache set: %w", err)
	}
	return nil
}

func (c *PartsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("parts cache invalidate: %w", err)
	}
	return nil
}
