package ports

import (
	"context"

	"github.com/abdofull/LibyaParts/internal/core/domain"
)

// CreatePartInput carries all data a merchant supplies for a new listing.
type CreatePartInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	ImageURL    string
	CarMake     string
	CarModel    string
	CarYear     int
	IsFeatured  bool
}

// ListPartsInput carries the public listing query parameters.
type ListPartsInput struct {
	Search   string
	CarMake  string
	CarModel string
	CarYear  int
	Category string
}

// PartService defines use-case operations for parts. Mutations take the
// acting user so ownership is checked on every call.
type PartService interface {
	List(ctx context.Context, input ListPartsInput) ([]*domain.Part, error)
	ListMine(ctx context.Context, merchant *domain.User) ([]*domain.Part, error)
	Create(ctx context.Context, merchant *domain.User, input CreatePartInput) (*domain.Part, error)
	Update(ctx context.Context, actor *domain.User, partID string, changes PartChanges) (*domain.Part, error)
	Delete(ctx context.Context, actor *domain.User, partID string) error
}

// ListingCache stores public listing results. Implementations must treat
// every error as non-fatal for callers.
//
// Get reports the cache generation it looked in. A result loaded after a miss
// must be stored with that same generation, so a listing computed before an
// Invalidate can never be filed under the generation that follows it.
type ListingCache interface {
	Get(ctx context.Context, filter PartFilter) (parts []*domain.Part, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, filter PartFilter, parts []*domain.Part) error
	// Invalidate drops every cached listing.
	Invalidate(ctx context.Context) error
}
