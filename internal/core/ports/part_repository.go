package ports

import (
	"context"
	"strconv"
	"strings"

	"github.com/abdofull/LibyaParts/internal/core/domain"
)

// MaxListedParts caps the public listing; there is no pagination cursor.
const MaxListedParts = 100

// PartFilter carries the public listing query. Status is always forced to
// available by the service layer.
type PartFilter struct {
	Search   string // optional: case-insensitive substring of name, carMake or carModel
	CarMake  string // optional: case-insensitive substring
	CarModel string // optional: case-insensitive substring
	CarYear  int    // optional: exact match, 0 = any
	Category string // optional: exact match
	Status   domain.PartStatus
	Limit    int
}

// CacheKey renders the filter as a stable string for the listing cache.
func (f PartFilter) CacheKey() string {
	var b strings.Builder
	b.WriteString("s=")
	b.WriteString(strings.ToLower(f.Search))
	b.WriteString("|mk=")
	b.WriteString(strings.ToLower(f.CarMake))
	b.WriteString("|md=")
	b.WriteString(strings.ToLower(f.CarModel))
	b.WriteString("|y=")
	b.WriteString(strconv.Itoa(f.CarYear))
	b.WriteString("|c=")
	b.WriteString(f.Category)
	b.WriteString("|st=")
	b.WriteString(string(f.Status))
	b.WriteString("|l=")
	b.WriteString(strconv.Itoa(f.Limit))
	return b.String()
}

// PartChanges is a partial update; nil fields are left untouched.
type PartChanges struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	ImageURL    *string
	CarMake     *string
	CarModel    *string
	CarYear     *int
	IsFeatured  *bool
	Status      *domain.PartStatus
}

// Empty reports whether no field is set.
func (c PartChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Category == nil &&
		c.Price == nil && c.ImageURL == nil && c.CarMake == nil &&
		c.CarModel == nil && c.CarYear == nil && c.IsFeatured == nil &&
		c.Status == nil
}

// PartRepository defines persistence operations for parts.
type PartRepository interface {
	Create(ctx context.Context, p *domain.Part) error
	FindByID(ctx context.Context, id string) (*domain.Part, error)
	// Update applies changes to the part only if it is owned by merchantID.
	// Returns domain.ErrPartNotFound when no such owned part exists.
	Update(ctx context.Context, id, merchantID string, changes PartChanges) (*domain.Part, error)
	// Delete removes the part only if it is owned by merchantID.
	Delete(ctx context.Context, id, merchantID string) error
	// List returns parts matching filter, featured first then newest first.
	List(ctx context.Context, filter PartFilter) ([]*domain.Part, error)
	// ListByMerchant returns every part of a merchant, newest first.
	ListByMerchant(ctx context.Context, merchantID string) ([]*domain.Part, error)
	// Count returns the number of parts; merchantID "" counts all parts.
	Count(ctx context.Context, merchantID string) (int64, error)
	DeleteByMerchant(ctx context.Context, merchantID string) (int64, error)
}
