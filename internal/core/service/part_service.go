package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdofull/LibyaParts/internal/api/metrics"
	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

type PartService struct {
	repo         ports.PartRepository
	cache        ports.ListingCache
	maxImageSize int
	logger       zerolog.Logger
	now          func() time.Time
}

// NewPartService wires the part use cases. cache may be nil to disable
// listing caching; maxImageSize <= 0 selects domain.DefaultMaxImageSize.
func NewPartService(repo ports.PartRepository, cache ports.ListingCache, maxImageSize int, logger zerolog.Logger) *PartService {
	if cache == nil {
		cache = nopCache{}
	}
	if maxImageSize <= 0 {
		maxImageSize = domain.DefaultMaxImageSize
	}
	return &PartService{repo: repo, cache: cache, maxImageSize: maxImageSize, logger: logger, now: time.Now}
}

// List returns available parts matching input, featured first then newest,
// capped at ports.MaxListedParts. No authorization is required.
func (s *PartService) List(ctx context.Context, input ports.ListPartsInput) ([]*domain.Part, error) {
	filter := ports.PartFilter{
		Search:   strings.TrimSpace(input.Search),
		CarMake:  strings.TrimSpace(input.CarMake),
		CarModel: strings.TrimSpace(input.CarModel),
		CarYear:  input.CarYear,
		Category: strings.TrimSpace(input.Category),
		Status:   domain.PartAvailable,
		Limit:    ports.MaxListedParts,
	}

	cached, gen, ok, cacheErr := s.cache.Get(ctx, filter)
	if cacheErr != nil {
		s.logger.Warn().Err(cacheErr).Msg("listing cache read failed, querying store")
	} else if ok {
		metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.ListingCacheTotal.WithLabelValues("miss").Inc()

	parts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}

	// Without a generation from Get there is no safe slot to fill.
	if cacheErr == nil {
		if err := s.cache.Set(ctx, gen, filter, parts); err != nil {
			s.logger.Warn().Err(err).Msg("listing cache write failed")
		}
	}
	return parts, nil
}

func (s *PartService) ListMine(ctx context.Context, merchant *domain.User) ([]*domain.Part, error) {
	if merchant == nil {
		return nil, domain.ErrUnauthenticated
	}
	parts, err := s.repo.ListByMerchant(ctx, merchant.ID)
	if err != nil {
		return nil, fmt.Errorf("list merchant parts: %w", err)
	}
	return parts, nil
}

// Create stores a new available part owned by merchant. The merchant's name
// and phone are copied onto the part and are not refreshed later.
func (s *PartService) Create(ctx context.Context, merchant *domain.User, in ports.CreatePartInput) (*domain.Part, error) {
	if merchant == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !merchant.IsMerchant() {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	carMake := strings.TrimSpace(in.CarMake)
	carModel := strings.TrimSpace(in.CarModel)
	if name == "" || category == "" || carMake == "" || carModel == "" {
		return nil, fmt.Errorf("%w: name, category, carMake and carModel are required", domain.ErrValidation)
	}
	if in.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation)
	}
	if len(in.ImageURL) > s.maxImageSize {
		return nil, domain.ErrImageTooLarge
	}

	part := &domain.Part{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Category:      category,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
		CarMake:       carMake,
		CarModel:      carModel,
		CarYear:       in.CarYear,
		IsFeatured:    in.IsFeatured,
		Status:        domain.PartAvailable,
		MerchantID:    merchant.ID,
		MerchantName:  merchant.Name,
		MerchantPhone: merchant.Phone,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, part); err != nil {
		s.logger.Error().Err(err).Str("merchant_id", merchant.ID).Msg("failed to create part")
		return nil, fmt.Errorf("create part: %w", err)
	}

	s.invalidate(ctx)
	metrics.PartMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("part_id", part.ID).Str("merchant_id", merchant.ID).Msg("part created")

	return part, nil
}

// Update applies changes after checking that actor owns the part.
func (s *PartService) Update(ctx context.Context, actor *domain.User, partID string, changes ports.PartChanges) (*domain.Part, error) {
	if err := s.checkOwnership(ctx, actor, partID); err != nil {
		return nil, err
	}
	if err := s.validateChanges(changes); err != nil {
		return nil, err
	}
	if changes.Empty() {
		return s.repo.FindByID(ctx, partID)
	}

	updated, err := s.repo.Update(ctx, partID, actor.ID, changes)
	if err != nil {
		return nil, fmt.Errorf("update part: %w", err)
	}

	s.invalidate(ctx)
	metrics.PartMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("part_id", partID).Str("merchant_id", actor.ID).Msg("part updated")

	return updated, nil
}

// Delete removes the part after checking that actor owns it.
func (s *PartService) Delete(ctx context.Context, actor *domain.User, partID string) error {
	if err := s.checkOwnership(ctx, actor, partID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, partID, actor.ID); err != nil {
		return fmt.Errorf("delete part: %w", err)
	}

	s.invalidate(ctx)
	metrics.PartMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("part_id", partID).Str("merchant_id", actor.ID).Msg("part deleted")

	return nil
}

// checkOwnership loads the part and compares its owner with actor. It runs
// on every mutation; ownership is the only boundary between merchants.
func (s *PartService) checkOwnership(ctx context.Context, actor *domain.User, partID string) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}

	part, err := s.repo.FindByID(ctx, partID)
	if err != nil {
		return err
	}
	if !part.OwnedBy(actor.ID) {
		metrics.OwnershipDenialsTotal.Inc()
		s.logger.Warn().Str("part_id", partID).Str("actor_id", actor.ID).Msg("ownership check denied")
		return domain.ErrNotOwner
	}
	return nil
}

func (s *PartService) validateChanges(c ports.PartChanges) error {
	for field, v := range map[string]*string{
		"name":     c.Name,
		"category": c.Category,
		"carMake":  c.CarMake,
		"carModel": c.CarModel,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrValidation, field)
		}
	}
	if c.Price != nil && *c.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than 0", domain.ErrValidation)
	}
	if c.Status != nil && !c.Status.Valid() {
		return fmt.Errorf("%w: unknown part status %q", domain.ErrValidation, *c.Status)
	}
	if c.ImageURL != nil && len(*c.ImageURL) > s.maxImageSize {
		return domain.ErrImageTooLarge
	}
	return nil
}

func (s *PartService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}

// nopCache is used when no listing cache is configured.
type nopCache struct{}

func (nopCache) Get(context.Context, ports.PartFilter) ([]*domain.Part, int64, bool, error) {
	return nil, 0, false, nil
}

func (nopCache) Set(context.Context, int64, ports.PartFilter, []*domain.Part) error { return nil }

func (nopCache) Invalidate(context.Context) error { return nil }
