package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdofull/LibyaParts/internal/api/metrics"
	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

type requestService struct {
	requests ports.RequestRepository
	parts    ports.PartRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewRequestService returns a RequestService implementation.
func NewRequestService(
	requests ports.RequestRepository,
	parts ports.PartRepository,
	log zerolog.Logger,
) ports.RequestService {
	return &requestService{
		requests: requests,
		parts:    parts,
		log:      log,
		now:      time.Now,
	}
}

// Create validates and persists a customer request in status "new".
// Nothing is stored when a required field is missing.
func (s *requestService) Create(ctx context.Context, in ports.CreateRequestInput) (*domain.Request, error) {
	req := &domain.Request{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		PartName:      strings.TrimSpace(in.PartName),
		CarMake:       strings.TrimSpace(in.CarMake),
		CarModel:      strings.TrimSpace(in.CarModel),
		CarYear:       in.CarYear,
		Notes:         strings.TrimSpace(in.Notes),
		Status:        domain.RequestNew,
		CreatedAt:     s.now().UTC(),
	}
	if req.CustomerName == "" || req.CustomerPhone == "" || req.PartName == "" ||
		req.CarMake == "" || req.CarModel == "" {
		return nil, fmt.Errorf("%w: customerName, customerPhone, partName, carMake and carModel are required", domain.ErrValidation)
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	metrics.RequestsCreatedTotal.Inc()
	s.log.Info().Str("request_id", req.ID).Str("part_name", req.PartName).Msg("request created")

	return req, nil
}

func (s *requestService) List(ctx context.Context) ([]*domain.Request, error) {
	reqs, err := s.requests.List(ctx, ports.MaxListedRequests)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return reqs, nil
}

// UpdateStatus moves a request forward through new → processing →
// responded → done. Any merchant may do it; there is no ownership.
func (s *requestService) UpdateStatus(ctx context.Context, id string, status string) (*domain.Request, error) {
	next := domain.RequestStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown request status %q", domain.ErrValidation, status)
	}

	current, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
	}
	if current.Status == next {
		return current, nil
	}

	// The write is conditional on the status read above, so a concurrent
	// move in between surfaces as ErrInvalidTransition instead of being
	// overwritten.
	updated, err := s.requests.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w (request left %s concurrently)", domain.ErrInvalidTransition, current.Status)
		}
		return nil, fmt.Errorf("update request status: %w", err)
	}

	metrics.RequestStatusChangesTotal.WithLabelValues(string(next)).Inc()
	s.log.Info().
		Str("request_id", id).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Msg("request status changed")

	return updated, nil
}

func (s *requestService) MerchantStats(ctx context.Context, merchantID string) (*ports.MerchantStats, error) {
	partsCount, err := s.parts.Count(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("merchant stats: count parts: %w", err)
	}
	newCount, err := s.requests.Count(ctx, domain.RequestNew)
	if err != nil {
		return nil, fmt.Errorf("merchant stats: count new requests: %w", err)
	}
	total, err := s.requests.Count(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("merchant stats: count requests: %w", err)
	}

	return &ports.MerchantStats{
		PartsCount:         partsCount,
		NewRequestsCount:   newCount,
		TotalRequestsCount: total,
	}, nil
}
