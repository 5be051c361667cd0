package ports

import (
	"context"

	"github.com/abdofull/LibyaParts/internal/core/domain"
)

// MaxListedRequests caps the merchant request inbox.
const MaxListedRequests = 50

// RequestRepository handles customer request persistence.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.Request) error
	FindByID(ctx context.Context, id string) (*domain.Request, error)
	// List returns up to limit requests, newest first.
	List(ctx context.Context, limit int) ([]*domain.Request, error)
	// UpdateStatus moves the request from status from to status to in one
	// conditional write and returns the updated request. It fails with
	// domain.ErrInvalidTransition when the request is no longer in from,
	// or domain.ErrRequestNotFound when it does not exist.
	UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) (*domain.Request, error)
	// Count returns the number of requests in status; "" counts all.
	Count(ctx context.Context, status domain.RequestStatus) (int64, error)
}
