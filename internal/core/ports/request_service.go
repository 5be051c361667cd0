package ports

import (
	"context"

	"github.com/abdofull/LibyaParts/internal/core/domain"
)

// CreateRequestInput is the DTO passed from the transport layer to RequestService.
type CreateRequestInput struct {
	CustomerName  string
	CustomerPhone string
	PartName      string
	CarMake       string
	CarModel      string
	CarYear       int    // optional
	Notes         string // optional
}

// MerchantStats is the merchant dashboard summary.
type MerchantStats struct {
	PartsCount         int64 `json:"partsCount"`
	NewRequestsCount   int64 `json:"newRequestsCount"`
	TotalRequestsCount int64 `json:"totalRequestsCount"`
}

// RequestService processes customer part requests.
type RequestService interface {
	Create(ctx context.Context, input CreateRequestInput) (*domain.Request, error)
	List(ctx context.Context) ([]*domain.Request, error)
	UpdateStatus(ctx context.Context, id string, status string) (*domain.Request, error)
	MerchantStats(ctx context.Context, merchantID string) (*MerchantStats, error)
}
