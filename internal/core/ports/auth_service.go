package ports

import (
	"context"

	"github.com/abdofull/LibyaParts/internal/core/domain"
)

// RegisterInput carries the self-service registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string // optional, defaults to customer
}

// AuthService issues credentials. Both operations return a signed token
// together with the stored user.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// AdminService covers user management reserved to the platform admin.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	SetApproval(ctx context.Context, userID string, approved bool) (*domain.User, error)
	// DeleteUser removes the user's parts and then the user. actor is the
	// admin performing the call. Returns the number of parts removed.
	DeleteUser(ctx context.Context, actor *domain.User, userID string) (int64, error)
	Stats(ctx context.Context) (*AdminStats, error)
	GrantAdmin(ctx context.Context, email string) (*domain.User, error)
}

// AdminStats is the platform overview shown on the admin dashboard.
type AdminStats struct {
	TotalUsers        int64 `json:"totalUsers"`
	PendingMerchants  int64 `json:"pendingMerchants"`
	ApprovedMerchants int64 `json:"approvedMerchants"`
	TotalCustomers    int64 `json:"totalCustomers"`
	TotalParts        int64 `json:"totalParts"`
	TotalRequests     int64 `json:"totalRequests"`
}
