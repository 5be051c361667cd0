package ports

import (
	"context"

	"github.com/abdofull/LibyaParts/internal/core/domain"
)

// UserCountFilter narrows CountUsers. Zero values mean "any".
type UserCountFilter struct {
	Role     string
	Approved *bool
	Admin    *bool
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	SetApproved(ctx context.Context, id string, approved bool) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter UserCountFilter) (int64, error)
	// GrantAdmin makes the user with email the only admin.
	GrantAdmin(ctx context.Context, email string) (*domain.User, error)
}
