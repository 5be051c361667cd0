package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleMerchant = "merchant"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotApproved        = errors.New("merchant account pending approval")
)

// User models an authenticated actor in the marketplace.
//
// IsApproved only matters for merchants; IsAdmin marks the single
// platform administrator and is granted out of band.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"isAdmin"`
	IsApproved   bool      `json:"isApproved"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ValidRole reports whether role can be chosen at registration.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleMerchant
}

func (u *User) IsMerchant() bool {
	return u != nil && u.Role == RoleMerchant
}

// PendingApproval is true for merchants the admin has not approved yet.
// The admin is never pending.
func (u *User) PendingApproval() bool {
	return u.IsMerchant() && !u.IsApproved && !u.IsAdmin
}
