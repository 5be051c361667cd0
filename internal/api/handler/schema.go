package handler

import (
	"github.com/abdofull/LibyaParts/internal/core/domain"
	"github.com/abdofull/LibyaParts/internal/core/ports"
)

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"    validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=customer merchant"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createPartRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"    validate:"required"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl"`
	CarMake     string  `json:"carMake"     validate:"required"`
	CarModel    string  `json:"carModel"    validate:"required"`
	CarYear     int     `json:"carYear"     validate:"omitempty,min=1900"`
	IsFeatured  bool    `json:"isFeatured"`
}

// updatePartRequest is a partial update: absent fields stay untouched.
type updatePartRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"    validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl"`
	CarMake     *string  `json:"carMake"`
	CarModel    *string  `json:"carModel"`
	CarYear     *int     `json:"carYear"`
	IsFeatured  *bool    `json:"isFeatured"`
	Status      *string  `json:"status"   validate:"omitempty,oneof=available reserved sold"`
}

func (r updatePartRequest) toChanges() ports.PartChanges {
	ch := ports.PartChanges{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		CarMake:     r.CarMake,
		CarModel:    r.CarModel,
		CarYear:     r.CarYear,
		IsFeatured:  r.IsFeatured,
	}
	if r.Status != nil {
		st := domain.PartStatus(*r.Status)
		ch.Status = &st
	}
	return ch
}

type createRequestRequest struct {
	CustomerName  string `json:"customerName"  validate:"required"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	PartName      string `json:"partName"      validate:"required"`
	CarMake       string `json:"carMake"       validate:"required"`
	CarModel      string `json:"carModel"      validate:"required"`
	CarYear       int    `json:"carYear"`
	Notes         string `json:"notes"`
}

type updateRequestStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Response envelopes ---

// messageResponse is also the shape of every error body.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type userResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

type usersResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Users   []*domain.User `json:"users"`
}

type partResponse struct {
	Success bool         `json:"success"`
	Part    *domain.Part `json:"part"`
}

type partsResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Parts   []*domain.Part `json:"parts"`
}

type requestResponse struct {
	Success bool            `json:"success"`
	Request *domain.Request `json:"request"`
}

type requestsResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Requests []*domain.Request `json:"requests"`
}

// merchantStatsResponse flattens the counters next to success, the shape
// the merchant dashboard reads.
type merchantStatsResponse struct {
	Success bool `json:"success"`
	ports.MerchantStats
}

type adminStatsResponse struct {
	Success bool              `json:"success"`
	Stats   *ports.AdminStats `json:"stats"`
}

type deleteUserResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	PartsDeleted int64  `json:"partsDeleted"`
}
