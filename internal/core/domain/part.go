package domain

import (
	"errors"
	"time"
)

// PartStatus is the availability of a listing.
type PartStatus string

const (
	PartAvailable PartStatus = "available"
	PartReserved  PartStatus = "reserved"
	PartSold      PartStatus = "sold"
)

// DefaultMaxImageSize bounds the inline data-URI of a part image (~1MB decoded).
const DefaultMaxImageSize = 1_400_000

var (
	ErrPartNotFound  = errors.New("part not found")
	ErrNotOwner      = errors.New("part belongs to another merchant")
	ErrImageTooLarge = errors.New("image must not exceed 1MB")
)

func (s PartStatus) Valid() bool {
	switch s {
	case PartAvailable, PartReserved, PartSold:
		return true
	}
	return false
}

// Part is a merchant-owned listing. MerchantName and MerchantPhone are a
// snapshot of the owner's contact details taken when the part was created.
type Part struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Category      string     `json:"category"`
	Price         float64    `json:"price"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	CarMake       string     `json:"carMake"`
	CarModel      string     `json:"carModel"`
	CarYear       int        `json:"carYear,omitempty"`
	IsFeatured    bool       `json:"isFeatured"`
	Status        PartStatus `json:"status"`
	MerchantID    string     `json:"merchantId"`
	MerchantName  string     `json:"merchantName"`
	MerchantPhone string     `json:"merchantPhone"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// OwnedBy reports whether userID is the owning merchant.
func (p *Part) OwnedBy(userID string) bool {
	return p != nil && userID != "" && p.MerchantID == userID
}
