// AngelaMos | 2026
// entity.go

package product

import (
	"time"
)

// Dimensions components are independently optional.
type Dimensions struct {
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// UserRef identifies the creator or last updater of a product.
type UserRef struct {
	ID       int64
	Username string
	Email    *string
}

type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       float64
	SKU         string
	Category    string
	Stock       int
	IsActive    bool
	Weight      *float64
	Dimensions  *Dimensions
	Tags        []string
	CreatedBy   int64
	UpdatedBy   *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Creator     *UserRef
	Updater     *UserRef
}
