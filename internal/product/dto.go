// AngelaMos | 2026
// dto.go

package product

import (
	"encoding/json"
	"time"

	"github.com/carterperez-dev/catalog-api/internal/core"
)

// Payload is a product request body kept as raw JSON per field, so the
// validator can tell an absent field from an explicit null or a wrong type.
type Payload map[string]json.RawMessage

type StockRequest struct {
	Stock json.RawMessage `json:"stock"`
}

type UserSummary struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
}

type ProductResponse struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Price       float64      `json:"price"`
	SKU         string       `json:"sku"`
	Category    string       `json:"category"`
	Stock       int          `json:"stock"`
	IsActive    bool         `json:"isActive"`
	Weight      *float64     `json:"weight"`
	Dimensions  *Dimensions  `json:"dimensions"`
	Tags        []string     `json:"tags"`
	CreatedBy   int64        `json:"createdBy"`
	UpdatedBy   *int64       `json:"updatedBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Creator     *UserSummary `json:"creator,omitempty"`
	Updater     *UserSummary `json:"updater,omitempty"`
}

type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	Pagination core.Pagination   `json:"pagination"`
}

func ToProductResponse(p *Product) ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		SKU:         p.SKU,
		Category:    p.Category,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		Weight:      p.Weight,
		Dimensions:  p.Dimensions,
		Tags:        tags,
		CreatedBy:   p.CreatedBy,
		UpdatedBy:   p.UpdatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Creator:     toUserSummary(p.Creator),
		Updater:     toUserSummary(p.Updater),
	}
}

func ToProductResponses(products []Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, ToProductResponse(&products[i]))
	}
	return out
}

func toUserSummary(ref *UserRef) *UserSummary {
	if ref == nil {
		return nil
	}
	return &UserSummary{
		ID:       ref.ID,
		Username: ref.Username,
		Email:    ref.Email,
	}
}
