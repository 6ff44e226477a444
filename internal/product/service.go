// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/catalog-api/internal/core"
)

const resourceName = "Product"

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateProduct validates the payload before touching the store. The SKU
// pre-check gives the common case a clean 409; a concurrent insert of the
// same SKU is still caught by the unique constraint.
func (s *Service) CreateProduct(
	ctx context.Context,
	payload Payload,
	userID int64,
) (*ProductResponse, error) {
	if userID == 0 {
		return nil, core.UnauthorizedError("")
	}

	fields, violations := ValidateCreate(payload)
	if len(violations) > 0 {
		return nil, core.ValidationError(violations)
	}

	if err := s.ensureSKUFree(ctx, *fields.SKU); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, fields, userID)
	if err != nil {
		return nil, s.storeError(ctx, "create product", err)
	}

	s.logger.InfoContext(ctx, "product created",
		"product_id", p.ID,
		"sku", p.SKU,
		"user_id", userID,
	)

	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *Service) GetProducts(
	ctx context.Context,
	params ListParams,
) (result *ProductListResponse, err error) {
	params = params.Normalize()

	ctx, span := core.StartSpan(ctx, "product.list",
		attribute.Int("page", params.Page),
		attribute.Int("limit", params.Limit),
		attribute.String("sort_by", params.SortBy),
	)
	defer func() { core.EndSpan(span, err) }()

	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &ProductListResponse{
		Products:   ToProductResponses(products),
		Pagination: core.NewPagination(params.Page, params.Limit, total),
	}, nil
}

func (s *Service) GetProductByID(
	ctx context.Context,
	id int64,
) (*ProductResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "get product", err)
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *Service) GetProductBySKU(
	ctx context.Context,
	sku string,
) (*ProductResponse, error) {
	p, err := s.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, s.storeError(ctx, "get product by sku", err)
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

// UpdateProduct applies a partial payload. Only supplied fields are
// validated, and the SKU is re-checked only when it actually changes.
func (s *Service) UpdateProduct(
	ctx context.Context,
	id int64,
	payload Payload,
	userID int64,
) (*ProductResponse, error) {
	if userID == 0 {
		return nil, core.UnauthorizedError("")
	}

	fields, violations := ValidateUpdate(payload)
	if len(violations) > 0 {
		return nil, core.ValidationError(violations)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "update product", err)
	}

	if fields.SKU != nil && *fields.SKU != existing.SKU {
		if err := s.ensureSKUFree(ctx, *fields.SKU); err != nil {
			return nil, err
		}
	}

	p, err := s.repo.Update(ctx, id, fields, userID)
	if err != nil {
		return nil, s.storeError(ctx, "update product", err)
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError(ctx, "delete product", err)
	}

	s.logger.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// DeactivateProduct soft-deletes: the row stays retrievable by id and SKU
// but drops out of category and low-stock listings.
func (s *Service) DeactivateProduct(
	ctx context.Context,
	id int64,
	userID int64,
) (*ProductResponse, error) {
	if userID == 0 {
		return nil, core.UnauthorizedError("")
	}

	inactive := false
	p, err := s.repo.Update(ctx, id, &ProductFields{IsActive: &inactive}, userID)
	if err != nil {
		return nil, s.storeError(ctx, "deactivate product", err)
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *Service) UpdateProductStock(
	ctx context.Context,
	id int64,
	rawStock json.RawMessage,
	userID int64,
) (*ProductResponse, error) {
	if userID == 0 {
		return nil, core.UnauthorizedError("")
	}

	stock, ok := ParseStock(rawStock)
	if !ok {
		return nil, core.ValidationError([]string{msgStockInvalid})
	}

	p, err := s.repo.Update(ctx, id, &ProductFields{Stock: &stock}, userID)
	if err != nil {
		return nil, s.storeError(ctx, "update product stock", err)
	}

	resp := ToProductResponse(p)
	return &resp, nil
}

func (s *Service) GetProductsByCategory(
	ctx context.Context,
	category string,
) ([]ProductResponse, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, core.ValidationError([]string{msgCategoryRequired})
	}

	products, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}

	return ToProductResponses(products), nil
}

func (s *Service) GetLowStockProducts(
	ctx context.Context,
	threshold int,
) ([]ProductResponse, error) {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}

	products, err := s.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock products: %w", err)
	}

	return ToProductResponses(products), nil
}

func (s *Service) Stats(ctx context.Context) (*CatalogStats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) ensureSKUFree(ctx context.Context, sku string) error {
	_, err := s.repo.GetBySKU(ctx, sku)
	switch {
	case err == nil:
		return duplicateSKUError()
	case errors.Is(err, core.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check sku: %w", err)
	}
}

// storeError maps repository sentinels onto client-facing errors. Anything
// unrecognised is returned wrapped and ends up as a 500.
func (s *Service) storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NotFoundError(resourceName)
	case errors.Is(err, core.ErrDuplicateKey):
		return duplicateSKUError()
	case errors.Is(err, core.ErrUnauthorized):
		s.logger.WarnContext(ctx, "acting user no longer exists",
			"op", op,
			"error", err,
		)
		return core.UnauthorizedError("")
	case errors.Is(err, core.ErrInvalidInput):
		s.logger.WarnContext(ctx, "store rejected product values",
			"op", op,
			"error", err,
		)
		return core.ValidationError([]string{"Product values are out of range"})
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func duplicateSKUError() *core.AppError {
	return core.ConflictError("SKU already exists", core.CodeDuplicateSKU)
}
