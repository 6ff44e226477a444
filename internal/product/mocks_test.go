// AngelaMos | 2026
// mocks_test.go

package product

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) product(args mock.Arguments) (*Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *mockRepository) products(args mock.Arguments) ([]Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Product), args.Error(1)
}

func (m *mockRepository) Create(
	ctx context.Context,
	fields *ProductFields,
	userID int64,
) (*Product, error) {
	return m.product(m.Called(ctx, fields, userID))
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *mockRepository) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	return m.product(m.Called(ctx, sku))
}

func (m *mockRepository) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Product), args.Int(1), args.Error(2)
}

func (m *mockRepository) Update(
	ctx context.Context,
	id int64,
	fields *ProductFields,
	userID int64,
) (*Product, error) {
	return m.product(m.Called(ctx, id, fields, userID))
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) ListByCategory(
	ctx context.Context,
	category string,
) ([]Product, error) {
	return m.products(m.Called(ctx, category))
}

func (m *mockRepository) ListLowStock(
	ctx context.Context,
	threshold int,
) ([]Product, error) {
	return m.products(m.Called(ctx, threshold))
}

func (m *mockRepository) Stats(ctx context.Context) (*CatalogStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CatalogStats), args.Error(1)
}

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) TryLock(
	ctx context.Context,
	key string,
	ttl time.Duration,
) (string, bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockReportStore) Unlock(ctx context.Context, key, token string) error {
	return m.Called(ctx, key, token).Error(0)
}

func (m *mockReportStore) SetJSON(
	ctx context.Context,
	key string,
	value any,
	ttl time.Duration,
) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockReportStore) GetJSON(ctx context.Context, key string, dst any) error {
	return m.Called(ctx, key, dst).Error(0)
}
