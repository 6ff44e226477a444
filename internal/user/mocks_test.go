// AngelaMos | 2026
// mocks_test.go

package user

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/carterperez-dev/catalog-api/internal/auth"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) Issue(
	userID int64,
	username string,
) (*auth.IssuedToken, error) {
	args := m.Called(userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.IssuedToken), args.Error(1)
}
