package usecase_test

import (
	"context"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mock: ProductRepository
// =====================

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Product, error) {
	panic("not used outside the order transaction")
}

func (m *MockProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

// =====================
// Mock: UserRepository
// =====================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

// =====================
// Mock: AuthValidator
// =====================

type MockAuthValidator struct {
	mock.Mock
}

func (m *MockAuthValidator) ValidateRegister(ctx context.Context, username string, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockAuthValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

// =====================
// Mock: CartStore
// =====================

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Get(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	args := m.Called(ctx, sessionID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *MockCartStore) Add(ctx context.Context, sessionID string, productID string, qty int64) ([]model.CartItem, error) {
	args := m.Called(ctx, sessionID, productID, qty)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *MockCartStore) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
