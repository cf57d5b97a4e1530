// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/uniform-storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) List(ctx context.Context) ([]models.CartItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *CartService) Add(ctx context.Context, item models.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *CartService) Remove(ctx context.Context, key models.ItemKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *CartService) UpdateQuantity(ctx context.Context, key models.ItemKey, quantity int) error {
	return m.Called(ctx, key, quantity).Error(0)
}

func (m *CartService) Contains(ctx context.Context, key models.ItemKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *CartService) ContainsProduct(ctx context.Context, productID string) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

type WishlistService struct {
	mock.Mock
}

func (m *WishlistService) List(ctx context.Context) ([]models.WishlistItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistItem), args.Error(1)
}

func (m *WishlistService) Add(ctx context.Context, item models.WishlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *WishlistService) Remove(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *WishlistService) Contains(ctx context.Context, productID string) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *WishlistService) Toggle(ctx context.Context, item models.WishlistItem) (bool, error) {
	args := m.Called(ctx, item)
	return args.Bool(0), args.Error(1)
}

type BadgeService struct {
	mock.Mock
}

func (m *BadgeService) Badges(ctx context.Context) (*models.Badges, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Badges), args.Error(1)
}

type SyncReconciler struct {
	mock.Mock
}

func (m *SyncReconciler) Reconcile(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type AuthService struct {
	mock.Mock
}

func (m *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) uniforms(args mock.Arguments) ([]models.Uniform, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Uniform), args.Error(1)
}

func (m *CatalogService) ListUniforms(ctx context.Context) ([]models.Uniform, error) {
	return m.uniforms(m.Called(ctx))
}

func (m *CatalogService) RecentUniforms(ctx context.Context, limit int) ([]models.Uniform, error) {
	return m.uniforms(m.Called(ctx, limit))
}

func (m *CatalogService) TopRatedUniforms(ctx context.Context, limit int) ([]models.Uniform, error) {
	return m.uniforms(m.Called(ctx, limit))
}

func (m *CatalogService) UniformsByCategory(ctx context.Context, category string) ([]models.Uniform, error) {
	return m.uniforms(m.Called(ctx, category))
}

func (m *CatalogService) UniformsBySchool(ctx context.Context, schoolID string) ([]models.Uniform, error) {
	return m.uniforms(m.Called(ctx, schoolID))
}

func (m *CatalogService) GetUniform(ctx context.Context, id string) (*models.Uniform, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Uniform), args.Error(1)
}

func (m *CatalogService) ListSchools(ctx context.Context) ([]models.School, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.School), args.Error(1)
}

func (m *CatalogService) GetSchool(ctx context.Context, id string) (*models.School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.School), args.Error(1)
}

func (m *CatalogService) GetProductDetail(ctx context.Context, id string) (*models.ProductDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductDetail), args.Error(1)
}
