package service

import (
	"LinkHub-Backend/internal/domain"
	"LinkHub-Backend/internal/repository"
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStorage мок хранилища для тестов ошибочных путей сервисов.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) FindActiveUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStorage) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStorage) SaveLink(ctx context.Context, link *domain.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockStorage) GetLink(ctx context.Context, id uuid.UUID) (*domain.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockStorage) GetActiveLink(ctx context.Context, id uuid.UUID) (*domain.Link, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockStorage) GetUserLink(ctx context.Context, id, userID uuid.UUID) (*domain.Link, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockStorage) UpdateLink(ctx context.Context, link *domain.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockStorage) DeleteLink(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStorage) ListUserLinks(ctx context.Context, userID uuid.UUID) ([]*domain.Link, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

func (m *MockStorage) CountUserLinks(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) MaxLinkPosition(ctx context.Context, userID uuid.UUID) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockStorage) UpdateLinkPositions(ctx context.Context, userID uuid.UUID, items []repository.ReorderItem) error {
	args := m.Called(ctx, userID, items)
	return args.Error(0)
}

func (m *MockStorage) CreateProfileView(ctx context.Context, view *domain.ProfileView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *MockStorage) HasRecentProfileView(ctx context.Context, userID uuid.UUID, viewerIP net.IP, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, viewerIP, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) RecordLinkClick(ctx context.Context, click *domain.LinkClick) error {
	args := m.Called(ctx, click)
	return args.Error(0)
}

func (m *MockStorage) CountProfileViews(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountProfileViewsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CountLinkClicksSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) ListLinksByClicks(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Link, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

func (m *MockStorage) DailyViewStats(ctx context.Context, userID uuid.UUID, since time.Time) ([]repository.DailyViewRow, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DailyViewRow), args.Error(1)
}

func (m *MockStorage) RecentLinkClicks(ctx context.Context, userID uuid.UUID, limit int) ([]repository.RecentClickRow, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RecentClickRow), args.Error(1)
}

func (m *MockStorage) ClicksByDevice(ctx context.Context, linkID uuid.UUID) (map[string]int64, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}
