package repository

import (
	"LinkHub-Backend/internal/domain"
	"context"
	"net"
	"time"

	"github.com/google/uuid"
)

// ReorderItem задает новую позицию для одной ссылки в батче reorder.
type ReorderItem struct {
	ID       uuid.UUID
	Position int32
}

// DailyViewRow одна строка агрегации просмотров по календарному дню (UTC).
type DailyViewRow struct {
	Date           time.Time
	ViewCount      int64
	UniqueVisitors int64
}

// RecentClickRow клик, соединенный с текущим заголовком ссылки.
type RecentClickRow struct {
	LinkID     uuid.UUID
	Title      string
	VisitorIP  *net.IP
	DeviceType *string
	ClickedAt  time.Time
}

// Storage контракт хранилища. Отсутствующие сущности возвращаются как
// apperr.ErrNotFound; все остальные ошибки считаются инфраструктурными.
type Storage interface {
	// User methods
	FindActiveUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Link methods
	SaveLink(ctx context.Context, link *domain.Link) error
	GetLink(ctx context.Context, id uuid.UUID) (*domain.Link, error)
	GetActiveLink(ctx context.Context, id uuid.UUID) (*domain.Link, error)
	GetUserLink(ctx context.Context, id, userID uuid.UUID) (*domain.Link, error)
	UpdateLink(ctx context.Context, link *domain.Link) error
	DeleteLink(ctx context.Context, id uuid.UUID) error
	ListUserLinks(ctx context.Context, userID uuid.UUID) ([]*domain.Link, error)
	CountUserLinks(ctx context.Context, userID uuid.UUID) (int64, error)
	MaxLinkPosition(ctx context.Context, userID uuid.UUID) (int32, error)
	UpdateLinkPositions(ctx context.Context, userID uuid.UUID, items []ReorderItem) error

	// Engagement methods
	CreateProfileView(ctx context.Context, view *domain.ProfileView) error
	HasRecentProfileView(ctx context.Context, userID uuid.UUID, viewerIP net.IP, since time.Time) (bool, error)
	RecordLinkClick(ctx context.Context, click *domain.LinkClick) error

	// Analytics queries
	CountProfileViews(ctx context.Context, userID uuid.UUID) (int64, error)
	CountProfileViewsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	CountLinkClicksSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	ListLinksByClicks(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Link, error)
	DailyViewStats(ctx context.Context, userID uuid.UUID, since time.Time) ([]DailyViewRow, error)
	RecentLinkClicks(ctx context.Context, userID uuid.UUID, limit int) ([]RecentClickRow, error)
	ClicksByDevice(ctx context.Context, linkID uuid.UUID) (map[string]int64, error)
}
