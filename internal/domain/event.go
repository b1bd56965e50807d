package domain

import (
	"net"
	"time"

	"github.com/google/uuid"
)

// ProfileView представляет просмотр публичной страницы пользователя.
// Записи только добавляются и никогда не изменяются.
type ProfileView struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	ViewerIP  *net.IP   `gorm:"column:viewer_ip;type:inet" json:"viewer_ip,omitempty"`
	UserAgent *string   `gorm:"column:user_agent;size:500" json:"user_agent,omitempty"`
	ViewedAt  time.Time `gorm:"column:viewed_at;not null;index" json:"viewed_at"`
}

// TableName возвращает название таблицы для GORM
func (ProfileView) TableName() string {
	return "profile_views"
}

// LinkClick представляет клик по ссылке. UserID денормализован
// (владелец ссылки), чтобы выборки по пользователю не требовали join.
type LinkClick struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	LinkID     uuid.UUID `gorm:"column:link_id;type:uuid;not null;index" json:"link_id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	VisitorIP  *net.IP   `gorm:"column:visitor_ip;type:inet" json:"visitor_ip,omitempty"`
	UserAgent  *string   `gorm:"column:user_agent;size:500" json:"user_agent,omitempty"`
	DeviceType *string   `gorm:"column:device_type;size:10" json:"device_type,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	ClickedAt  time.Time `gorm:"column:clicked_at;not null;index" json:"clicked_at"`

	// Relationships
	Link *Link `gorm:"foreignKey:LinkID" json:"link,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (LinkClick) TableName() string {
	return "link_clicks"
}
