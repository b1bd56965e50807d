package domain

import (
	"time"

	"github.com/google/uuid"
)

// Типы ссылок: обычная ссылка или заголовок секции (без URL)
const (
	LinkTypeLink   = "link"
	LinkTypeHeader = "header"
)

// MaxLinksPerUser максимальное количество ссылок на пользователя
const MaxLinksPerUser = 50

// Link представляет одну ссылку на публичной странице пользователя.
type Link struct {
	ID             uuid.UUID  `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	UserID         uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title          string     `gorm:"column:title;size:100;not null" json:"title"`
	URL            *string    `gorm:"column:url;size:2000" json:"url,omitempty"`
	Description    *string    `gorm:"column:description;type:text" json:"description,omitempty"`
	ThumbnailURL   *string    `gorm:"column:thumbnail_url;type:text" json:"thumbnail_url,omitempty"`
	Position       int32      `gorm:"column:position;not null;default:0" json:"position"`
	IsActive       bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ClickCount     int32      `gorm:"column:click_count;not null;default:0" json:"click_count"`
	ScheduledStart *time.Time `gorm:"column:scheduled_start" json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `gorm:"column:scheduled_end" json:"scheduled_end,omitempty"`
	IsSensitive    bool       `gorm:"column:is_sensitive;not null;default:false" json:"is_sensitive"`
	LinkType       string     `gorm:"column:link_type;size:20;not null;default:link" json:"link_type"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	User   *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Clicks []LinkClick `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"clicks,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (Link) TableName() string {
	return "links"
}

// IsPubliclyVisible проверяет, показывается ли ссылка посетителям в момент now.
// Начало окна включительно, конец исключительно; отсутствующая граница не ограничивает.
// IsSensitive на видимость не влияет.
func (l *Link) IsPubliclyVisible(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	if l.ScheduledStart != nil && now.Before(*l.ScheduledStart) {
		return false
	}
	if l.ScheduledEnd != nil && !now.Before(*l.ScheduledEnd) {
		return false
	}
	return true
}
