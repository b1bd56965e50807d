package domain

import (
	"time"

	"github.com/google/uuid"
)

// User представляет владельца страницы ссылок.
type User struct {
	ID           uuid.UUID `gorm:"primaryKey;column:id;type:uuid" json:"id"`
	Username     string    `gorm:"column:username;size:30;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"` // скрываем пароль в JSON
	DisplayName  *string   `gorm:"column:display_name;size:100" json:"display_name,omitempty"`
	Bio          *string   `gorm:"column:bio;type:text" json:"bio,omitempty"`
	AvatarURL    *string   `gorm:"column:avatar_url;size:500" json:"avatar_url,omitempty"`
	Theme        string    `gorm:"column:theme;size:50;default:default" json:"theme"`
	BgColor      string    `gorm:"column:bg_color;size:7;default:#ffffff" json:"bg_color"`
	IsActive     bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Links        []Link        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"links,omitempty"`
	ProfileViews []ProfileView `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile_views,omitempty"`
}

// TableName возвращает название таблицы для GORM
func (User) TableName() string {
	return "users"
}
