package service

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/domain"
	"LinkHub-Backend/internal/repository"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService serves public pages and owner profile reads/updates.
type ProfileService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewProfileService(storage repository.Storage, log *zap.Logger) *ProfileService {
	return &ProfileService{
		storage: storage,
		log:     log,
	}
}

// PublicProfile is the visitor-facing page: profile fields plus the links
// visible at the requested time, in display order.
type PublicProfile struct {
	Username    string         `json:"username"`
	DisplayName *string        `json:"display_name,omitempty"`
	Bio         *string        `json:"bio,omitempty"`
	AvatarURL   *string        `json:"avatar_url,omitempty"`
	Theme       string         `json:"theme"`
	BgColor     string         `json:"bg_color"`
	Links       []*domain.Link `json:"links"`
}

// UpdateProfileInput carries a partial profile update; nil fields are left
// unchanged.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	Theme       *string
	BgColor     *string
}

// GetPublicProfile resolves an active user by username and returns their page
// with only the links publicly visible at now.
func (s *ProfileService) GetPublicProfile(ctx context.Context, username string, now time.Time) (*PublicProfile, error) {
	user, err := s.storage.FindActiveUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	links, err := s.visibleLinks(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		Theme:       user.Theme,
		BgColor:     user.BgColor,
		Links:       links,
	}, nil
}

// ListPublic returns the publicly visible links of an active user at now,
// ordered by position. Inactive users answer NotFound.
func (s *ProfileService) ListPublic(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Link, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.NotFound("user %s", userID)
	}
	return s.visibleLinks(ctx, userID, now)
}

// GetMyProfile returns the owner's own profile.
func (s *ProfileService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.storage.GetUser(ctx, userID)
}

// UpdateProfile applies a partial update to the owner's profile fields.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		user.DisplayName = input.DisplayName
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	if input.Theme != nil {
		user.Theme = *input.Theme
	}
	if input.BgColor != nil {
		user.BgColor = *input.BgColor
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (s *ProfileService) visibleLinks(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Link, error) {
	links, err := s.storage.ListUserLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	visible := make([]*domain.Link, 0, len(links))
	for _, link := range links {
		if link.IsPubliclyVisible(now) {
			visible = append(visible, link)
		}
	}
	return visible, nil
}
