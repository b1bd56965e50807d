package service

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/domain"
	"LinkHub-Backend/internal/repository"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LinkService owns link CRUD and the display ordering of a user's links.
type LinkService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewLinkService(storage repository.Storage, log *zap.Logger) *LinkService {
	return &LinkService{
		storage: storage,
		log:     log,
	}
}

// CreateLinkInput carries the owner-supplied fields for a new link.
type CreateLinkInput struct {
	Title          string
	URL            *string
	Description    *string
	ThumbnailURL   *string
	LinkType       string
	IsSensitive    bool
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
}

// UpdateLinkInput carries a partial update; nil fields are left unchanged.
type UpdateLinkInput struct {
	Title          *string
	URL            *string
	Description    *string
	ThumbnailURL   *string
	IsActive       *bool
	LinkType       *string
	IsSensitive    *bool
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
}

// Create appends a link at the end of the user's page: its position is one
// past the current maximum, or 0 for a first link. Users are capped at
// domain.MaxLinksPerUser links.
func (s *LinkService) Create(ctx context.Context, userID uuid.UUID, input CreateLinkInput) (*domain.Link, error) {
	if input.LinkType == "" {
		input.LinkType = domain.LinkTypeLink
	}
	if err := validateLinkFields(input.Title, input.URL, input.LinkType, input.ScheduledStart, input.ScheduledEnd); err != nil {
		return nil, err
	}

	count, err := s.storage.CountUserLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count links: %w", err)
	}
	if count >= domain.MaxLinksPerUser {
		return nil, apperr.BadRequest("link limit of %d reached", domain.MaxLinksPerUser)
	}

	maxPos, err := s.storage.MaxLinkPosition(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max position: %w", err)
	}

	now := time.Now().UTC()
	link := &domain.Link{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          strings.TrimSpace(input.Title),
		URL:            input.URL,
		Description:    input.Description,
		ThumbnailURL:   input.ThumbnailURL,
		Position:       maxPos + 1,
		IsActive:       true,
		LinkType:       input.LinkType,
		IsSensitive:    input.IsSensitive,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.storage.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("created link",
		zap.String("link_id", link.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int32("position", link.Position))
	return link, nil
}

// List returns the user's links in display order.
func (s *LinkService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Link, error) {
	return s.storage.ListUserLinks(ctx, userID)
}

// Reorder overwrites positions from the given batch in one transaction and
// returns the resulting display order. Items referencing links the user does
// not own are skipped without error; duplicate positions are legal.
func (s *LinkService) Reorder(ctx context.Context, userID uuid.UUID, items []repository.ReorderItem) ([]*domain.Link, error) {
	if err := s.storage.UpdateLinkPositions(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("failed to reorder links: %w", err)
	}

	s.log.Info("reordered links", zap.String("user_id", userID.String()), zap.Int("items", len(items)))
	return s.storage.ListUserLinks(ctx, userID)
}

// Update applies a partial update to an owned link.
func (s *LinkService) Update(ctx context.Context, linkID, userID uuid.UUID, input UpdateLinkInput) (*domain.Link, error) {
	link, err := s.ownedLink(ctx, linkID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		link.Title = strings.TrimSpace(*input.Title)
	}
	if input.URL != nil {
		link.URL = input.URL
	}
	if input.Description != nil {
		link.Description = input.Description
	}
	if input.ThumbnailURL != nil {
		link.ThumbnailURL = input.ThumbnailURL
	}
	if input.IsActive != nil {
		link.IsActive = *input.IsActive
	}
	if input.LinkType != nil {
		link.LinkType = *input.LinkType
	}
	if input.IsSensitive != nil {
		link.IsSensitive = *input.IsSensitive
	}
	if input.ScheduledStart != nil {
		link.ScheduledStart = input.ScheduledStart
	}
	if input.ScheduledEnd != nil {
		link.ScheduledEnd = input.ScheduledEnd
	}

	if err := validateLinkFields(link.Title, link.URL, link.LinkType, link.ScheduledStart, link.ScheduledEnd); err != nil {
		return nil, err
	}

	link.UpdatedAt = time.Now().UTC()
	if err := s.storage.UpdateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	return link, nil
}

// Delete removes an owned link; its click events are cascade-deleted.
func (s *LinkService) Delete(ctx context.Context, linkID, userID uuid.UUID) error {
	if _, err := s.ownedLink(ctx, linkID, userID); err != nil {
		return err
	}
	if err := s.storage.DeleteLink(ctx, linkID); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	s.log.Info("deleted link", zap.String("link_id", linkID.String()), zap.String("user_id", userID.String()))
	return nil
}

// Toggle flips is_active on an owned link.
func (s *LinkService) Toggle(ctx context.Context, linkID, userID uuid.UUID) (*domain.Link, error) {
	link, err := s.ownedLink(ctx, linkID, userID)
	if err != nil {
		return nil, err
	}

	link.IsActive = !link.IsActive
	link.UpdatedAt = time.Now().UTC()
	if err := s.storage.UpdateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to toggle link: %w", err)
	}

	return link, nil
}

// ownedLink loads a link and enforces ownership: a missing link answers
// NotFound, a foreign one Forbidden.
func (s *LinkService) ownedLink(ctx context.Context, linkID, userID uuid.UUID) (*domain.Link, error) {
	link, err := s.storage.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, apperr.Forbidden("link %s is not owned by user %s", linkID, userID)
	}
	return link, nil
}

var blockedURLSchemes = []string{"javascript:", "data:", "vbscript:"}

func validateLinkFields(title string, url *string, linkType string, start, end *time.Time) error {
	if strings.TrimSpace(title) == "" {
		return apperr.BadRequest("title must not be blank")
	}
	if len(title) > 100 {
		return apperr.BadRequest("title must be at most 100 characters")
	}

	if linkType != domain.LinkTypeLink && linkType != domain.LinkTypeHeader {
		return apperr.BadRequest("link_type must be %q or %q", domain.LinkTypeLink, domain.LinkTypeHeader)
	}
	if linkType == domain.LinkTypeLink && (url == nil || *url == "") {
		return apperr.BadRequest("url is required for link_type %q", domain.LinkTypeLink)
	}

	if url != nil && *url != "" {
		u := *url
		lower := strings.ToLower(u)
		for _, scheme := range blockedURLSchemes {
			if strings.HasPrefix(lower, scheme) {
				return apperr.BadRequest("url scheme is not allowed")
			}
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return apperr.BadRequest("url must start with http:// or https://")
		}
		if len(u) > 2000 {
			return apperr.BadRequest("url must be at most 2000 characters")
		}
	}

	if start != nil && end != nil && !end.After(*start) {
		return apperr.BadRequest("scheduled_end must be after scheduled_start")
	}

	return nil
}
