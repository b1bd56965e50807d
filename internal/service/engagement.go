package service

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/domain"
	"LinkHub-Backend/internal/repository"
	"LinkHub-Backend/pkg/useragent"
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ViewDedupWindow is the trailing interval within which repeat views from the
// same IP are suppressed.
const ViewDedupWindow = time.Hour

// maxUserAgentLen caps stored User-Agent strings.
const maxUserAgentLen = 500

// ViewOutcome reports whether a view was recorded or suppressed.
type ViewOutcome string

const (
	ViewRecorded        ViewOutcome = "recorded"
	ViewAlreadyRecorded ViewOutcome = "already_recorded"
)

// EngagementService appends view and click events. View de-duplication is a
// check-then-insert without a uniqueness constraint: concurrent requests
// inside the window can both record. At-most-approximately-once, by contract.
type EngagementService struct {
	storage repository.Storage
	ua      *useragent.Parser // nil falls back to keyword detection
	log     *zap.Logger
}

func NewEngagementService(storage repository.Storage, ua *useragent.Parser, log *zap.Logger) *EngagementService {
	return &EngagementService{
		storage: storage,
		ua:      ua,
		log:     log,
	}
}

// RecordView records a profile view for an active user. With a viewer IP
// present, a view from the same IP within ViewDedupWindow suppresses the
// insert; without one the view is always recorded.
func (s *EngagementService) RecordView(ctx context.Context, username string, viewerIP *net.IP, userAgent *string, now time.Time) (ViewOutcome, error) {
	user, err := s.storage.FindActiveUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if viewerIP != nil {
		seen, err := s.storage.HasRecentProfileView(ctx, user.ID, *viewerIP, now.Add(-ViewDedupWindow))
		if err != nil {
			return "", fmt.Errorf("failed to check recent views: %w", err)
		}
		if seen {
			return ViewAlreadyRecorded, nil
		}
	}

	view := &domain.ProfileView{
		UserID:    user.ID,
		ViewerIP:  viewerIP,
		UserAgent: truncateUserAgent(userAgent),
		ViewedAt:  now,
	}
	if err := s.storage.CreateProfileView(ctx, view); err != nil {
		return "", fmt.Errorf("failed to record view: %w", err)
	}

	s.log.Debug("recorded profile view", zap.String("username", username))
	return ViewRecorded, nil
}

// RecordClick records a click on an active link and returns its redirect
// target. Unknown ids, inactive links and header entries (which carry no URL)
// all answer NotFound, so callers cannot probe for existence. The event insert
// and the click_count increment commit in one storage transaction; clicks are
// never de-duplicated.
func (s *EngagementService) RecordClick(ctx context.Context, linkID uuid.UUID, visitorIP *net.IP, userAgent *string, now time.Time) (string, error) {
	link, err := s.storage.GetActiveLink(ctx, linkID)
	if err != nil {
		return "", err
	}
	if link.URL == nil || *link.URL == "" {
		return "", apperr.NotFound("link %s", linkID)
	}

	click := &domain.LinkClick{
		LinkID:    link.ID,
		UserID:    link.UserID,
		VisitorIP: visitorIP,
		UserAgent: truncateUserAgent(userAgent),
		ClickedAt: now,
	}
	if userAgent != nil {
		device := s.ua.DeviceType(*userAgent)
		click.DeviceType = &device
	}

	if err := s.storage.RecordLinkClick(ctx, click); err != nil {
		return "", err
	}

	s.log.Debug("recorded link click",
		zap.String("link_id", linkID.String()),
		zap.String("user_id", link.UserID.String()))
	return *link.URL, nil
}

func truncateUserAgent(ua *string) *string {
	if ua == nil {
		return nil
	}
	if len(*ua) <= maxUserAgentLen {
		return ua
	}
	trimmed := (*ua)[:maxUserAgentLen]
	return &trimmed
}
