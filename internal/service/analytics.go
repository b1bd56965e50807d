package service

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/repository"
	"context"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyticsService computes derived statistics over links and engagement
// events. Every call is a pure function of current store contents plus the
// caller-supplied now; nothing is cached here.
type AnalyticsService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewAnalyticsService(storage repository.Storage, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		storage: storage,
		log:     log,
	}
}

// Summary totals across all of a user's links and events.
type Summary struct {
	TotalClicks      int64   `json:"total_clicks"`
	TotalViews       int64   `json:"total_views"`
	TotalLinks       int64   `json:"total_links"`
	TodayClicks      int64   `json:"today_clicks"`
	TodayViews       int64   `json:"today_views"`
	ClickThroughRate float64 `json:"click_through_rate"`
}

// LinkStat per-link click totals.
type LinkStat struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	URL        *string   `json:"url,omitempty"`
	ClickCount int32     `json:"click_count"`
	IsActive   bool      `json:"is_active"`
}

// DailyViewStat one UTC calendar-day bucket.
type DailyViewStat struct {
	Date           string `json:"date"` // YYYY-MM-DD
	ViewCount      int64  `json:"view_count"`
	UniqueVisitors int64  `json:"unique_visitors"`
}

// ViewStats daily buckets over a trailing window ending today.
type ViewStats struct {
	Days       int             `json:"days"`
	TotalViews int64           `json:"total_views"`
	Daily      []DailyViewStat `json:"daily"`
}

// TopLink a ranked link with its click-through rate.
type TopLink struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	URL        *string   `json:"url,omitempty"`
	ClickCount int32     `json:"click_count"`
	CTR        float64   `json:"ctr"`
}

// RecentClick one recent click joined with the link's current title. The
// visitor IP is privacy-masked before it leaves this layer.
type RecentClick struct {
	LinkID     uuid.UUID `json:"link_id"`
	Title      string    `json:"title"`
	VisitorIP  *string   `json:"visitor_ip,omitempty"`
	DeviceType *string   `json:"device_type,omitempty"`
	ClickedAt  time.Time `json:"clicked_at"`
}

// GetSummary computes the dashboard headline numbers. "Today" is the current
// UTC calendar day; the click-through rate is total clicks per total views as
// a percentage, 0.0 when there are no views.
func (s *AnalyticsService) GetSummary(ctx context.Context, userID uuid.UUID, now time.Time) (*Summary, error) {
	links, err := s.storage.ListUserLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	var totalClicks int64
	for _, link := range links {
		totalClicks += int64(link.ClickCount)
	}

	totalViews, err := s.storage.CountProfileViews(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count views: %w", err)
	}

	todayStart := startOfUTCDay(now)
	todayClicks, err := s.storage.CountLinkClicksSince(ctx, userID, todayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count today clicks: %w", err)
	}
	todayViews, err := s.storage.CountProfileViewsSince(ctx, userID, todayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count today views: %w", err)
	}

	return &Summary{
		TotalClicks:      totalClicks,
		TotalViews:       totalViews,
		TotalLinks:       int64(len(links)),
		TodayClicks:      todayClicks,
		TodayViews:       todayViews,
		ClickThroughRate: rate(totalClicks, totalViews),
	}, nil
}

// GetLinkStats returns one entry per link, most clicked first.
func (s *AnalyticsService) GetLinkStats(ctx context.Context, userID uuid.UUID) ([]LinkStat, error) {
	links, err := s.storage.ListLinksByClicks(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list links by clicks: %w", err)
	}

	stats := make([]LinkStat, 0, len(links))
	for _, link := range links {
		stats = append(stats, LinkStat{
			ID:         link.ID,
			Title:      link.Title,
			URL:        link.URL,
			ClickCount: link.ClickCount,
			IsActive:   link.IsActive,
		})
	}
	return stats, nil
}

// GetViewStats buckets profile views into exactly days consecutive UTC
// calendar days ending today inclusive. Days without events appear as zero
// buckets rather than being omitted. Correct for any days >= 1; range
// validation belongs to the transport boundary.
func (s *AnalyticsService) GetViewStats(ctx context.Context, userID uuid.UUID, days int, now time.Time) (*ViewStats, error) {
	firstDay := startOfUTCDay(now).AddDate(0, 0, -(days - 1))

	rows, err := s.storage.DailyViewStats(ctx, userID, firstDay)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily view stats: %w", err)
	}

	byDate := make(map[string]repository.DailyViewRow, len(rows))
	for _, row := range rows {
		byDate[row.Date.UTC().Format("2006-01-02")] = row
	}

	daily := make([]DailyViewStat, 0, days)
	var totalViews int64
	for i := 0; i < days; i++ {
		date := firstDay.AddDate(0, 0, i).Format("2006-01-02")
		stat := DailyViewStat{Date: date}
		if row, ok := byDate[date]; ok {
			stat.ViewCount = row.ViewCount
			stat.UniqueVisitors = row.UniqueVisitors
		}
		totalViews += stat.ViewCount
		daily = append(daily, stat)
	}

	return &ViewStats{
		Days:       days,
		TotalViews: totalViews,
		Daily:      daily,
	}, nil
}

// GetTopLinks ranks the user's links by click count. Each CTR is computed
// against the user's single aggregate view count, not a per-link denominator;
// all CTRs are 0.0 when the user has no views.
func (s *AnalyticsService) GetTopLinks(ctx context.Context, userID uuid.UUID, limit int) ([]TopLink, error) {
	totalViews, err := s.storage.CountProfileViews(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count views: %w", err)
	}

	links, err := s.storage.ListLinksByClicks(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list links by clicks: %w", err)
	}

	top := make([]TopLink, 0, len(links))
	for _, link := range links {
		top = append(top, TopLink{
			ID:         link.ID,
			Title:      link.Title,
			URL:        link.URL,
			ClickCount: link.ClickCount,
			CTR:        rate(int64(link.ClickCount), totalViews),
		})
	}
	return top, nil
}

// GetRecentClicks returns the newest clicks joined with current link titles.
// Visitor IPs are masked: an IPv4 address loses its last octet, anything else
// keeps all but its final three characters; absent IPs stay absent.
func (s *AnalyticsService) GetRecentClicks(ctx context.Context, userID uuid.UUID, limit int) ([]RecentClick, error) {
	rows, err := s.storage.RecentLinkClicks(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent clicks: %w", err)
	}

	clicks := make([]RecentClick, 0, len(rows))
	for _, row := range rows {
		clicks = append(clicks, RecentClick{
			LinkID:     row.LinkID,
			Title:      row.Title,
			VisitorIP:  MaskIP(row.VisitorIP),
			DeviceType: row.DeviceType,
			ClickedAt:  row.ClickedAt,
		})
	}
	return clicks, nil
}

// GetClicksByDevice returns the per-device click breakdown for one owned link.
func (s *AnalyticsService) GetClicksByDevice(ctx context.Context, userID, linkID uuid.UUID) (map[string]int64, error) {
	link, err := s.storage.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, apperr.Forbidden("link %s is not owned by user %s", linkID, userID)
	}
	return s.storage.ClicksByDevice(ctx, linkID)
}

// MaskIP privacy-masks a visitor address. The rule branches on the parsed
// address form, not its textual prefix: 192.168.1.100 -> 192.168.1.*, while
// an IPv6 address such as 2001:db8::1 -> 2001:db8***.
func MaskIP(ip *net.IP) *string {
	if ip == nil {
		return nil
	}

	var masked string
	if v4 := ip.To4(); v4 != nil {
		masked = fmt.Sprintf("%d.%d.%d.*", v4[0], v4[1], v4[2])
	} else {
		s := (*ip).String()
		cut := len(s) - 3
		if cut < 0 {
			cut = 0
		}
		masked = s[:cut] + "***"
	}
	return &masked
}

// rate is round(part/whole*100, 2), with 0.0 for an empty denominator.
func rate(part, whole int64) float64 {
	if whole <= 0 {
		return 0.0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}

func startOfUTCDay(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
