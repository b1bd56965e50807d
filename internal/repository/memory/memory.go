package memory

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/domain"
	"LinkHub-Backend/internal/repository"
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStorage потокобезопасная in-memory реализация Storage для тестов
// и локального запуска без PostgreSQL.
type MemStorage struct {
	mu           sync.RWMutex
	users        map[uuid.UUID]*domain.User
	links        map[uuid.UUID]*domain.Link
	views        []*domain.ProfileView
	clicks       []*domain.LinkClick
	viewCounter  int64
	clickCounter int64
}

func New() *MemStorage {
	return &MemStorage{
		users: make(map[uuid.UUID]*domain.User),
		links: make(map[uuid.UUID]*domain.Link),
	}
}

// AddUser регистрирует пользователя в хранилище (хелпер для тестов и сидинга)
func (s *MemStorage) AddUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// --- User Methods ---

func (s *MemStorage) FindActiveUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username && user.IsActive {
			return user, nil
		}
	}
	return nil, apperr.NotFound("user %q", username)
}

func (s *MemStorage) GetUser(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s", id)
	}
	return user, nil
}

func (s *MemStorage) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// --- Link Methods ---

func (s *MemStorage) SaveLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ID] = link
	return nil
}

func (s *MemStorage) GetLink(_ context.Context, id uuid.UUID) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok {
		return nil, apperr.NotFound("link %s", id)
	}
	return link, nil
}

func (s *MemStorage) GetActiveLink(_ context.Context, id uuid.UUID) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok || !link.IsActive {
		// неизвестная и неактивная ссылка отвечают одинаково
		return nil, apperr.NotFound("link %s", id)
	}
	return link, nil
}

func (s *MemStorage) GetUserLink(_ context.Context, id, userID uuid.UUID) (*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.links[id]
	if !ok || link.UserID != userID {
		return nil, apperr.NotFound("link %s", id)
	}
	return link, nil
}

func (s *MemStorage) UpdateLink(_ context.Context, link *domain.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[link.ID]; !ok {
		return apperr.NotFound("link %s", link.ID)
	}
	s.links[link.ID] = link
	return nil
}

func (s *MemStorage) DeleteLink(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return apperr.NotFound("link %s", id)
	}
	delete(s.links, id)

	// каскадное удаление кликов, как по внешнему ключу в PostgreSQL
	kept := s.clicks[:0]
	for _, c := range s.clicks {
		if c.LinkID != id {
			kept = append(kept, c)
		}
	}
	s.clicks = kept
	return nil
}

func (s *MemStorage) ListUserLinks(_ context.Context, userID uuid.UUID) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedUserLinks(userID), nil
}

func (s *MemStorage) CountUserLinks(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, link := range s.links {
		if link.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) MaxLinkPosition(_ context.Context, userID uuid.UUID) (int32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := int32(-1)
	for _, link := range s.links {
		if link.UserID == userID && link.Position > max {
			max = link.Position
		}
	}
	return max, nil
}

func (s *MemStorage) UpdateLinkPositions(_ context.Context, userID uuid.UUID, items []repository.ReorderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		link, ok := s.links[item.ID]
		if !ok || link.UserID != userID {
			continue // чужая или неизвестная ссылка, пропускаем
		}
		link.Position = item.Position
	}
	return nil
}

// --- Engagement Methods ---

func (s *MemStorage) CreateProfileView(_ context.Context, view *domain.ProfileView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewCounter++
	view.ID = s.viewCounter
	s.views = append(s.views, view)
	return nil
}

func (s *MemStorage) HasRecentProfileView(_ context.Context, userID uuid.UUID, viewerIP net.IP, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.views {
		if v.UserID != userID || v.ViewerIP == nil {
			continue
		}
		if v.ViewerIP.Equal(viewerIP) && !v.ViewedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStorage) RecordLinkClick(_ context.Context, click *domain.LinkClick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[click.LinkID]
	if !ok {
		return apperr.NotFound("link %s", click.LinkID)
	}
	link.ClickCount++
	s.clickCounter++
	click.ID = s.clickCounter
	s.clicks = append(s.clicks, click)
	return nil
}

// --- Analytics Queries ---

func (s *MemStorage) CountProfileViews(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, v := range s.views {
		if v.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) CountProfileViewsSince(_ context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, v := range s.views {
		if v.UserID == userID && !v.ViewedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) CountLinkClicksSince(_ context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, c := range s.clicks {
		if c.UserID == userID && !c.ClickedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) ListLinksByClicks(_ context.Context, userID uuid.UUID, limit int) ([]*domain.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var links []*domain.Link
	for _, link := range s.links {
		if link.UserID == userID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].ClickCount != links[j].ClickCount {
			return links[i].ClickCount > links[j].ClickCount
		}
		if !links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].CreatedAt.Before(links[j].CreatedAt)
		}
		return links[i].ID.String() < links[j].ID.String()
	})
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

func (s *MemStorage) DailyViewStats(_ context.Context, userID uuid.UUID, since time.Time) ([]repository.DailyViewRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		count int64
		ips   map[string]struct{}
	}
	buckets := make(map[time.Time]*bucket)

	for _, v := range s.views {
		if v.UserID != userID || v.ViewedAt.Before(since) {
			continue
		}
		day := v.ViewedAt.UTC().Truncate(24 * time.Hour)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{ips: make(map[string]struct{})}
			buckets[day] = b
		}
		b.count++
		if v.ViewerIP != nil {
			b.ips[v.ViewerIP.String()] = struct{}{}
		}
	}

	rows := make([]repository.DailyViewRow, 0, len(buckets))
	for day, b := range buckets {
		rows = append(rows, repository.DailyViewRow{
			Date:           day,
			ViewCount:      b.count,
			UniqueVisitors: int64(len(b.ips)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

func (s *MemStorage) RecentLinkClicks(_ context.Context, userID uuid.UUID, limit int) ([]repository.RecentClickRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.LinkClick
	for _, c := range s.clicks {
		if c.UserID == userID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].ClickedAt.Equal(matched[j].ClickedAt) {
			return matched[i].ClickedAt.After(matched[j].ClickedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	rows := make([]repository.RecentClickRow, 0, len(matched))
	for _, c := range matched {
		row := repository.RecentClickRow{
			LinkID:     c.LinkID,
			VisitorIP:  c.VisitorIP,
			DeviceType: c.DeviceType,
			ClickedAt:  c.ClickedAt,
		}
		if link, ok := s.links[c.LinkID]; ok {
			row.Title = link.Title
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *MemStorage) ClicksByDevice(_ context.Context, linkID uuid.UUID) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clicksByDevice := make(map[string]int64)
	for _, c := range s.clicks {
		if c.LinkID != linkID {
			continue
		}
		device := "unknown"
		if c.DeviceType != nil {
			device = *c.DeviceType
		}
		clicksByDevice[device]++
	}
	return clicksByDevice, nil
}

// --- Helpers ---

func (s *MemStorage) sortedUserLinks(userID uuid.UUID) []*domain.Link {
	var links []*domain.Link
	for _, link := range s.links {
		if link.UserID == userID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Position != links[j].Position {
			return links[i].Position < links[j].Position
		}
		if !links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].CreatedAt.Before(links[j].CreatedAt)
		}
		return links[i].ID.String() < links[j].ID.String()
	})
	return links
}
