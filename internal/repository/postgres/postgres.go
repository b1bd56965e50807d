package postgres

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/domain"
	"LinkHub-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage реализует интерфейс Storage для PostgreSQL
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New создает новый экземпляр PostgreSQL storage
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- User Methods ---

// FindActiveUserByUsername находит активного пользователя по username
func (s *PostgresStorage) FindActiveUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("username = ? AND is_active = ?", username, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %q", username)
	}
	if err != nil {
		s.log.Error("failed to find user by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// GetUser получает пользователя по ID
func (s *PostgresStorage) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user %s", id)
	}
	if err != nil {
		s.log.Error("failed to get user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateUser сохраняет изменения профиля пользователя
func (s *PostgresStorage) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		s.log.Error("failed to update user", zap.String("user_id", user.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// --- Link Methods ---

// SaveLink сохраняет новую ссылку
func (s *PostgresStorage) SaveLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		s.log.Error("failed to save link", zap.String("link_id", link.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.log.Info("saved new link", zap.String("link_id", link.ID.String()), zap.String("user_id", link.UserID.String()))
	return nil
}

// GetLink получает ссылку по ID независимо от is_active
func (s *PostgresStorage) GetLink(ctx context.Context, id uuid.UUID) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("link %s", id)
	}
	if err != nil {
		s.log.Error("failed to get link", zap.String("link_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// GetActiveLink получает активную ссылку. Неизвестный ID и неактивная ссылка
// неразличимы для вызывающего: оба случая отвечают NotFound.
func (s *PostgresStorage) GetActiveLink(ctx context.Context, id uuid.UUID) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("link %s", id)
	}
	if err != nil {
		s.log.Error("failed to get active link", zap.String("link_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// GetUserLink получает ссылку по (id, владелец)
func (s *PostgresStorage) GetUserLink(ctx context.Context, id, userID uuid.UUID) (*domain.Link, error) {
	var link domain.Link

	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("link %s", id)
	}
	if err != nil {
		s.log.Error("failed to get user link", zap.String("link_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return &link, nil
}

// UpdateLink сохраняет изменения ссылки
func (s *PostgresStorage) UpdateLink(ctx context.Context, link *domain.Link) error {
	if err := s.db.WithContext(ctx).Save(link).Error; err != nil {
		s.log.Error("failed to update link", zap.String("link_id", link.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to update link: %w", err)
	}
	return nil
}

// DeleteLink удаляет ссылку; клики удаляются каскадно по внешнему ключу
func (s *PostgresStorage) DeleteLink(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Link{})
	if result.Error != nil {
		s.log.Error("failed to delete link", zap.String("link_id", id.String()), zap.Error(result.Error))
		return fmt.Errorf("failed to delete link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("link %s", id)
	}

	s.log.Info("deleted link", zap.String("link_id", id.String()))
	return nil
}

// ListUserLinks возвращает все ссылки пользователя в порядке отображения.
// Равные position упорядочиваются по created_at, затем по id.
func (s *PostgresStorage) ListUserLinks(ctx context.Context, userID uuid.UUID) ([]*domain.Link, error) {
	var links []*domain.Link

	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("position ASC, created_at ASC, id ASC").Find(&links).Error
	if err != nil {
		s.log.Error("failed to list user links", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list user links: %w", err)
	}

	return links, nil
}

// CountUserLinks возвращает количество ссылок пользователя
func (s *PostgresStorage) CountUserLinks(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Link{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		s.log.Error("failed to count user links", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to count user links: %w", err)
	}
	return count, nil
}

// MaxLinkPosition возвращает максимальную позицию ссылок пользователя,
// -1 если ссылок еще нет
func (s *PostgresStorage) MaxLinkPosition(ctx context.Context, userID uuid.UUID) (int32, error) {
	var max int32
	err := s.db.WithContext(ctx).Model(&domain.Link{}).
		Select("COALESCE(MAX(position), -1)").
		Where("user_id = ?", userID).
		Scan(&max).Error
	if err != nil {
		s.log.Error("failed to get max link position", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to get max position: %w", err)
	}
	return max, nil
}

// UpdateLinkPositions применяет батч позиций в одной транзакции. Ссылки,
// не принадлежащие пользователю или не существующие, молча пропускаются;
// это не откатывает остальной батч.
func (s *PostgresStorage) UpdateLinkPositions(ctx context.Context, userID uuid.UUID, items []repository.ReorderItem) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			res := tx.Model(&domain.Link{}).
				Where("id = ? AND user_id = ?", item.ID, userID).
				Update("position", item.Position)
			if res.Error != nil {
				return res.Error
			}
			// RowsAffected == 0: чужая или неизвестная ссылка, пропускаем
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to update link positions", zap.String("user_id", userID.String()), zap.Error(err))
		return fmt.Errorf("failed to update link positions: %w", err)
	}
	return nil
}

// --- Engagement Methods ---

// CreateProfileView записывает просмотр профиля
func (s *PostgresStorage) CreateProfileView(ctx context.Context, view *domain.ProfileView) error {
	if err := s.db.WithContext(ctx).Create(view).Error; err != nil {
		s.log.Error("failed to create profile view", zap.String("user_id", view.UserID.String()), zap.Error(err))
		return fmt.Errorf("failed to create profile view: %w", err)
	}
	return nil
}

// HasRecentProfileView проверяет, был ли просмотр с этого IP начиная с since
func (s *PostgresStorage) HasRecentProfileView(ctx context.Context, userID uuid.UUID, viewerIP net.IP, since time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.ProfileView{}).
		Where("user_id = ? AND viewer_ip = ? AND viewed_at >= ?", userID, viewerIP.String(), since).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to check recent profile view", zap.String("user_id", userID.String()), zap.Error(err))
		return false, fmt.Errorf("failed to check recent profile view: %w", err)
	}
	return count > 0, nil
}

// RecordLinkClick вставляет клик и инкрементирует счетчик ссылки в одной
// транзакции. Инкремент выполняется выражением на стороне БД: параллельные
// клики не теряют обновления.
func (s *PostgresStorage) RecordLinkClick(ctx context.Context, click *domain.LinkClick) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Link{}).
			Where("id = ?", click.LinkID).
			Update("click_count", gorm.Expr("click_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("link %s", click.LinkID)
		}

		return tx.Create(click).Error
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		s.log.Error("failed to record link click", zap.String("link_id", click.LinkID.String()), zap.Error(err))
		return fmt.Errorf("failed to record link click: %w", err)
	}

	return nil
}

// --- Analytics Queries ---

// CountProfileViews возвращает общее количество просмотров профиля
func (s *PostgresStorage) CountProfileViews(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.ProfileView{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		s.log.Error("failed to count profile views", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to count profile views: %w", err)
	}
	return count, nil
}

// CountProfileViewsSince возвращает количество просмотров начиная с since
func (s *PostgresStorage) CountProfileViewsSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.ProfileView{}).
		Where("user_id = ? AND viewed_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to count profile views since", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to count profile views: %w", err)
	}
	return count, nil
}

// CountLinkClicksSince возвращает количество кликов начиная с since
func (s *PostgresStorage) CountLinkClicksSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.LinkClick{}).
		Where("user_id = ? AND clicked_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to count link clicks since", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to count link clicks: %w", err)
	}
	return count, nil
}

// ListLinksByClicks возвращает ссылки пользователя по убыванию click_count.
// limit <= 0 возвращает все.
func (s *PostgresStorage) ListLinksByClicks(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Link, error) {
	var links []*domain.Link

	q := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("click_count DESC, created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&links).Error; err != nil {
		s.log.Error("failed to list links by clicks", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list links by clicks: %w", err)
	}

	return links, nil
}

// DailyViewStats агрегирует просмотры по календарным дням UTC начиная с since.
// Дни без просмотров в выдачу не попадают; пропуски заполняет агрегатор.
func (s *PostgresStorage) DailyViewStats(ctx context.Context, userID uuid.UUID, since time.Time) ([]repository.DailyViewRow, error) {
	var rows []repository.DailyViewRow

	err := s.db.WithContext(ctx).Model(&domain.ProfileView{}).
		Select("(viewed_at AT TIME ZONE 'UTC')::date AS date, COUNT(*) AS view_count, COUNT(DISTINCT viewer_ip) AS unique_visitors").
		Where("user_id = ? AND viewed_at >= ?", userID, since).
		Group("date").
		Order("date").
		Scan(&rows).Error
	if err != nil {
		s.log.Error("failed to get daily view stats", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get daily view stats: %w", err)
	}

	return rows, nil
}

// RecentLinkClicks возвращает последние клики пользователя с текущими
// заголовками ссылок
func (s *PostgresStorage) RecentLinkClicks(ctx context.Context, userID uuid.UUID, limit int) ([]repository.RecentClickRow, error) {
	var raw []struct {
		LinkID     uuid.UUID `gorm:"column:link_id"`
		Title      string    `gorm:"column:title"`
		VisitorIP  *string   `gorm:"column:visitor_ip"`
		DeviceType *string   `gorm:"column:device_type"`
		ClickedAt  time.Time `gorm:"column:clicked_at"`
	}

	err := s.db.WithContext(ctx).Model(&domain.LinkClick{}).
		Select("link_clicks.link_id, links.title, link_clicks.visitor_ip::text AS visitor_ip, link_clicks.device_type, link_clicks.clicked_at").
		Joins("JOIN links ON links.id = link_clicks.link_id").
		Where("link_clicks.user_id = ?", userID).
		Order("link_clicks.clicked_at DESC, link_clicks.id DESC").
		Limit(limit).
		Scan(&raw).Error
	if err != nil {
		s.log.Error("failed to get recent link clicks", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get recent link clicks: %w", err)
	}

	rows := make([]repository.RecentClickRow, 0, len(raw))
	for _, r := range raw {
		row := repository.RecentClickRow{
			LinkID:     r.LinkID,
			Title:      r.Title,
			DeviceType: r.DeviceType,
			ClickedAt:  r.ClickedAt,
		}
		if r.VisitorIP != nil {
			if ip := net.ParseIP(*r.VisitorIP); ip != nil {
				row.VisitorIP = &ip
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ClicksByDevice возвращает распределение кликов ссылки по типам устройств
func (s *PostgresStorage) ClicksByDevice(ctx context.Context, linkID uuid.UUID) (map[string]int64, error) {
	var results []struct {
		DeviceType string `gorm:"column:device_type"`
		Count      int64  `gorm:"column:count"`
	}

	err := s.db.WithContext(ctx).Model(&domain.LinkClick{}).
		Select("COALESCE(device_type, 'unknown') AS device_type, COUNT(*) AS count").
		Where("link_id = ?", linkID).
		Group("device_type").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to get clicks by device", zap.String("link_id", linkID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get clicks by device: %w", err)
	}

	clicksByDevice := make(map[string]int64)
	for _, result := range results {
		clicksByDevice[result.DeviceType] = result.Count
	}

	return clicksByDevice, nil
}
