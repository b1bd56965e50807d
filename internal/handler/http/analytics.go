package http

import (
	"LinkHub-Backend/internal/service"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Границы параметров дашборда; сервисный слой корректен для любых
// days >= 1 / limit >= 1, но наружу отдаем ограниченные диапазоны.
const (
	defaultViewStatsDays   = 7
	maxViewStatsDays       = 90
	defaultTopLinksLimit   = 5
	maxTopLinksLimit       = 50
	defaultRecentClicksLim = 10
	maxRecentClicksLim     = 100
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	summary, err := s.analytics.GetSummary(r.Context(), userID, time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, summary, http.StatusOK)
}

func (s *Server) handleLinkStats(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	stats, err := s.analytics.GetLinkStats(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{"links": stats}, http.StatusOK)
}

func (s *Server) handleViewStats(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	days, ok := boundedQueryInt(r, "days", defaultViewStatsDays, maxViewStatsDays)
	if !ok {
		s.writeError(w, "days must be between 1 and 90", http.StatusBadRequest)
		return
	}

	stats, err := s.analytics.GetViewStats(r.Context(), userID, days, time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, stats, http.StatusOK)
}

func (s *Server) handleTopLinks(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	limit, ok := boundedQueryInt(r, "limit", defaultTopLinksLimit, maxTopLinksLimit)
	if !ok {
		s.writeError(w, "limit must be between 1 and 50", http.StatusBadRequest)
		return
	}

	top, err := s.analytics.GetTopLinks(r.Context(), userID, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{"links": top}, http.StatusOK)
}

func (s *Server) handleRecentClicks(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	limit, ok := boundedQueryInt(r, "limit", defaultRecentClicksLim, maxRecentClicksLim)
	if !ok {
		s.writeError(w, "limit must be between 1 and 100", http.StatusBadRequest)
		return
	}

	clicks, err := s.analytics.GetRecentClicks(r.Context(), userID, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{"clicks": clicks}, http.StatusOK)
}

func (s *Server) handleClicksByDevice(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	linkID, err := uuid.Parse(r.PathValue("link_id"))
	if err != nil {
		s.writeError(w, "invalid link id", http.StatusBadRequest)
		return
	}

	devices, err := s.analytics.GetClicksByDevice(r.Context(), userID, linkID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{"devices": devices}, http.StatusOK)
}

// --- Profile (owner) ---

// UpdateProfileRequest структура запроса обновления профиля
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Theme       *string `json:"theme,omitempty"`
	BgColor     *string `json:"bg_color,omitempty"`
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	user, err := s.profile.GetMyProfile(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, user, http.StatusOK)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid request format", http.StatusBadRequest)
		return
	}

	user, err := s.profile.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Theme:       req.Theme,
		BgColor:     req.BgColor,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, user, http.StatusOK)
}

// boundedQueryInt читает целочисленный параметр с дефолтом и границами [1, max]
func boundedQueryInt(r *http.Request, name string, def, max int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 || v > max {
		return 0, false
	}
	return v, true
}
