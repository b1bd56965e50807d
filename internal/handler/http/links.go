package http

import (
	"LinkHub-Backend/internal/repository"
	"LinkHub-Backend/internal/service"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CreateLinkRequest структура запроса создания ссылки
type CreateLinkRequest struct {
	Title          string     `json:"title"`
	URL            *string    `json:"url,omitempty"`
	Description    *string    `json:"description,omitempty"`
	ThumbnailURL   *string    `json:"thumbnail_url,omitempty"`
	LinkType       string     `json:"link_type,omitempty"`
	IsSensitive    bool       `json:"is_sensitive,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
}

// UpdateLinkRequest структура запроса частичного обновления ссылки
type UpdateLinkRequest struct {
	Title          *string    `json:"title,omitempty"`
	URL            *string    `json:"url,omitempty"`
	Description    *string    `json:"description,omitempty"`
	ThumbnailURL   *string    `json:"thumbnail_url,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
	LinkType       *string    `json:"link_type,omitempty"`
	IsSensitive    *bool      `json:"is_sensitive,omitempty"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`
}

// ReorderRequest батч новых позиций
type ReorderRequest struct {
	Items []struct {
		ID       uuid.UUID `json:"id"`
		Position int32     `json:"position"`
	} `json:"items"`
}

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	links, err := s.links.List(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{"links": links}, http.StatusOK)
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid request format", http.StatusBadRequest)
		return
	}

	link, err := s.links.Create(r.Context(), userID, service.CreateLinkInput{
		Title:          req.Title,
		URL:            req.URL,
		Description:    req.Description,
		ThumbnailURL:   req.ThumbnailURL,
		LinkType:       req.LinkType,
		IsSensitive:    req.IsSensitive,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, link, http.StatusCreated)
}

func (s *Server) handleReorderLinks(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid request format", http.StatusBadRequest)
		return
	}

	items := make([]repository.ReorderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, repository.ReorderItem{ID: item.ID, Position: item.Position})
	}

	links, err := s.links.Reorder(r.Context(), userID, items)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, map[string]interface{}{"links": links}, http.StatusOK)
}

func (s *Server) handleUpdateLink(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	linkID, err := uuid.Parse(r.PathValue("link_id"))
	if err != nil {
		s.writeError(w, "invalid link id", http.StatusBadRequest)
		return
	}

	var req UpdateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid request format", http.StatusBadRequest)
		return
	}

	link, err := s.links.Update(r.Context(), linkID, userID, service.UpdateLinkInput{
		Title:          req.Title,
		URL:            req.URL,
		Description:    req.Description,
		ThumbnailURL:   req.ThumbnailURL,
		IsActive:       req.IsActive,
		LinkType:       req.LinkType,
		IsSensitive:    req.IsSensitive,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, link, http.StatusOK)
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	linkID, err := uuid.Parse(r.PathValue("link_id"))
	if err != nil {
		s.writeError(w, "invalid link id", http.StatusBadRequest)
		return
	}

	if err := s.links.Delete(r.Context(), linkID, userID); err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleLink(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	linkID, err := uuid.Parse(r.PathValue("link_id"))
	if err != nil {
		s.writeError(w, "invalid link id", http.StatusBadRequest)
		return
	}

	link, err := s.links.Toggle(r.Context(), linkID, userID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, link, http.StatusOK)
}
