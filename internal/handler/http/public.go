package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handlePublicProfile отдает публичную страницу пользователя
func (s *Server) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := s.profile.GetPublicProfile(r.Context(), username, time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, profile, http.StatusOK)
}

// handleRecordView записывает просмотр публичной страницы
func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	outcome, err := s.engagement.RecordView(r.Context(), username, extractIP(r), optionalUserAgent(r), time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.writeJSON(w, map[string]string{"status": string(outcome)}, http.StatusOK)
}

// handleRecordClick записывает клик и делает редирект на целевой URL
func (s *Server) handleRecordClick(w http.ResponseWriter, r *http.Request) {
	linkID, err := uuid.Parse(r.PathValue("link_id"))
	if err != nil {
		s.writeError(w, "invalid link id", http.StatusBadRequest)
		return
	}

	target, err := s.engagement.RecordClick(r.Context(), linkID, extractIP(r), optionalUserAgent(r), time.Now().UTC())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	s.log.Debug("redirecting click", zap.String("link_id", linkID.String()))
	http.Redirect(w, r, target, http.StatusFound)
}
