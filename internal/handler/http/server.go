package http

import (
	"LinkHub-Backend/internal/apperr"
	"LinkHub-Backend/internal/service"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity resolves the authenticated owner of a dashboard request. The
// authentication protocol itself lives outside this service; deployments sit
// behind a gateway that установил доверенный заголовок.
type Identity interface {
	UserID(r *http.Request) (uuid.UUID, bool)
}

// HeaderIdentity reads the owner id from a trusted gateway header.
type HeaderIdentity struct {
	Header string
}

func (h HeaderIdentity) UserID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(h.Header))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Server HTTP сервер с обработчиками
type Server struct {
	links      *service.LinkService
	profile    *service.ProfileService
	engagement *service.EngagementService
	analytics  *service.AnalyticsService
	identity   Identity
	health     *HealthHandler
	log        *zap.Logger
}

// NewServer создает новый HTTP сервер
func NewServer(
	links *service.LinkService,
	profile *service.ProfileService,
	engagement *service.EngagementService,
	analytics *service.AnalyticsService,
	identity Identity,
	health *HealthHandler,
	log *zap.Logger,
) *Server {
	return &Server{
		links:      links,
		profile:    profile,
		engagement: engagement,
		analytics:  analytics,
		identity:   identity,
		health:     health,
		log:        log,
	}
}

// SetupRoutes настраивает маршруты
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health check (без аутентификации)
	mux.HandleFunc("GET /health", s.health.Health)

	// Публичные endpoints (без аутентификации)
	mux.HandleFunc("GET /api/public/{username}", s.handlePublicProfile)
	mux.HandleFunc("POST /api/public/{username}/view", s.handleRecordView)
	mux.HandleFunc("GET /api/public/links/{link_id}/click", s.handleRecordClick)

	// Dashboard endpoints (владелец страницы)
	mux.HandleFunc("GET /api/links", s.withOwner(s.handleListLinks))
	mux.HandleFunc("POST /api/links", s.withOwner(s.handleCreateLink))
	mux.HandleFunc("PUT /api/links/reorder", s.withOwner(s.handleReorderLinks))
	mux.HandleFunc("PATCH /api/links/{link_id}", s.withOwner(s.handleUpdateLink))
	mux.HandleFunc("DELETE /api/links/{link_id}", s.withOwner(s.handleDeleteLink))
	mux.HandleFunc("POST /api/links/{link_id}/toggle", s.withOwner(s.handleToggleLink))

	mux.HandleFunc("GET /api/profile", s.withOwner(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.withOwner(s.handleUpdateProfile))

	mux.HandleFunc("GET /api/analytics/summary", s.withOwner(s.handleSummary))
	mux.HandleFunc("GET /api/analytics/links", s.withOwner(s.handleLinkStats))
	mux.HandleFunc("GET /api/analytics/views", s.withOwner(s.handleViewStats))
	mux.HandleFunc("GET /api/analytics/top", s.withOwner(s.handleTopLinks))
	mux.HandleFunc("GET /api/analytics/recent", s.withOwner(s.handleRecentClicks))
	mux.HandleFunc("GET /api/analytics/links/{link_id}/devices", s.withOwner(s.handleClicksByDevice))

	return mux
}

// ownerHandler обработчик, которому уже известен владелец
type ownerHandler func(w http.ResponseWriter, r *http.Request, userID uuid.UUID)

// withOwner резолвит владельца запроса или отвечает 401
func (s *Server) withOwner(next ownerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.identity.UserID(r)
		if !ok {
			s.writeError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r, userID)
	}
}

// --- Helper methods ---

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeServiceError переводит ошибки бизнес-таксономии в HTTP статусы;
// все прочее считается инфраструктурной ошибкой и отвечает 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		s.writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperr.ErrForbidden):
		s.writeError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperr.ErrBadRequest):
		s.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		s.log.Error("request failed", zap.Error(err))
		s.writeError(w, "internal server error", http.StatusInternalServerError)
	}
}

// extractIP извлекает IP адрес из запроса с учетом прокси
func extractIP(r *http.Request) *net.IP {
	candidate := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// X-Forwarded-For может содержать список IP через запятую
		candidate = strings.TrimSpace(strings.Split(fwd, ",")[0])
	} else if real := r.Header.Get("X-Real-IP"); real != "" {
		candidate = strings.TrimSpace(real)
	} else {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		candidate = host
	}

	if ip := net.ParseIP(candidate); ip != nil {
		return &ip
	}
	return nil
}

func optionalUserAgent(r *http.Request) *string {
	ua := r.UserAgent()
	if ua == "" {
		return nil
	}
	return &ua
}
