package http

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler обработчик health checks
type HealthHandler struct {
	check func() error
	log   *zap.Logger
}

// NewHealthHandler создает новый health handler; check проверяет хранилище
func NewHealthHandler(check func() error, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		check: check,
		log:   log,
	}
}

// HealthResponse структура ответа health check
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
}

// Health основной health check endpoint
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	status := "healthy"
	statusCode := http.StatusOK

	if h.check != nil {
		if err := h.check(); err != nil {
			h.log.Error("database health check failed", zap.Error(err))
			dbStatus = "unhealthy"
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:         status,
		Timestamp:      time.Now().UTC(),
		DatabaseStatus: dbStatus,
	})
}
