package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// IHealthChecker - проверка доступности зависимостей сервиса
type IHealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	db  IHealthChecker
	log *zap.Logger
}

func NewHealthHandler(db IHealthChecker, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:  db,
		log: log,
	}
}

// проверяем доступность БД
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.log.Error("health check failed", zap.Error(err))
		respondMessage(w, http.StatusServiceUnavailable, "Database is unavailable")
		return
	}

	respondMessage(w, http.StatusOK, "OK")
}
