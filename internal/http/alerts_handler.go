package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/repository"
)

const defaultAlertLimit = 50

// AlertsHandler 告警接口
type AlertsHandler struct {
	alerts *repository.AlertRepository
	logger *zap.Logger
}

// NewAlertsHandler 创建告警接口
func NewAlertsHandler(alerts *repository.AlertRepository, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{alerts: alerts, logger: logger}
}

// List 未确认告警，?limit=50
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), defaultAlertLimit)
	if limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be positive")
		return
	}

	alerts, err := h.alerts.GetActive(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list alerts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// Acknowledge 确认告警
func (h *AlertsHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	ok, err := h.alerts.Acknowledge(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to acknowledge alert", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to acknowledge alert")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "acknowledged": true})
}
