package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/engine"
	"github.com/Shellect/greenhouse-server/internal/models"
	"github.com/Shellect/greenhouse-server/internal/repository"
)

const defaultGrowthLimit = 50

// GrowthHandler 生长日志接口
type GrowthHandler struct {
	growth *repository.GrowthRepository
	engine *engine.Engine
	logger *zap.Logger
}

// NewGrowthHandler 创建生长日志接口
func NewGrowthHandler(growth *repository.GrowthRepository, eng *engine.Engine, logger *zap.Logger) *GrowthHandler {
	return &GrowthHandler{growth: growth, engine: eng, logger: logger}
}

// growthLogRequest 生长日志请求体
type growthLogRequest struct {
	Stage    models.GrowthStage `json:"stage"`
	Notes    *string            `json:"notes,omitempty"`
	PhotoURL *string            `json:"photo_url,omitempty"`
	DeviceID string             `json:"device_id,omitempty"`
}

// PostLog 记录生长日志，同时把引擎的生长阶段切到日志所记阶段
func (h *GrowthHandler) PostLog(w http.ResponseWriter, r *http.Request) {
	var req growthLogRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Stage.Valid() {
		writeError(w, http.StatusBadRequest, "unknown growth stage")
		return
	}
	controllerID := req.DeviceID
	if controllerID == "" {
		controllerID = defaultControllerID
	}

	log, err := h.growth.Add(r.Context(), req.Stage, req.Notes, req.PhotoURL)
	if err != nil {
		h.logger.Error("Failed to add growth log", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to add growth log")
		return
	}

	h.engine.SetGrowthStage(controllerID, req.Stage)

	writeJSON(w, http.StatusCreated, log)
}

// ListLogs 生长日志列表，?limit=50
func (h *GrowthHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), defaultGrowthLimit)
	if limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be positive")
		return
	}

	logs, err := h.growth.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list growth logs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list growth logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
