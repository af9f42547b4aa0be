package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
	"github.com/Shellect/greenhouse-server/internal/repository"
	"github.com/Shellect/greenhouse-server/internal/service"
)

const (
	defaultHistoryHours = 24
	defaultHistoryLimit = 1000
	maxBodyBytes        = 1 << 20
)

// SensorsHandler 传感器读数接口
type SensorsHandler struct {
	ingest   *service.IngestService
	readings *repository.ReadingRepository
	logger   *zap.Logger
}

// NewSensorsHandler 创建传感器接口
func NewSensorsHandler(ingest *service.IngestService, readings *repository.ReadingRepository, logger *zap.Logger) *SensorsHandler {
	return &SensorsHandler{ingest: ingest, readings: readings, logger: logger}
}

// PostData 接收控制器上报的一组读数，返回处理结果（命令/告警/建议/健康分）
func (h *SensorsHandler) PostData(w http.ResponseWriter, r *http.Request) {
	var data models.SensorData
	if err := readBodyJSON(r, maxBodyBytes, &data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.ingest.ProcessReading(r.Context(), data)
	if err != nil {
		h.logger.Error("Failed to process reading", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process reading")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetLatest 最新一条读数
func (h *SensorsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	reading, err := h.readings.GetLatest(r.Context())
	if err != nil {
		h.logger.Error("Failed to get latest reading", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get latest reading")
		return
	}
	if reading == nil {
		writeError(w, http.StatusNotFound, "no readings yet")
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

// GetHistory 历史读数，?hours=24&limit=1000
func (h *SensorsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	hours := parseInt(r.URL.Query().Get("hours"), defaultHistoryHours)
	limit := parseInt(r.URL.Query().Get("limit"), defaultHistoryLimit)
	if hours <= 0 || limit <= 0 {
		writeError(w, http.StatusBadRequest, "hours and limit must be positive")
		return
	}

	readings, err := h.readings.GetHistory(r.Context(), hours, limit)
	if err != nil {
		h.logger.Error("Failed to get reading history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get reading history")
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

// GetStats 聚合统计，?hours=24
func (h *SensorsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	hours := parseInt(r.URL.Query().Get("hours"), defaultHistoryHours)
	if hours <= 0 {
		writeError(w, http.StatusBadRequest, "hours must be positive")
		return
	}

	stats, err := h.readings.GetStats(r.Context(), hours)
	if err != nil {
		h.logger.Error("Failed to get reading stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get reading stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
