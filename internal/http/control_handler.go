package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/config"
	"github.com/Shellect/greenhouse-server/internal/engine"
	"github.com/Shellect/greenhouse-server/internal/models"
	"github.com/Shellect/greenhouse-server/internal/repository"
	"github.com/Shellect/greenhouse-server/internal/service"
)

// autoCategories 自动模式分类到设备类型的映射
var autoCategories = map[string][]models.DeviceType{
	"watering": {models.DeviceTypePump},
	"climate": {
		models.DeviceTypeHeater, models.DeviceTypeCooler, models.DeviceTypeFan,
		models.DeviceTypeHumidifier, models.DeviceTypeDehumidifier,
	},
	"lighting": {models.DeviceTypeLight},
}

// ControlHandler 总览状态与控制参数接口
type ControlHandler struct {
	status     *service.StatusService
	devices    *repository.DeviceRepository
	engine     *engine.Engine
	thresholds *config.Thresholds
	logger     *zap.Logger
}

// NewControlHandler 创建控制接口
func NewControlHandler(
	status *service.StatusService,
	devices *repository.DeviceRepository,
	eng *engine.Engine,
	thresholds *config.Thresholds,
	logger *zap.Logger,
) *ControlHandler {
	return &ControlHandler{
		status:     status,
		devices:    devices,
		engine:     eng,
		thresholds: thresholds,
		logger:     logger,
	}
}

// GetStatus 温室总览
func (h *ControlHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.status.GetStatus(r.Context())
	if err != nil {
		h.logger.Error("Failed to build status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// settingsRequest 控制设置请求体
// 只更新请求里出现的字段
type settingsRequest struct {
	GrowthStage *models.GrowthStage `json:"growth_stage,omitempty"`
	AutoModes   map[string]bool     `json:"auto_modes,omitempty"` // 分类: watering/climate/lighting
	DeviceID    string              `json:"device_id,omitempty"`
}

// PostSettings 更新生长阶段和各分类的自动模式
func (h *ControlHandler) PostSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.GrowthStage != nil && !req.GrowthStage.Valid() {
		writeError(w, http.StatusBadRequest, "unknown growth stage")
		return
	}
	for category := range req.AutoModes {
		if _, ok := autoCategories[category]; !ok {
			writeError(w, http.StatusBadRequest, "unknown auto mode category: "+category)
			return
		}
	}
	controllerID := req.DeviceID
	if controllerID == "" {
		controllerID = defaultControllerID
	}

	if req.GrowthStage != nil {
		h.engine.SetGrowthStage(controllerID, *req.GrowthStage)
		h.logger.Info("Growth stage updated",
			zap.String("device_id", controllerID),
			zap.String("stage", string(*req.GrowthStage)))
	}

	for category, enabled := range req.AutoModes {
		for _, deviceType := range autoCategories[category] {
			if _, err := h.devices.SetAutoMode(r.Context(), deviceType, controllerID, enabled); err != nil {
				h.logger.Error("Failed to update auto mode",
					zap.String("category", category),
					zap.String("device_type", string(deviceType)),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to update auto mode")
				return
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// GetRecommendations 当前生长阶段的养护建议，?device_id=nodemcu-1
func (h *ControlHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	controllerID := controllerParam(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"growth_stage":    h.engine.GrowthStage(controllerID),
		"recommendations": h.engine.StageRecommendations(controllerID),
	})
}

// GetParameters 当前生效的园艺阈值
func (h *ControlHandler) GetParameters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"temperature": map[string]any{
			"day_min":       h.thresholds.TempDayMin,
			"day_max":       h.thresholds.TempDayMax,
			"night_min":     h.thresholds.TempNightMin,
			"night_max":     h.thresholds.TempNightMax,
			"critical_low":  h.thresholds.TempCriticalLow,
			"critical_high": h.thresholds.TempCriticalHigh,
		},
		"humidity": map[string]any{
			"min":           h.thresholds.HumidityMin,
			"max":           h.thresholds.HumidityMax,
			"critical_low":  h.thresholds.HumidityCriticalLow,
			"critical_high": h.thresholds.HumidityCriticalHigh,
		},
		"soil_moisture": map[string]any{
			"min":           h.thresholds.SoilMoistureMin,
			"max":           h.thresholds.SoilMoistureMax,
			"critical_low":  h.thresholds.SoilMoistureCriticalLow,
			"critical_high": h.thresholds.SoilMoistureCriticalHigh,
		},
		"light": map[string]any{
			"hours_min":     h.thresholds.LightHoursMin,
			"hours_max":     h.thresholds.LightHoursMax,
			"intensity_min": h.thresholds.LightIntensityMin,
			"intensity_max": h.thresholds.LightIntensityMax,
		},
		"ph": map[string]any{
			"min": h.thresholds.PHMin,
			"max": h.thresholds.PHMax,
		},
		"day_window": map[string]any{
			"start_hour": h.thresholds.DayStartHour,
			"end_hour":   h.thresholds.DayEndHour,
		},
	})
}
