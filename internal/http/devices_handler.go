package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
	"github.com/Shellect/greenhouse-server/internal/repository"
)

// defaultControllerID 未指定控制器时使用的控制器ID
const defaultControllerID = "nodemcu-1"

// DevicesHandler 执行器状态与手动控制接口
type DevicesHandler struct {
	devices *repository.DeviceRepository
	logger  *zap.Logger
}

// NewDevicesHandler 创建设备接口
func NewDevicesHandler(devices *repository.DeviceRepository, logger *zap.Logger) *DevicesHandler {
	return &DevicesHandler{devices: devices, logger: logger}
}

// List 全部设备状态
func (h *DevicesHandler) List(w http.ResponseWriter, r *http.Request) {
	states, err := h.devices.GetAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list devices", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list devices")
		return
	}
	writeJSON(w, http.StatusOK, states)
}

// GetByType 单个设备状态，?device_id=nodemcu-1
func (h *DevicesHandler) GetByType(w http.ResponseWriter, r *http.Request) {
	deviceType := models.DeviceType(mux.Vars(r)["device_type"])
	if !deviceType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown device type")
		return
	}
	controllerID := controllerParam(r)

	state, err := h.devices.GetByType(r.Context(), deviceType, controllerID)
	if err != nil {
		h.logger.Error("Failed to get device", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get device")
		return
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// manualCommandRequest 手动控制请求体
type manualCommandRequest struct {
	Device   models.DeviceType   `json:"device"`
	Action   models.DeviceStatus `json:"action"`
	DeviceID string              `json:"device_id"`
}

// PostCommand 手动下发设备命令
// 人工接管即切出自动模式：命令生效的同时把该设备 auto_mode 置 false
func (h *DevicesHandler) PostCommand(w http.ResponseWriter, r *http.Request) {
	var req manualCommandRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Device.Valid() {
		writeError(w, http.StatusBadRequest, "unknown device type")
		return
	}
	if req.Action != models.DeviceStatusOn && req.Action != models.DeviceStatusOff {
		writeError(w, http.StatusBadRequest, "action must be on or off")
		return
	}
	if req.DeviceID == "" {
		req.DeviceID = defaultControllerID
	}

	if _, err := h.devices.UpdateStatus(r.Context(), req.Device, req.DeviceID, req.Action); err != nil {
		h.logger.Error("Failed to apply manual command", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to apply command")
		return
	}
	state, err := h.devices.SetAutoMode(r.Context(), req.Device, req.DeviceID, false)
	if err != nil {
		h.logger.Error("Failed to disable auto mode", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to disable auto mode")
		return
	}

	h.logger.Info("Manual command applied",
		zap.String("device_type", string(req.Device)),
		zap.String("device_id", req.DeviceID),
		zap.String("action", string(req.Action)))
	writeJSON(w, http.StatusOK, state)
}

// autoModeRequest 自动模式切换请求体
type autoModeRequest struct {
	Enabled  bool   `json:"enabled"`
	DeviceID string `json:"device_id"`
}

// SetAutoMode 切换单个设备的自动模式
func (h *DevicesHandler) SetAutoMode(w http.ResponseWriter, r *http.Request) {
	deviceType := models.DeviceType(mux.Vars(r)["device_type"])
	if !deviceType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown device type")
		return
	}

	var req autoModeRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DeviceID == "" {
		req.DeviceID = defaultControllerID
	}

	state, err := h.devices.SetAutoMode(r.Context(), deviceType, req.DeviceID, req.Enabled)
	if err != nil {
		h.logger.Error("Failed to set auto mode", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to set auto mode")
		return
	}
	if state == nil {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// pendingCommand 控制器轮询拿到的期望状态
type pendingCommand struct {
	Device models.DeviceType   `json:"device"`
	Action models.DeviceStatus `json:"action"`
}

// GetPending 控制器轮询接口：返回该控制器全部设备的期望开关状态
// 期望状态就是当前落库状态（引擎命令和手动命令都已折算进去）
func (h *DevicesHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	controllerID := controllerParam(r)

	states, err := h.devices.GetAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to load device states", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load device states")
		return
	}

	commands := make([]pendingCommand, 0)
	for _, state := range states {
		if state.DeviceID != controllerID {
			continue
		}
		if state.Status != models.DeviceStatusOn && state.Status != models.DeviceStatusOff {
			continue
		}
		commands = append(commands, pendingCommand{Device: state.DeviceType, Action: state.Status})
	}
	writeJSON(w, http.StatusOK, commands)
}

func controllerParam(r *http.Request) string {
	if id := r.URL.Query().Get("device_id"); id != "" {
		return id
	}
	return defaultControllerID
}
