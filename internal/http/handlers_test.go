package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/config"
	"github.com/Shellect/greenhouse-server/internal/engine"
	"github.com/Shellect/greenhouse-server/internal/metrics"
	"github.com/Shellect/greenhouse-server/internal/repository"
	"github.com/Shellect/greenhouse-server/internal/service"
)

// testAPI 组装一套接在sqlmock上的完整路由
func testAPI(t *testing.T) (http.Handler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := &config.Config{Thresholds: config.LoadThresholds()}
	cfg.Session.WateringCooldown = 30 * time.Minute
	cfg.Session.DefaultStage = "vegetative"

	logger := zap.NewNop()
	readingRepo := repository.NewReadingRepository(db, logger)
	deviceRepo := repository.NewDeviceRepository(db, logger)
	alertRepo := repository.NewAlertRepository(db, logger)
	growthRepo := repository.NewGrowthRepository(db, logger)
	eng := engine.NewEngine(cfg, logger)
	m := metrics.New()

	ingest := service.NewIngestService(readingRepo, deviceRepo, alertRepo, eng, nil, nil, m, logger)
	status := service.NewStatusService(readingRepo, deviceRepo, alertRepo, eng, nil, logger)

	router := NewRouter(
		NewSensorsHandler(ingest, readingRepo, logger),
		NewDevicesHandler(deviceRepo, logger),
		NewAlertsHandler(alertRepo, logger),
		NewControlHandler(status, deviceRepo, eng, &cfg.Thresholds, logger),
		NewGrowthHandler(growthRepo, eng, logger),
		m.Handler(),
		logger,
	)
	return router, mock, db
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostSensorData_InvalidJSON(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sensors/data", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSensorHistory_InvalidHours(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/sensors/history?hours=-1", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLatestReading_NotFound(t *testing.T) {
	router, mock, db := testAPI(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, timestamp`).WillReturnError(sql.ErrNoRows)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/sensors/latest", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// 未知设备类型在进repo前就被挡下
func TestDeviceCommand_UnknownDeviceType(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/devices/command", map[string]any{
		"device": "sprinkler",
		"action": "on",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeviceCommand_InvalidAction(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/devices/command", map[string]any{
		"device": "pump",
		"action": "toggle",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// 手动命令：更新状态并退出自动模式
func TestDeviceCommand_DisablesAutoMode(t *testing.T) {
	router, mock, db := testAPI(t)
	defer db.Close()

	columns := []string{"id", "device_type", "device_id", "status", "auto_mode", "last_updated"}
	mock.ExpectQuery(`INSERT INTO device_states`).
		WithArgs("pump", "nodemcu-1", "on").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "pump", "nodemcu-1", "on", true, time.Now()))
	mock.ExpectQuery(`UPDATE device_states`).
		WithArgs("pump", "nodemcu-1", false).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "pump", "nodemcu-1", "on", false, time.Now()))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/devices/command", map[string]any{
		"device": "pump",
		"action": "on",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var state map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, false, state["auto_mode"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGrowthLog_UnknownStage(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/growth/log", map[string]any{
		"stage": "germinating",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGrowthLog_SetsEngineStage(t *testing.T) {
	router, mock, db := testAPI(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO growth_logs`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(1), time.Now()))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/growth/log", map[string]any{
		"stage": "fruiting",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestControlSettings_UnknownCategory(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/control/settings", map[string]any{
		"auto_modes": map[string]bool{"irrigation": true},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestControlParameters_ReturnsThresholds(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/control/parameters", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var params map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &params))
	assert.Contains(t, params, "temperature")
	assert.Contains(t, params, "soil_moisture")
	assert.Contains(t, params, "day_window")
}

func TestControlRecommendations_ByStage(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/control/recommendations", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		GrowthStage     string   `json:"growth_stage"`
		Recommendations []string `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "vegetative", body.GrowthStage)
	assert.Len(t, body.Recommendations, 3)
}

func TestAcknowledgeAlert_InvalidID(t *testing.T) {
	router, _, db := testAPI(t)
	defer db.Close()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/alerts/abc/acknowledge", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcknowledgeAlert_NotFound(t *testing.T) {
	router, mock, db := testAPI(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE alerts SET acknowledged`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/alerts/99/acknowledge", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPendingCommands_FiltersByController(t *testing.T) {
	router, mock, db := testAPI(t)
	defer db.Close()

	columns := []string{"id", "device_type", "device_id", "status", "auto_mode", "last_updated"}
	mock.ExpectQuery(`SELECT id, device_type`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "pump", "gh-1", "on", true, time.Now()).
			AddRow(int64(2), "fan", "gh-2", "on", true, time.Now()).
			AddRow(int64(3), "light", "gh-1", "unknown", true, time.Now()))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/devices/commands/pending?device_id=gh-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var commands []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &commands))
	// 只有gh-1上状态为on/off的设备
	require.Len(t, commands, 1)
	assert.Equal(t, "pump", commands[0]["device"])
	assert.Equal(t, "on", commands[0]["action"])
}
