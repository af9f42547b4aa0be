package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/config"
	"github.com/Shellect/greenhouse-server/internal/engine"
	"github.com/Shellect/greenhouse-server/internal/repository"
)

func newTestStatus(t *testing.T) (*StatusService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := &config.Config{Thresholds: config.LoadThresholds()}
	cfg.Session.WateringCooldown = 30 * time.Minute
	cfg.Session.DefaultStage = "vegetative"

	logger := zap.NewNop()
	svc := NewStatusService(
		repository.NewReadingRepository(db, logger),
		repository.NewDeviceRepository(db, logger),
		repository.NewAlertRepository(db, logger),
		engine.NewEngine(cfg, logger),
		nil,
		logger,
	)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc, mock, db
}

func TestGetStatus_FreshReading(t *testing.T) {
	svc, mock, db := newTestStatus(t)
	defer db.Close()

	readingTime := time.Date(2025, 6, 15, 11, 59, 0, 0, time.UTC) // 1分钟前

	mock.ExpectQuery(`SELECT id, timestamp`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "timestamp", "temperature", "humidity", "soil_moisture",
			"light_level", "ph_level", "co2_level", "device_id",
		}).AddRow(int64(5), readingTime, 22.0, 65.0, 70.0, 400.0, 6.0, nil, "gh-1"))

	mock.ExpectQuery(`SELECT id, device_type`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_type", "device_id", "status", "auto_mode", "last_updated"}).
			AddRow(int64(1), "pump", "gh-1", "off", true, time.Now()))

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	status, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConnectionGood, status.Connection)
	assert.Equal(t, 100.0, status.HealthScore)
	assert.True(t, status.IsDaytime)
	assert.Equal(t, 2, status.ActiveAlerts)
	require.NotNil(t, status.LatestReading)
	assert.Equal(t, int64(5), status.LatestReading.ID)
	assert.Len(t, status.Devices, 1)
}

func TestGetStatus_StaleReading_ConnectionLost(t *testing.T) {
	svc, mock, db := newTestStatus(t)
	defer db.Close()

	readingTime := time.Date(2025, 6, 15, 11, 40, 0, 0, time.UTC) // 20分钟前

	mock.ExpectQuery(`SELECT id, timestamp`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "timestamp", "temperature", "humidity", "soil_moisture",
			"light_level", "ph_level", "co2_level", "device_id",
		}).AddRow(int64(4), readingTime, 22.0, 65.0, 70.0, 400.0, 6.0, nil, "gh-1"))

	mock.ExpectQuery(`SELECT id, device_type`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_type", "device_id", "status", "auto_mode", "last_updated"}))

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	status, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConnectionLost, status.Connection)
}

func TestGetStatus_NoReadings(t *testing.T) {
	svc, mock, db := newTestStatus(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, timestamp`).WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(`SELECT id, device_type`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "device_type", "device_id", "status", "auto_mode", "last_updated"}))

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	status, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ConnectionLost, status.Connection)
	assert.Nil(t, status.LatestReading)
	assert.Equal(t, 0.0, status.HealthScore)
	require.Len(t, status.Recommendations, 1)
	assert.Contains(t, status.Recommendations[0], "connect a field controller")
}

func TestClassifyConnection(t *testing.T) {
	assert.Equal(t, ConnectionGood, classifyConnection(30*time.Second))
	assert.Equal(t, ConnectionWeak, classifyConnection(3*time.Minute))
	assert.Equal(t, ConnectionLost, classifyConnection(10*time.Minute))

	// 边界：恰好2分钟算weak，恰好5分钟算lost
	assert.Equal(t, ConnectionWeak, classifyConnection(2*time.Minute))
	assert.Equal(t, ConnectionLost, classifyConnection(5*time.Minute))
}
