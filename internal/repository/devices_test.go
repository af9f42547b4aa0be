package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
)

func setupDeviceRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *DeviceRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewDeviceRepository(db, zap.NewNop())
	return db, mock, repo
}

func deviceColumns() []string {
	return []string{"id", "device_type", "device_id", "status", "auto_mode", "last_updated"}
}

func TestDeviceRepository_GetByType(t *testing.T) {
	db, mock, repo := setupDeviceRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, device_type`).
		WithArgs(models.DeviceTypePump, "gh-1").
		WillReturnRows(sqlmock.NewRows(deviceColumns()).
			AddRow(int64(1), "pump", "gh-1", "off", true, time.Now()))

	state, err := repo.GetByType(context.Background(), models.DeviceTypePump, "gh-1")

	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.DeviceTypePump, state.DeviceType)
	assert.Equal(t, models.DeviceStatusOff, state.Status)
	assert.True(t, state.AutoMode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_GetByType_NotFound(t *testing.T) {
	db, mock, repo := setupDeviceRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, device_type`).
		WithArgs(models.DeviceTypeFan, "gh-9").
		WillReturnError(sql.ErrNoRows)

	state, err := repo.GetByType(context.Background(), models.DeviceTypeFan, "gh-9")

	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestDeviceRepository_UpdateStatus_Upsert(t *testing.T) {
	db, mock, repo := setupDeviceRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO device_states`).
		WithArgs(models.DeviceTypeHeater, "gh-1", models.DeviceStatusOn).
		WillReturnRows(sqlmock.NewRows(deviceColumns()).
			AddRow(int64(4), "heater", "gh-1", "on", true, time.Now()))

	state, err := repo.UpdateStatus(context.Background(), models.DeviceTypeHeater, "gh-1", models.DeviceStatusOn)

	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOn, state.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_SetAutoMode(t *testing.T) {
	db, mock, repo := setupDeviceRepo(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE device_states`).
		WithArgs(models.DeviceTypePump, "gh-1", false).
		WillReturnRows(sqlmock.NewRows(deviceColumns()).
			AddRow(int64(1), "pump", "gh-1", "on", false, time.Now()))

	state, err := repo.SetAutoMode(context.Background(), models.DeviceTypePump, "gh-1", false)

	require.NoError(t, err)
	require.NotNil(t, state)
	assert.False(t, state.AutoMode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_SetAutoMode_NotFound(t *testing.T) {
	db, mock, repo := setupDeviceRepo(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE device_states`).
		WithArgs(models.DeviceTypePump, "gh-9", true).
		WillReturnError(sql.ErrNoRows)

	state, err := repo.SetAutoMode(context.Background(), models.DeviceTypePump, "gh-9", true)

	require.NoError(t, err)
	assert.Nil(t, state)
}

// 注册为每种设备类型各插一行
func TestDeviceRepository_RegisterController(t *testing.T) {
	db, mock, repo := setupDeviceRepo(t)
	defer db.Close()

	for _, deviceType := range models.AllDeviceTypes() {
		mock.ExpectExec(`INSERT INTO device_states`).
			WithArgs(deviceType, "gh-2").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}

	err := repo.RegisterController(context.Background(), "gh-2")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepository_IsRegistered(t *testing.T) {
	db, mock, repo := setupDeviceRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("gh-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	registered, err := repo.IsRegistered(context.Background(), "gh-1")

	require.NoError(t, err)
	assert.True(t, registered)
}
