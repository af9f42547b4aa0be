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

func setupReadingRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *ReadingRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewReadingRepository(db, zap.NewNop())
	return db, mock, repo
}

func fptr(v float64) *float64 { return &v }

func TestReadingRepository_Save(t *testing.T) {
	db, mock, repo := setupReadingRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO sensor_readings`).
		WithArgs(22.5, 65.0, nil, nil, nil, nil, "gh-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(7), now))

	data := models.SensorData{
		Temperature: fptr(22.5),
		Humidity:    fptr(65.0),
		DeviceID:    "gh-1",
	}
	reading, err := repo.Save(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, int64(7), reading.ID)
	assert.Equal(t, "gh-1", reading.DeviceID)
	assert.Equal(t, 22.5, *reading.Temperature)
	assert.Nil(t, reading.SoilMoisture)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// device_id 缺省回落到 nodemcu-1
func TestReadingRepository_Save_DefaultDeviceID(t *testing.T) {
	db, mock, repo := setupReadingRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO sensor_readings`).
		WithArgs(nil, nil, nil, nil, nil, nil, "nodemcu-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "timestamp"}).AddRow(int64(1), time.Now()))

	reading, err := repo.Save(context.Background(), models.SensorData{})

	require.NoError(t, err)
	assert.Equal(t, "nodemcu-1", reading.DeviceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingRepository_GetLatest(t *testing.T) {
	db, mock, repo := setupReadingRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "timestamp", "temperature", "humidity", "soil_moisture",
		"light_level", "ph_level", "co2_level", "device_id",
	}).AddRow(int64(3), now, 21.0, 70.0, 65.0, 350.0, nil, nil, "gh-1")

	mock.ExpectQuery(`SELECT id, timestamp`).WillReturnRows(rows)

	reading, err := repo.GetLatest(context.Background())

	require.NoError(t, err)
	require.NotNil(t, reading)
	assert.Equal(t, int64(3), reading.ID)
	assert.Equal(t, 21.0, *reading.Temperature)
	assert.Nil(t, reading.PHLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingRepository_GetLatest_Empty(t *testing.T) {
	db, mock, repo := setupReadingRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, timestamp`).WillReturnError(sql.ErrNoRows)

	reading, err := repo.GetLatest(context.Background())

	require.NoError(t, err)
	assert.Nil(t, reading)
}

func TestReadingRepository_GetHistory(t *testing.T) {
	db, mock, repo := setupReadingRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "timestamp", "temperature", "humidity", "soil_moisture",
		"light_level", "ph_level", "co2_level", "device_id",
	}).
		AddRow(int64(2), now, 22.0, 68.0, 70.0, 400.0, 6.1, nil, "gh-1").
		AddRow(int64(1), now.Add(-time.Hour), 21.0, 66.0, 72.0, 380.0, 6.0, nil, "gh-1")

	mock.ExpectQuery(`SELECT id, timestamp`).
		WithArgs(24, 1000).
		WillReturnRows(rows)

	readings, err := repo.GetHistory(context.Background(), 24, 1000)

	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, int64(2), readings[0].ID)
	assert.Equal(t, int64(1), readings[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadingRepository_GetStats(t *testing.T) {
	db, mock, repo := setupReadingRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"count", "temp_avg", "temp_min", "temp_max",
		"humidity_avg", "soil_avg", "light_avg",
	}).AddRow(48, 21.5, 18.0, 25.0, 67.0, 71.0, 390.0)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(24).
		WillReturnRows(rows)

	stats, err := repo.GetStats(context.Background(), 24)

	require.NoError(t, err)
	assert.Equal(t, 24, stats.PeriodHours)
	assert.Equal(t, 48, stats.ReadingsCount)
	assert.Equal(t, 21.5, *stats.TempAvg)
	assert.Equal(t, 25.0, *stats.TempMax)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 空表：聚合列全NULL
func TestReadingRepository_GetStats_NoData(t *testing.T) {
	db, mock, repo := setupReadingRepo(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"count", "temp_avg", "temp_min", "temp_max",
		"humidity_avg", "soil_avg", "light_avg",
	}).AddRow(0, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(24).
		WillReturnRows(rows)

	stats, err := repo.GetStats(context.Background(), 24)

	require.NoError(t, err)
	assert.Equal(t, 0, stats.ReadingsCount)
	assert.Nil(t, stats.TempAvg)
}
