package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// ReadingRepository 传感器读数仓储
type ReadingRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReadingRepository 创建传感器读数仓储
func NewReadingRepository(db *sql.DB, logger *zap.Logger) *ReadingRepository {
	return &ReadingRepository{db: db, logger: logger}
}

// Save 保存一条读数，返回带自增 ID 和时间戳的完整记录
func (r *ReadingRepository) Save(ctx context.Context, data models.SensorData) (*models.SensorReading, error) {
	deviceID := data.DeviceID
	if deviceID == "" {
		deviceID = "nodemcu-1"
	}

	query := `
		INSERT INTO sensor_readings (temperature, humidity, soil_moisture, light_level, ph_level, co2_level, device_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, timestamp`

	reading := &models.SensorReading{
		Temperature:  data.Temperature,
		Humidity:     data.Humidity,
		SoilMoisture: data.SoilMoisture,
		LightLevel:   data.LightLevel,
		PHLevel:      data.PHLevel,
		CO2Level:     data.CO2Level,
		DeviceID:     deviceID,
	}

	err := r.db.QueryRowContext(ctx, query,
		data.Temperature, data.Humidity, data.SoilMoisture,
		data.LightLevel, data.PHLevel, data.CO2Level, deviceID,
	).Scan(&reading.ID, &reading.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to save sensor reading: %w", err)
	}

	r.logger.Debug("Sensor reading saved",
		zap.Int64("id", reading.ID),
		zap.String("device_id", deviceID))
	return reading, nil
}

// GetLatest 取最新一条读数，没有数据时返回 (nil, nil)
func (r *ReadingRepository) GetLatest(ctx context.Context) (*models.SensorReading, error) {
	query := `
		SELECT id, timestamp, temperature, humidity, soil_moisture, light_level, ph_level, co2_level, device_id
		FROM sensor_readings
		ORDER BY timestamp DESC
		LIMIT 1`

	reading := &models.SensorReading{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&reading.ID, &reading.Timestamp,
		&reading.Temperature, &reading.Humidity, &reading.SoilMoisture,
		&reading.LightLevel, &reading.PHLevel, &reading.CO2Level,
		&reading.DeviceID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reading: %w", err)
	}
	return reading, nil
}

// GetHistory 取最近 hours 小时内的读数，按时间倒序，最多 limit 条
func (r *ReadingRepository) GetHistory(ctx context.Context, hours, limit int) ([]models.SensorReading, error) {
	query := `
		SELECT id, timestamp, temperature, humidity, soil_moisture, light_level, ph_level, co2_level, device_id
		FROM sensor_readings
		WHERE timestamp >= now() - $1 * INTERVAL '1 hour'
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, hours, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading history: %w", err)
	}
	defer rows.Close()

	readings := make([]models.SensorReading, 0)
	for rows.Next() {
		var reading models.SensorReading
		if err := rows.Scan(
			&reading.ID, &reading.Timestamp,
			&reading.Temperature, &reading.Humidity, &reading.SoilMoisture,
			&reading.LightLevel, &reading.PHLevel, &reading.CO2Level,
			&reading.DeviceID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading row: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reading rows: %w", err)
	}
	return readings, nil
}

// GetStats 聚合最近 hours 小时的读数统计
func (r *ReadingRepository) GetStats(ctx context.Context, hours int) (*models.ReadingStats, error) {
	query := `
		SELECT COUNT(*),
		       AVG(temperature), MIN(temperature), MAX(temperature),
		       AVG(humidity), AVG(soil_moisture), AVG(light_level)
		FROM sensor_readings
		WHERE timestamp >= now() - $1 * INTERVAL '1 hour'`

	stats := &models.ReadingStats{PeriodHours: hours}
	err := r.db.QueryRowContext(ctx, query, hours).Scan(
		&stats.ReadingsCount,
		&stats.TempAvg, &stats.TempMin, &stats.TempMax,
		&stats.HumidityAvg, &stats.SoilMoistureAvg, &stats.LightAvg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reading stats: %w", err)
	}
	return stats, nil
}
