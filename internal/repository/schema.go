package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements 启动时按序执行的建表语句（幂等）
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sensor_readings (
		id            BIGSERIAL PRIMARY KEY,
		timestamp     TIMESTAMPTZ NOT NULL DEFAULT now(),
		temperature   DOUBLE PRECISION,
		humidity      DOUBLE PRECISION,
		soil_moisture DOUBLE PRECISION,
		light_level   DOUBLE PRECISION,
		ph_level      DOUBLE PRECISION,
		co2_level     DOUBLE PRECISION,
		device_id     VARCHAR(50) NOT NULL DEFAULT 'nodemcu-1'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_readings_timestamp ON sensor_readings (timestamp)`,

	`CREATE TABLE IF NOT EXISTS device_states (
		id           BIGSERIAL PRIMARY KEY,
		device_type  VARCHAR(50) NOT NULL,
		device_id    VARCHAR(50) NOT NULL,
		status       VARCHAR(20) NOT NULL DEFAULT 'off',
		auto_mode    BOOLEAN NOT NULL DEFAULT true,
		last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (device_type, device_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_device_states_device_id ON device_states (device_id)`,

	`CREATE TABLE IF NOT EXISTS alerts (
		id           BIGSERIAL PRIMARY KEY,
		timestamp    TIMESTAMPTZ NOT NULL DEFAULT now(),
		level        VARCHAR(20) NOT NULL,
		message      VARCHAR(500) NOT NULL,
		parameter    VARCHAR(50),
		value        DOUBLE PRECISION,
		acknowledged BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts (timestamp)`,

	`CREATE TABLE IF NOT EXISTS growth_logs (
		id        BIGSERIAL PRIMARY KEY,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
		stage     VARCHAR(50) NOT NULL,
		notes     VARCHAR(1000),
		photo_url VARCHAR(500)
	)`,
}

// InitSchema 创建缺失的表和索引（不做版本化迁移，结构只增不改）
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
