package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// DeviceRepository 执行器状态仓储
type DeviceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDeviceRepository 创建执行器状态仓储
func NewDeviceRepository(db *sql.DB, logger *zap.Logger) *DeviceRepository {
	return &DeviceRepository{db: db, logger: logger}
}

// GetByType 按设备类型取指定控制器上的设备状态，不存在返回 (nil, nil)
func (r *DeviceRepository) GetByType(ctx context.Context, deviceType models.DeviceType, controllerID string) (*models.DeviceState, error) {
	query := `
		SELECT id, device_type, device_id, status, auto_mode, last_updated
		FROM device_states
		WHERE device_type = $1 AND device_id = $2`

	state := &models.DeviceState{}
	err := r.db.QueryRowContext(ctx, query, deviceType, controllerID).Scan(
		&state.ID, &state.DeviceType, &state.DeviceID,
		&state.Status, &state.AutoMode, &state.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device state: %w", err)
	}
	return state, nil
}

// GetAll 取全部设备状态，按控制器、设备类型排序
func (r *DeviceRepository) GetAll(ctx context.Context) ([]models.DeviceState, error) {
	query := `
		SELECT id, device_type, device_id, status, auto_mode, last_updated
		FROM device_states
		ORDER BY device_id, device_type`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query device states: %w", err)
	}
	defer rows.Close()

	states := make([]models.DeviceState, 0)
	for rows.Next() {
		var state models.DeviceState
		if err := rows.Scan(
			&state.ID, &state.DeviceType, &state.DeviceID,
			&state.Status, &state.AutoMode, &state.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan device state row: %w", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate device state rows: %w", err)
	}
	return states, nil
}

// UpdateStatus 更新设备开关状态（行不存在则插入），返回更新后的完整状态
func (r *DeviceRepository) UpdateStatus(ctx context.Context, deviceType models.DeviceType, controllerID string, status models.DeviceStatus) (*models.DeviceState, error) {
	query := `
		INSERT INTO device_states (device_type, device_id, status, last_updated)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (device_type, device_id)
		DO UPDATE SET status = EXCLUDED.status, last_updated = now()
		RETURNING id, device_type, device_id, status, auto_mode, last_updated`

	state := &models.DeviceState{}
	err := r.db.QueryRowContext(ctx, query, deviceType, controllerID, status).Scan(
		&state.ID, &state.DeviceType, &state.DeviceID,
		&state.Status, &state.AutoMode, &state.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update device status: %w", err)
	}

	r.logger.Debug("Device status updated",
		zap.String("device_type", string(deviceType)),
		zap.String("device_id", controllerID),
		zap.String("status", string(status)))
	return state, nil
}

// SetAutoMode 切换单个设备的自动模式，设备不存在返回 (nil, nil)
func (r *DeviceRepository) SetAutoMode(ctx context.Context, deviceType models.DeviceType, controllerID string, autoMode bool) (*models.DeviceState, error) {
	query := `
		UPDATE device_states
		SET auto_mode = $3, last_updated = now()
		WHERE device_type = $1 AND device_id = $2
		RETURNING id, device_type, device_id, status, auto_mode, last_updated`

	state := &models.DeviceState{}
	err := r.db.QueryRowContext(ctx, query, deviceType, controllerID, autoMode).Scan(
		&state.ID, &state.DeviceType, &state.DeviceID,
		&state.Status, &state.AutoMode, &state.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set auto mode: %w", err)
	}
	return state, nil
}

// RegisterController 为新控制器注册全套执行器（已存在的行保持不动）
func (r *DeviceRepository) RegisterController(ctx context.Context, controllerID string) error {
	query := `
		INSERT INTO device_states (device_type, device_id, status, auto_mode, last_updated)
		VALUES ($1, $2, 'off', true, now())
		ON CONFLICT (device_type, device_id) DO NOTHING`

	for _, deviceType := range models.AllDeviceTypes() {
		if _, err := r.db.ExecContext(ctx, query, deviceType, controllerID); err != nil {
			return fmt.Errorf("failed to register device %s: %w", deviceType, err)
		}
	}

	r.logger.Info("Controller devices registered", zap.String("device_id", controllerID))
	return nil
}

// IsRegistered 控制器是否已注册过设备
func (r *DeviceRepository) IsRegistered(ctx context.Context, controllerID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM device_states WHERE device_id = $1`, controllerID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check controller registration: %w", err)
	}
	return count > 0, nil
}
