package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// AlertRepository 告警仓储
type AlertRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlertRepository 创建告警仓储
func NewAlertRepository(db *sql.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{db: db, logger: logger}
}

// Create 持久化一条引擎告警
func (r *AlertRepository) Create(ctx context.Context, alert models.Alert) (*models.AlertRecord, error) {
	query := `
		INSERT INTO alerts (level, message, parameter, value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, timestamp`

	record := &models.AlertRecord{
		Level:     alert.Level,
		Message:   alert.Message,
		Parameter: alert.Parameter,
		Value:     alert.Value,
	}
	err := r.db.QueryRowContext(ctx, query,
		alert.Level, alert.Message, alert.Parameter, alert.Value,
	).Scan(&record.ID, &record.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	return record, nil
}

// GetActive 取未确认的告警，按时间倒序，最多 limit 条
func (r *AlertRepository) GetActive(ctx context.Context, limit int) ([]models.AlertRecord, error) {
	query := `
		SELECT id, timestamp, level, message, parameter, value, acknowledged
		FROM alerts
		WHERE acknowledged = false
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]models.AlertRecord, 0)
	for rows.Next() {
		var record models.AlertRecord
		if err := rows.Scan(
			&record.ID, &record.Timestamp, &record.Level,
			&record.Message, &record.Parameter, &record.Value,
			&record.Acknowledged,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alert rows: %w", err)
	}
	return alerts, nil
}

// Acknowledge 确认告警，告警不存在返回 (false, nil)
func (r *AlertRepository) Acknowledge(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET acknowledged = true WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to acknowledge alert: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		r.logger.Info("Alert acknowledged", zap.Int64("alert_id", id))
	}
	return affected > 0, nil
}

// CountActive 统计未确认告警数
func (r *AlertRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE acknowledged = false`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active alerts: %w", err)
	}
	return count, nil
}
