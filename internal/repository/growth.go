package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// GrowthRepository 生长日志仓储
type GrowthRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGrowthRepository 创建生长日志仓储
func NewGrowthRepository(db *sql.DB, logger *zap.Logger) *GrowthRepository {
	return &GrowthRepository{db: db, logger: logger}
}

// Add 追加一条生长日志
func (r *GrowthRepository) Add(ctx context.Context, stage models.GrowthStage, notes, photoURL *string) (*models.GrowthLog, error) {
	query := `
		INSERT INTO growth_logs (stage, notes, photo_url)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp`

	log := &models.GrowthLog{
		Stage:    stage,
		Notes:    notes,
		PhotoURL: photoURL,
	}
	err := r.db.QueryRowContext(ctx, query, stage, notes, photoURL).Scan(&log.ID, &log.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to add growth log: %w", err)
	}

	r.logger.Info("Growth log added",
		zap.Int64("id", log.ID),
		zap.String("stage", string(stage)))
	return log, nil
}

// List 取生长日志，按时间倒序，最多 limit 条
func (r *GrowthRepository) List(ctx context.Context, limit int) ([]models.GrowthLog, error) {
	query := `
		SELECT id, timestamp, stage, notes, photo_url
		FROM growth_logs
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query growth logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.GrowthLog, 0)
	for rows.Next() {
		var log models.GrowthLog
		if err := rows.Scan(&log.ID, &log.Timestamp, &log.Stage, &log.Notes, &log.PhotoURL); err != nil {
			return nil, fmt.Errorf("failed to scan growth log row: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate growth log rows: %w", err)
	}
	return logs, nil
}
