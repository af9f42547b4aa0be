package models

import "time"

// GrowthLog 生长日志（对应 growth_logs 表）
type GrowthLog struct {
	ID        int64       `json:"id" db:"id"`
	Timestamp time.Time   `json:"timestamp" db:"timestamp"`
	Stage     GrowthStage `json:"stage" db:"stage"`
	Notes     *string     `json:"notes,omitempty" db:"notes"`
	PhotoURL  *string     `json:"photo_url,omitempty" db:"photo_url"`
}
