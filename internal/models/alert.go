package models

import "time"

// Alert 决策引擎产出的告警（尚未持久化）
type Alert struct {
	Level     AlertLevel `json:"level"`
	Message   string     `json:"message"`
	Parameter string     `json:"parameter"`       // 触发告警的参数名，如 "temperature"
	Value     *float64   `json:"value,omitempty"` // 触发时的读数
}

// AlertRecord 持久化后的告警（对应 alerts 表）
type AlertRecord struct {
	ID           int64      `json:"id" db:"id"`
	Timestamp    time.Time  `json:"timestamp" db:"timestamp"`
	Level        AlertLevel `json:"level" db:"level"`
	Message      string     `json:"message" db:"message"`
	Parameter    string     `json:"parameter" db:"parameter"`
	Value        *float64   `json:"value,omitempty" db:"value"`
	Acknowledged bool       `json:"acknowledged" db:"acknowledged"`
}
