package models

import "time"

// DeviceState 设备状态（对应 device_states 表）
// auto_mode 为 false 时该设备忽略引擎下发的命令（人工接管）
type DeviceState struct {
	ID          int64        `json:"id" db:"id"`
	DeviceType  DeviceType   `json:"device_type" db:"device_type"`
	DeviceID    string       `json:"device_id" db:"device_id"` // 所属控制器ID
	Status      DeviceStatus `json:"status" db:"status"`
	AutoMode    bool         `json:"auto_mode" db:"auto_mode"`
	LastUpdated time.Time    `json:"last_updated" db:"last_updated"`
}

// DeviceCommand 决策引擎产出的设备命令
// 引擎只决定"哪类设备、开还是关"；应用到哪个控制器由调度层决定
type DeviceCommand struct {
	Device   DeviceType   `json:"device"`
	Action   DeviceStatus `json:"action"`
	Duration *int         `json:"duration,omitempty"` // 持续秒数（目前仅浇水命令携带）
}
