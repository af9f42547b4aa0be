package models

// DeviceType 温室执行设备类型
type DeviceType string

const (
	DeviceTypePump         DeviceType = "pump"         // 灌溉水泵
	DeviceTypeFan          DeviceType = "fan"          // 风扇
	DeviceTypeHeater       DeviceType = "heater"       // 加热器
	DeviceTypeCooler       DeviceType = "cooler"       // 冷却器
	DeviceTypeLight        DeviceType = "light"        // 补光灯
	DeviceTypeHumidifier   DeviceType = "humidifier"   // 加湿器
	DeviceTypeDehumidifier DeviceType = "dehumidifier" // 除湿器
)

// AllDeviceTypes 返回全部设备类型（注册控制器时为每种类型建一条记录）
func AllDeviceTypes() []DeviceType {
	return []DeviceType{
		DeviceTypePump,
		DeviceTypeFan,
		DeviceTypeHeater,
		DeviceTypeCooler,
		DeviceTypeLight,
		DeviceTypeHumidifier,
		DeviceTypeDehumidifier,
	}
}

// Valid 检查设备类型是否合法（边界校验用，引擎内部假定已校验）
func (t DeviceType) Valid() bool {
	switch t {
	case DeviceTypePump, DeviceTypeFan, DeviceTypeHeater, DeviceTypeCooler,
		DeviceTypeLight, DeviceTypeHumidifier, DeviceTypeDehumidifier:
		return true
	}
	return false
}

// DeviceStatus 设备状态
type DeviceStatus string

const (
	DeviceStatusOn      DeviceStatus = "on"
	DeviceStatusOff     DeviceStatus = "off"
	DeviceStatusError   DeviceStatus = "error"
	DeviceStatusUnknown DeviceStatus = "unknown"
)

// Valid 检查设备状态是否合法
func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusOn, DeviceStatusOff, DeviceStatusError, DeviceStatusUnknown:
		return true
	}
	return false
}

// AlertLevel 告警级别
type AlertLevel string

const (
	AlertLevelInfo     AlertLevel = "info"
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelCritical AlertLevel = "critical"
)

// GrowthStage 植物生长阶段
type GrowthStage string

const (
	StageSeedling   GrowthStage = "seedling"   // 育苗期
	StageVegetative GrowthStage = "vegetative" // 营养生长期
	StageFlowering  GrowthStage = "flowering"  // 花期
	StageFruiting   GrowthStage = "fruiting"   // 结果期
	StageDormant    GrowthStage = "dormant"    // 休眠期
)

// Valid 检查生长阶段是否合法
func (s GrowthStage) Valid() bool {
	switch s {
	case StageSeedling, StageVegetative, StageFlowering, StageFruiting, StageDormant:
		return true
	}
	return false
}
