package models

import "time"

// SensorData 现场控制器上报的一组传感器读数
// 任何字段都可能缺失（传感器未安装或故障），缺失不是错误
type SensorData struct {
	Temperature  *float64 `json:"temperature,omitempty"`   // 空气温度（°C）
	Humidity     *float64 `json:"humidity,omitempty"`      // 空气湿度（%）
	SoilMoisture *float64 `json:"soil_moisture,omitempty"` // 土壤湿度（%）
	LightLevel   *float64 `json:"light_level,omitempty"`   // 光照强度（lux）
	PHLevel      *float64 `json:"ph_level,omitempty"`      // 土壤pH
	CO2Level     *float64 `json:"co2_level,omitempty"`     // CO2浓度（ppm）
	DeviceID     string   `json:"device_id"`               // 上报的控制器ID
}

// SensorReading 持久化后的传感器读数（对应 sensor_readings 表）
type SensorReading struct {
	ID           int64     `json:"id" db:"id"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	Temperature  *float64  `json:"temperature,omitempty" db:"temperature"`
	Humidity     *float64  `json:"humidity,omitempty" db:"humidity"`
	SoilMoisture *float64  `json:"soil_moisture,omitempty" db:"soil_moisture"`
	LightLevel   *float64  `json:"light_level,omitempty" db:"light_level"`
	PHLevel      *float64  `json:"ph_level,omitempty" db:"ph_level"`
	CO2Level     *float64  `json:"co2_level,omitempty" db:"co2_level"`
	DeviceID     string    `json:"device_id" db:"device_id"`
}

// Data 提取读数部分（喂给决策引擎 / 状态接口）
func (r *SensorReading) Data() SensorData {
	return SensorData{
		Temperature:  r.Temperature,
		Humidity:     r.Humidity,
		SoilMoisture: r.SoilMoisture,
		LightLevel:   r.LightLevel,
		PHLevel:      r.PHLevel,
		CO2Level:     r.CO2Level,
		DeviceID:     r.DeviceID,
	}
}

// ReadingStats 一段时间内读数的聚合统计
type ReadingStats struct {
	PeriodHours     int      `json:"period_hours"`
	ReadingsCount   int      `json:"readings_count"`
	TempAvg         *float64 `json:"temp_avg,omitempty"`
	TempMin         *float64 `json:"temp_min,omitempty"`
	TempMax         *float64 `json:"temp_max,omitempty"`
	HumidityAvg     *float64 `json:"humidity_avg,omitempty"`
	SoilMoistureAvg *float64 `json:"soil_moisture_avg,omitempty"`
	LightAvg        *float64 `json:"light_avg,omitempty"`
}
