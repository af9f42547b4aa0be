package config

import "fmt"

// Thresholds 园艺阈值（默认值按草莓温室调优）
// 每个量的不变式：critical_low < normal_min <= normal_max < critical_high
type Thresholds struct {
	// 空气温度（°C），昼夜分带
	TempDayMin       float64
	TempDayMax       float64
	TempNightMin     float64
	TempNightMax     float64
	TempCriticalLow  float64
	TempCriticalHigh float64

	// 空气湿度（%）
	HumidityMin          float64
	HumidityMax          float64
	HumidityCriticalLow  float64
	HumidityCriticalHigh float64

	// 土壤湿度（%）
	SoilMoistureMin          float64
	SoilMoistureMax          float64
	SoilMoistureCriticalLow  float64
	SoilMoistureCriticalHigh float64

	// 光照：时长目标仅作展示，评估只用强度区间
	LightHoursMin     int
	LightHoursMax     int
	LightIntensityMin float64 // lux
	LightIntensityMax float64 // lux

	// 土壤pH（单层告警，无critical带）
	PHMin float64
	PHMax float64

	// 昼/夜边界（本地小时）
	DayStartHour int
	DayEndHour   int
}

// LoadThresholds 从环境变量加载阈值（带草莓默认值）
func LoadThresholds() Thresholds {
	return Thresholds{
		TempDayMin:       getEnvFloat("TEMP_DAY_MIN", 18.0),
		TempDayMax:       getEnvFloat("TEMP_DAY_MAX", 25.0),
		TempNightMin:     getEnvFloat("TEMP_NIGHT_MIN", 15.0),
		TempNightMax:     getEnvFloat("TEMP_NIGHT_MAX", 18.0),
		TempCriticalLow:  getEnvFloat("TEMP_CRITICAL_LOW", 5.0),
		TempCriticalHigh: getEnvFloat("TEMP_CRITICAL_HIGH", 35.0),

		HumidityMin:          getEnvFloat("HUMIDITY_MIN", 60.0),
		HumidityMax:          getEnvFloat("HUMIDITY_MAX", 75.0),
		HumidityCriticalLow:  getEnvFloat("HUMIDITY_CRITICAL_LOW", 40.0),
		HumidityCriticalHigh: getEnvFloat("HUMIDITY_CRITICAL_HIGH", 90.0),

		SoilMoistureMin:          getEnvFloat("SOIL_MOISTURE_MIN", 60.0),
		SoilMoistureMax:          getEnvFloat("SOIL_MOISTURE_MAX", 80.0),
		SoilMoistureCriticalLow:  getEnvFloat("SOIL_MOISTURE_CRITICAL_LOW", 40.0),
		SoilMoistureCriticalHigh: getEnvFloat("SOIL_MOISTURE_CRITICAL_HIGH", 95.0),

		LightHoursMin:     getEnvInt("LIGHT_HOURS_MIN", 12),
		LightHoursMax:     getEnvInt("LIGHT_HOURS_MAX", 16),
		LightIntensityMin: getEnvFloat("LIGHT_INTENSITY_MIN", 200),
		LightIntensityMax: getEnvFloat("LIGHT_INTENSITY_MAX", 600),

		PHMin: getEnvFloat("PH_MIN", 5.5),
		PHMax: getEnvFloat("PH_MAX", 6.8),

		DayStartHour: getEnvInt("DAY_START_HOUR", 6),
		DayEndHour:   getEnvInt("DAY_END_HOUR", 22),
	}
}

// Validate 校验阈值排序不变式
func (t *Thresholds) Validate() error {
	if err := checkBand("temperature(day)", t.TempCriticalLow, t.TempDayMin, t.TempDayMax, t.TempCriticalHigh); err != nil {
		return err
	}
	if err := checkBand("temperature(night)", t.TempCriticalLow, t.TempNightMin, t.TempNightMax, t.TempCriticalHigh); err != nil {
		return err
	}
	if err := checkBand("humidity", t.HumidityCriticalLow, t.HumidityMin, t.HumidityMax, t.HumidityCriticalHigh); err != nil {
		return err
	}
	if err := checkBand("soil_moisture", t.SoilMoistureCriticalLow, t.SoilMoistureMin, t.SoilMoistureMax, t.SoilMoistureCriticalHigh); err != nil {
		return err
	}
	if t.LightIntensityMin > t.LightIntensityMax {
		return fmt.Errorf("light_level: normal_min %.1f > normal_max %.1f", t.LightIntensityMin, t.LightIntensityMax)
	}
	if t.PHMin > t.PHMax {
		return fmt.Errorf("ph_level: normal_min %.1f > normal_max %.1f", t.PHMin, t.PHMax)
	}
	if t.DayStartHour < 0 || t.DayStartHour > 23 || t.DayEndHour < 0 || t.DayEndHour > 24 || t.DayStartHour >= t.DayEndHour {
		return fmt.Errorf("invalid day window: start=%d end=%d", t.DayStartHour, t.DayEndHour)
	}
	return nil
}

func checkBand(name string, criticalLow, normalMin, normalMax, criticalHigh float64) error {
	if !(criticalLow < normalMin && normalMin <= normalMax && normalMax < criticalHigh) {
		return fmt.Errorf("%s: bounds must satisfy critical_low < normal_min <= normal_max < critical_high, got %.1f/%.1f/%.1f/%.1f",
			name, criticalLow, normalMin, normalMax, criticalHigh)
	}
	return nil
}
