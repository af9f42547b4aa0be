package engine

import (
	"fmt"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// 浇水时长（秒）
const (
	wateringDurationCritical = 120 // 极干时的强灌溉
	wateringDurationNormal   = 60  // 偏干时的常规灌溉
)

// analyzeSoilMoisture 土壤湿度分析
// canWater 为浇水冷却判定结果；冷却未过时告警/扣分照常，但不发泵命令
// 返回 watered=true 表示本次发出了泵ON命令，调用方（持会话锁）负责刷新最近浇水时间
func (e *Engine) analyzeSoilMoisture(moisture *float64, canWater bool) (analysis, bool) {
	if moisture == nil {
		return analysis{recommendations: []string{"no soil moisture data reported"}}, false
	}

	t := e.thresholds
	v := *moisture
	switch {
	case v < t.SoilMoistureCriticalLow:
		a := analysis{
			alerts: []models.Alert{alert(models.AlertLevelCritical, "soil_moisture", v,
				fmt.Sprintf("critically dry soil: %.1f%%, plants are wilting", v))},
			penalty: 35,
		}
		if canWater {
			a.commands = append(a.commands,
				timedCommand(models.DeviceTypePump, models.DeviceStatusOn, wateringDurationCritical))
			return a, true
		}
		return a, false

	case v > t.SoilMoistureCriticalHigh:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelCritical, "soil_moisture", v,
				fmt.Sprintf("waterlogged soil: %.1f%%, risk of root rot", v))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypePump, models.DeviceStatusOff),
			},
			recommendations: []string{"stop watering and check drainage"},
			penalty:         30,
		}, false

	case v < t.SoilMoistureMin:
		a := analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "soil_moisture", v,
				fmt.Sprintf("soil drying out: %.1f%% (normal %.1f-%.1f%%)", v, t.SoilMoistureMin, t.SoilMoistureMax))},
			penalty: 10,
		}
		if canWater {
			a.commands = append(a.commands,
				timedCommand(models.DeviceTypePump, models.DeviceStatusOn, wateringDurationNormal))
			return a, true
		}
		return a, false

	case v > t.SoilMoistureMax:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelInfo, "soil_moisture", v,
				fmt.Sprintf("soil sufficiently moist: %.1f%%", v))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypePump, models.DeviceStatusOff),
			},
		}, false

	default:
		return analysis{
			commands: []models.DeviceCommand{
				command(models.DeviceTypePump, models.DeviceStatusOff),
			},
		}, false
	}
}
