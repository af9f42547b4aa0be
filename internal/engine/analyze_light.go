package engine

import (
	"fmt"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// analyzeLight 光照分析
// 补光只在白天参与调节；夜间无条件下发灯OFF（当前策略不支持夜间补光）
func (e *Engine) analyzeLight(lightLevel *float64, daytime bool) analysis {
	if lightLevel == nil {
		return analysis{recommendations: []string{"no light level data reported"}}
	}

	if !daytime {
		return analysis{
			commands: []models.DeviceCommand{
				command(models.DeviceTypeLight, models.DeviceStatusOff),
			},
		}
	}

	t := e.thresholds
	v := *lightLevel
	switch {
	case v < t.LightIntensityMin:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "light_level", v,
				fmt.Sprintf("insufficient light: %.0f lux (minimum %.0f lux)", v, t.LightIntensityMin))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeLight, models.DeviceStatusOn),
			},
			recommendations: []string{"enable supplemental lighting"},
			penalty:         10,
		}

	case v > t.LightIntensityMax:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelInfo, "light_level", v,
				fmt.Sprintf("intense light: %.0f lux", v))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeLight, models.DeviceStatusOff),
			},
			recommendations: []string{"natural light is sufficient"},
		}

	default:
		return analysis{
			commands: []models.DeviceCommand{
				command(models.DeviceTypeLight, models.DeviceStatusOff),
			},
		}
	}
}
