package engine

import (
	"fmt"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// analyzeHumidity 空气湿度分析
// 过高的critical档比过低扣分更重（真菌病害风险）
func (e *Engine) analyzeHumidity(humidity *float64) analysis {
	if humidity == nil {
		return analysis{recommendations: []string{"no humidity data reported"}}
	}

	t := e.thresholds
	v := *humidity
	switch {
	case v < t.HumidityCriticalLow:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelCritical, "humidity", v,
				fmt.Sprintf("critically low air humidity: %.1f%%", v))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeHumidifier, models.DeviceStatusOn),
			},
			penalty: 25,
		}

	case v > t.HumidityCriticalHigh:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelCritical, "humidity", v,
				fmt.Sprintf("critically high air humidity: %.1f%%, risk of fungal disease", v))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeDehumidifier, models.DeviceStatusOn),
				command(models.DeviceTypeFan, models.DeviceStatusOn),
			},
			penalty: 30,
		}

	case v < t.HumidityMin:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "humidity", v,
				fmt.Sprintf("air humidity below range: %.1f%% (normal %.1f-%.1f%%)", v, t.HumidityMin, t.HumidityMax))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeHumidifier, models.DeviceStatusOn),
			},
			penalty: 10,
		}

	case v > t.HumidityMax:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "humidity", v,
				fmt.Sprintf("air humidity above range: %.1f%% (normal %.1f-%.1f%%)", v, t.HumidityMin, t.HumidityMax))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeFan, models.DeviceStatusOn),
			},
			penalty: 8,
		}

	default:
		return analysis{
			commands: []models.DeviceCommand{
				command(models.DeviceTypeHumidifier, models.DeviceStatusOff),
				command(models.DeviceTypeDehumidifier, models.DeviceStatusOff),
			},
		}
	}
}
