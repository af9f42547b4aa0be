package engine

import (
	"fmt"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// analyzeTemperature 温度分析
// 目标区间随昼/夜切换；critical带两侧各扣40分，warning带扣15/10分
// 边界约定：严格越过critical界才算critical（== 界值落在warning档）
func (e *Engine) analyzeTemperature(temp *float64, daytime bool) analysis {
	if temp == nil {
		return analysis{recommendations: []string{"no temperature data reported"}}
	}

	t := e.thresholds
	targetMin, targetMax := t.TempNightMin, t.TempNightMax
	period := "night"
	if daytime {
		targetMin, targetMax = t.TempDayMin, t.TempDayMax
		period = "day"
	}

	v := *temp
	switch {
	case v < t.TempCriticalLow:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelCritical, "temperature", v,
				fmt.Sprintf("critically low temperature: %.1f°C, plants at risk of dying", v))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeHeater, models.DeviceStatusOn),
			},
			penalty: 40,
		}

	case v > t.TempCriticalHigh:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelCritical, "temperature", v,
				fmt.Sprintf("critically high temperature: %.1f°C, cool down immediately", v))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeCooler, models.DeviceStatusOn),
				command(models.DeviceTypeFan, models.DeviceStatusOn),
			},
			penalty: 40,
		}

	case v < targetMin:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "temperature", v,
				fmt.Sprintf("temperature below %s range: %.1f°C (normal %.1f-%.1f°C)", period, v, targetMin, targetMax))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeHeater, models.DeviceStatusOn),
			},
			recommendations: []string{fmt.Sprintf("keep heating on until %.1f°C is reached", targetMin)},
			penalty:         15,
		}

	case v > targetMax:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "temperature", v,
				fmt.Sprintf("temperature above %s range: %.1f°C (normal %.1f-%.1f°C)", period, v, targetMin, targetMax))},
			commands: []models.DeviceCommand{
				command(models.DeviceTypeFan, models.DeviceStatusOn),
			},
			recommendations: []string{"increase ventilation to bring the temperature down"},
			penalty:         10,
		}

	default:
		// 正常区间：显式下发OFF，保证人工开过的设备也会被关掉
		return analysis{
			commands: []models.DeviceCommand{
				command(models.DeviceTypeHeater, models.DeviceStatusOff),
				command(models.DeviceTypeCooler, models.DeviceStatusOff),
			},
		}
	}
}
