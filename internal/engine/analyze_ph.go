package engine

import (
	"fmt"

	"github.com/Shellect/greenhouse-server/internal/models"
)

// analyzePH 土壤pH分析
// 没有自动化的pH调节设备，只产出告警和人工处理建议，两侧各扣15分
func (e *Engine) analyzePH(ph *float64) analysis {
	if ph == nil {
		return analysis{recommendations: []string{"no soil ph data reported"}}
	}

	t := e.thresholds
	v := *ph
	switch {
	case v < t.PHMin:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "ph_level", v,
				fmt.Sprintf("soil ph too low: %.1f (normal %.1f-%.1f)", v, t.PHMin, t.PHMax))},
			recommendations: []string{"add lime to raise soil ph"},
			penalty:         15,
		}

	case v > t.PHMax:
		return analysis{
			alerts: []models.Alert{alert(models.AlertLevelWarning, "ph_level", v,
				fmt.Sprintf("soil ph too high: %.1f (normal %.1f-%.1f)", v, t.PHMin, t.PHMax))},
			recommendations: []string{"add sulfur or peat to lower soil ph"},
			penalty:         15,
		}

	default:
		return analysis{}
	}
}
