package engine

import "github.com/Shellect/greenhouse-server/internal/models"

// stageTips 各生长阶段的固定养护建议（仅供展示，不参与决策）
var stageTips = map[models.GrowthStage][]string{
	models.StageSeedling: {
		"seedling stage: keep air humidity high",
		"20-22°C is optimal for root establishment",
		"shade seedlings from direct sunlight",
	},
	models.StageVegetative: {
		"vegetative stage: provide enough nitrogen",
		"regular watering is important for foliage growth",
		"remove runners to strengthen the plant",
	},
	models.StageFlowering: {
		"flowering stage: limit nitrogen, add potassium",
		"keep air humidity at 60-70%",
		"assist pollination (shaking or a fan)",
	},
	models.StageFruiting: {
		"fruiting stage: regular watering is critical",
		"potassium feeding improves berry flavor",
		"harvest ripe berries every 2-3 days",
	},
	models.StageDormant: {
		"dormant stage: reduce watering",
		"lower the temperature to 5-10°C",
		"minimal lighting is sufficient",
	},
}

// StageRecommendations 返回控制器当前生长阶段的养护建议
func (e *Engine) StageRecommendations(controllerID string) []string {
	stage := e.GrowthStage(controllerID)
	tips, ok := stageTips[stage]
	if !ok {
		return []string{}
	}
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}
