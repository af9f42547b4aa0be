package models

// EvaluationResult 决策引擎对一组读数的完整评估结果
type EvaluationResult struct {
	Commands        []DeviceCommand `json:"commands"`
	Alerts          []Alert         `json:"alerts"`
	Recommendations []string        `json:"recommendations"`
	HealthScore     float64         `json:"health_score"` // [0,100]
	IsDaytime       bool            `json:"is_daytime"`
	GrowthStage     GrowthStage     `json:"growth_stage"`
}
