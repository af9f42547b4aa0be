package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/config"
	"github.com/Shellect/greenhouse-server/internal/models"
)

// analysis 单个量的分析结果（不可变部分结果，由引擎折叠汇总）
type analysis struct {
	commands        []models.DeviceCommand
	alerts          []models.Alert
	recommendations []string
	penalty         float64
}

// Engine 温室决策引擎
// 纯内存计算，不做任何I/O；把一组读数 + 会话状态映射为命令/告警/建议/健康分
type Engine struct {
	thresholds *config.Thresholds
	sessions   *SessionStore
	cooldown   time.Duration
	logger     *zap.Logger
}

// NewEngine 创建决策引擎
func NewEngine(cfg *config.Config, logger *zap.Logger) *Engine {
	return &Engine{
		thresholds: &cfg.Thresholds,
		sessions:   NewSessionStore(models.GrowthStage(cfg.Session.DefaultStage)),
		cooldown:   cfg.Session.WateringCooldown,
		logger:     logger,
	}
}

// Evaluate 评估一组读数，产出命令/告警/建议和健康分
// 每个量独立分析；健康分从100起扣，最后一次性收敛到[0,100]
// 浇水命令的冷却检查和时间更新在会话锁内完成（check-and-set）
func (e *Engine) Evaluate(controllerID string, data models.SensorData, now time.Time) models.EvaluationResult {
	return e.evaluate(controllerID, data, now, true)
}

// Preview 只读评估：不更新上次浇水时间（供状态查询复用引擎逻辑）
func (e *Engine) Preview(controllerID string, data models.SensorData, now time.Time) models.EvaluationResult {
	return e.evaluate(controllerID, data, now, false)
}

func (e *Engine) evaluate(controllerID string, data models.SensorData, now time.Time, commit bool) models.EvaluationResult {
	sess := e.sessions.get(controllerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	daytime := e.isDaytime(now)

	result := models.EvaluationResult{
		Commands:        []models.DeviceCommand{},
		Alerts:          []models.Alert{},
		Recommendations: []string{},
		IsDaytime:       daytime,
		GrowthStage:     sess.stage,
	}
	health := 100.0

	fold := func(a analysis) {
		result.Commands = append(result.Commands, a.commands...)
		result.Alerts = append(result.Alerts, a.alerts...)
		result.Recommendations = append(result.Recommendations, a.recommendations...)
		health -= a.penalty
	}

	fold(e.analyzeTemperature(data.Temperature, daytime))
	fold(e.analyzeHumidity(data.Humidity))

	soil, watered := e.analyzeSoilMoisture(data.SoilMoisture, sess.canWater(now, e.cooldown))
	fold(soil)
	if watered && commit {
		t := now
		sess.lastWatering = &t
	}

	fold(e.analyzeLight(data.LightLevel, daytime))
	fold(e.analyzePH(data.PHLevel))

	result.HealthScore = clampScore(health)

	e.logger.Debug("evaluation complete",
		zap.String("controller_id", controllerID),
		zap.Float64("health_score", result.HealthScore),
		zap.Bool("is_daytime", daytime),
		zap.Int("commands", len(result.Commands)),
		zap.Int("alerts", len(result.Alerts)),
	)

	return result
}

// SetGrowthStage 设置控制器的生长阶段（来自外部的阶段变更请求）
func (e *Engine) SetGrowthStage(controllerID string, stage models.GrowthStage) {
	sess := e.sessions.get(controllerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.stage = stage
}

// GrowthStage 读取控制器当前的生长阶段
func (e *Engine) GrowthStage(controllerID string) models.GrowthStage {
	sess := e.sessions.get(controllerID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.stage
}

// isDaytime 按本地小时判断昼/夜
func (e *Engine) isDaytime(now time.Time) bool {
	hour := now.Hour()
	return e.thresholds.DayStartHour <= hour && hour < e.thresholds.DayEndHour
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func alert(level models.AlertLevel, parameter string, value float64, message string) models.Alert {
	v := value
	return models.Alert{
		Level:     level,
		Message:   message,
		Parameter: parameter,
		Value:     &v,
	}
}

func command(device models.DeviceType, action models.DeviceStatus) models.DeviceCommand {
	return models.DeviceCommand{Device: device, Action: action}
}

func timedCommand(device models.DeviceType, action models.DeviceStatus, durationSec int) models.DeviceCommand {
	d := durationSec
	return models.DeviceCommand{Device: device, Action: action, Duration: &d}
}
