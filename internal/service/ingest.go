package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/cache"
	"github.com/Shellect/greenhouse-server/internal/engine"
	"github.com/Shellect/greenhouse-server/internal/metrics"
	"github.com/Shellect/greenhouse-server/internal/models"
	"github.com/Shellect/greenhouse-server/internal/notifier"
	"github.com/Shellect/greenhouse-server/internal/repository"
)

// AppliedCommand 一条已落库的设备命令及其实际生效情况
type AppliedCommand struct {
	Device   models.DeviceType   `json:"device"`
	Action   models.DeviceStatus `json:"action"`
	Duration *int                `json:"duration,omitempty"`
	Applied  bool                `json:"applied"` // false 表示该设备处于手动模式，命令被跳过
}

// IngestResult 一次读数接入的处理结果
type IngestResult struct {
	ReadingID       int64            `json:"reading_id"`
	Timestamp       time.Time        `json:"timestamp"`
	Commands        []AppliedCommand `json:"commands"`
	Alerts          []models.Alert   `json:"alerts"`
	Recommendations []string         `json:"recommendations"`
	HealthScore     float64          `json:"health_score"`
	IsDaytime       bool             `json:"is_daytime"`
}

// IngestService 读数接入主流程：落库、评估、下发命令、告警外发
type IngestService struct {
	readings *repository.ReadingRepository
	devices  *repository.DeviceRepository
	alerts   *repository.AlertRepository
	engine   *engine.Engine
	cache    *cache.LatestReadingCache // 可为 nil（Redis 未配置或不可用）
	notifier *notifier.WebhookNotifier
	metrics  *metrics.Metrics
	logger   *zap.Logger

	now func() time.Time
}

// NewIngestService 创建读数接入服务
func NewIngestService(
	readings *repository.ReadingRepository,
	devices *repository.DeviceRepository,
	alerts *repository.AlertRepository,
	eng *engine.Engine,
	readingCache *cache.LatestReadingCache,
	webhook *notifier.WebhookNotifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) *IngestService {
	return &IngestService{
		readings: readings,
		devices:  devices,
		alerts:   alerts,
		engine:   eng,
		cache:    readingCache,
		notifier: webhook,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessReading 处理一条上报读数
// 告警落库失败、缓存失败、外发失败都不阻断接入；读数落库失败才整体失败
func (s *IngestService) ProcessReading(ctx context.Context, data models.SensorData) (*IngestResult, error) {
	controllerID := data.DeviceID
	if controllerID == "" {
		controllerID = "nodemcu-1"
		data.DeviceID = controllerID
	}

	// 首次见到的控制器补齐设备记录
	registered, err := s.devices.IsRegistered(ctx, controllerID)
	if err != nil {
		s.logger.Warn("Failed to check controller registration",
			zap.String("device_id", controllerID), zap.Error(err))
	} else if !registered {
		if err := s.devices.RegisterController(ctx, controllerID); err != nil {
			s.logger.Warn("Failed to register controller devices",
				zap.String("device_id", controllerID), zap.Error(err))
		}
	}

	reading, err := s.readings.Save(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to persist reading: %w", err)
	}
	s.metrics.ReadingsTotal.Inc()

	evaluation := s.engine.Evaluate(controllerID, data, s.now())
	s.metrics.HealthScore.Set(evaluation.HealthScore)

	for _, alert := range evaluation.Alerts {
		if _, err := s.alerts.Create(ctx, alert); err != nil {
			s.logger.Warn("Failed to persist alert",
				zap.String("parameter", alert.Parameter), zap.Error(err))
		}
		s.metrics.AlertsTotal.WithLabelValues(string(alert.Level)).Inc()
	}

	applied := s.applyCommands(ctx, controllerID, evaluation.Commands)

	if s.cache != nil {
		s.cache.Store(ctx, reading)
	}

	if s.notifier != nil && s.notifier.Enabled() {
		alerts := evaluation.Alerts
		go func() {
			if err := s.notifier.NotifyAlerts(alerts); err != nil {
				s.metrics.WebhookErrors.Inc()
			}
		}()
	}

	s.logger.Info("Reading processed",
		zap.Int64("reading_id", reading.ID),
		zap.String("device_id", controllerID),
		zap.Float64("health_score", evaluation.HealthScore),
		zap.Int("commands", len(applied)),
		zap.Int("alerts", len(evaluation.Alerts)))

	return &IngestResult{
		ReadingID:       reading.ID,
		Timestamp:       reading.Timestamp,
		Commands:        applied,
		Alerts:          evaluation.Alerts,
		Recommendations: evaluation.Recommendations,
		HealthScore:     evaluation.HealthScore,
		IsDaytime:       evaluation.IsDaytime,
	}, nil
}

// applyCommands 把引擎命令应用到上报控制器的设备上
// 手动模式的设备跳过命令但保留在结果里，方便前端展示
func (s *IngestService) applyCommands(ctx context.Context, controllerID string, commands []models.DeviceCommand) []AppliedCommand {
	applied := make([]AppliedCommand, 0, len(commands))
	for _, cmd := range commands {
		result := AppliedCommand{
			Device:   cmd.Device,
			Action:   cmd.Action,
			Duration: cmd.Duration,
		}

		state, err := s.devices.GetByType(ctx, cmd.Device, controllerID)
		if err != nil {
			s.logger.Warn("Failed to load device state for command",
				zap.String("device_type", string(cmd.Device)), zap.Error(err))
			applied = append(applied, result)
			continue
		}
		if state != nil && !state.AutoMode {
			applied = append(applied, result)
			continue
		}

		if _, err := s.devices.UpdateStatus(ctx, cmd.Device, controllerID, cmd.Action); err != nil {
			s.logger.Warn("Failed to apply device command",
				zap.String("device_type", string(cmd.Device)),
				zap.String("action", string(cmd.Action)),
				zap.Error(err))
			applied = append(applied, result)
			continue
		}

		result.Applied = true
		s.metrics.CommandsTotal.WithLabelValues(string(cmd.Device), string(cmd.Action)).Inc()
		applied = append(applied, result)
	}
	return applied
}
