package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/cache"
	"github.com/Shellect/greenhouse-server/internal/engine"
	"github.com/Shellect/greenhouse-server/internal/models"
	"github.com/Shellect/greenhouse-server/internal/repository"
)

// ConnectionStatus 现场控制器连接质量
type ConnectionStatus string

const (
	ConnectionGood ConnectionStatus = "good" // 最近2分钟内有读数
	ConnectionWeak ConnectionStatus = "weak" // 最近5分钟内有读数
	ConnectionLost ConnectionStatus = "lost" // 超过5分钟没有读数
)

// GreenhouseStatus 温室总览状态
type GreenhouseStatus struct {
	Timestamp       time.Time             `json:"timestamp"`
	Connection      ConnectionStatus      `json:"connection"`
	LatestReading   *models.SensorReading `json:"latest_reading,omitempty"`
	Devices         []models.DeviceState  `json:"devices"`
	ActiveAlerts    int                   `json:"active_alerts"`
	HealthScore     float64               `json:"health_score"`
	IsDaytime       bool                  `json:"is_daytime"`
	GrowthStage     models.GrowthStage    `json:"growth_stage"`
	Recommendations []string              `json:"recommendations"`
}

// StatusService 组装温室总览状态
type StatusService struct {
	readings *repository.ReadingRepository
	devices  *repository.DeviceRepository
	alerts   *repository.AlertRepository
	engine   *engine.Engine
	cache    *cache.LatestReadingCache // 可为 nil
	logger   *zap.Logger

	now func() time.Time
}

// NewStatusService 创建状态服务
func NewStatusService(
	readings *repository.ReadingRepository,
	devices *repository.DeviceRepository,
	alerts *repository.AlertRepository,
	eng *engine.Engine,
	readingCache *cache.LatestReadingCache,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		readings: readings,
		devices:  devices,
		alerts:   alerts,
		engine:   eng,
		cache:    readingCache,
		logger:   logger,
		now:      time.Now,
	}
}

// GetStatus 取温室总览
// 最新读数优先走缓存，缓存未命中或异常时回落到数据库
func (s *StatusService) GetStatus(ctx context.Context) (*GreenhouseStatus, error) {
	now := s.now()
	status := &GreenhouseStatus{
		Timestamp:  now,
		Connection: ConnectionLost,
	}

	reading := s.latestReading(ctx)
	status.LatestReading = reading

	devices, err := s.devices.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	status.Devices = devices

	activeAlerts, err := s.alerts.CountActive(ctx)
	if err != nil {
		s.logger.Warn("Failed to count active alerts", zap.Error(err))
	} else {
		status.ActiveAlerts = activeAlerts
	}

	if reading == nil {
		// 还没有任何读数：给接入提示，健康分记0
		status.GrowthStage = s.engine.GrowthStage(readOnlyController(""))
		status.Recommendations = []string{"no sensor data yet: connect a field controller"}
		return status, nil
	}

	status.Connection = classifyConnection(now.Sub(reading.Timestamp))

	evaluation := s.engine.Preview(readOnlyController(reading.DeviceID), reading.Data(), now)
	status.HealthScore = evaluation.HealthScore
	status.IsDaytime = evaluation.IsDaytime
	status.GrowthStage = evaluation.GrowthStage
	status.Recommendations = evaluation.Recommendations

	return status, nil
}

func (s *StatusService) latestReading(ctx context.Context) *models.SensorReading {
	if s.cache != nil {
		cached, err := s.cache.Load(ctx, "")
		if err != nil {
			s.logger.Warn("Failed to load latest reading from cache", zap.Error(err))
		} else if cached != nil {
			return cached
		}
	}

	reading, err := s.readings.GetLatest(ctx)
	if err != nil {
		s.logger.Warn("Failed to load latest reading", zap.Error(err))
		return nil
	}
	return reading
}

// classifyConnection 按读数新鲜度判定连接质量
func classifyConnection(age time.Duration) ConnectionStatus {
	switch {
	case age < 2*time.Minute:
		return ConnectionGood
	case age < 5*time.Minute:
		return ConnectionWeak
	default:
		return ConnectionLost
	}
}

func readOnlyController(deviceID string) string {
	if deviceID == "" {
		return "nodemcu-1"
	}
	return deviceID
}
