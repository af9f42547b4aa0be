package notifier

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/config"
	"github.com/Shellect/greenhouse-server/internal/models"
)

// webhookPayload 外发告警的消息体
type webhookPayload struct {
	NotificationID string         `json:"notification_id"`
	Source         string         `json:"source"`
	Timestamp      time.Time      `json:"timestamp"`
	Alerts         []models.Alert `json:"alerts"`
}

// WebhookNotifier 把严重告警推送到外部 Webhook
// 下游不可用时由熔断器挡住，不影响读数接入主流程
type WebhookNotifier struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	url     string
	logger  *zap.Logger
}

// NewWebhookNotifier 创建 Webhook 通知器
func NewWebhookNotifier(cfg config.WebhookConfig, logger *zap.Logger) *WebhookNotifier {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "alert-webhook",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	return &WebhookNotifier{
		client:  client,
		breaker: breaker,
		url:     cfg.URL,
		logger:  logger,
	}
}

// Enabled 是否配置了外发地址
func (n *WebhookNotifier) Enabled() bool {
	return n.url != ""
}

// NotifyAlerts 推送一批告警中的严重级别部分，没有严重告警则不外发
func (n *WebhookNotifier) NotifyAlerts(alerts []models.Alert) error {
	critical := make([]models.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Level == models.AlertLevelCritical {
			critical = append(critical, alert)
		}
	}
	if len(critical) == 0 || !n.Enabled() {
		return nil
	}

	payload := webhookPayload{
		NotificationID: uuid.NewString(),
		Source:         "greenhouse-server",
		Timestamp:      time.Now().UTC(),
		Alerts:         critical,
	}

	_, err := n.breaker.Execute(func() (interface{}, error) {
		resp, err := n.client.R().SetBody(payload).Post(n.url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("webhook returned status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		n.logger.Warn("Failed to deliver alert webhook",
			zap.String("notification_id", payload.NotificationID),
			zap.Int("alerts", len(critical)),
			zap.Error(err))
		return fmt.Errorf("failed to deliver alert webhook: %w", err)
	}

	n.logger.Info("Alert webhook delivered",
		zap.String("notification_id", payload.NotificationID),
		zap.Int("alerts", len(critical)))
	return nil
}
