package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/config"
	"github.com/Shellect/greenhouse-server/internal/models"
	"github.com/Shellect/greenhouse-server/internal/mqtt"
	"github.com/Shellect/greenhouse-server/internal/service"
)

// MQTTConsumer 现场控制器遥测的MQTT接入
// 订阅遥测主题，走与HTTP接入相同的处理流程，再把生效命令发回控制器
type MQTTConsumer struct {
	config     *config.MQTTConfig
	mqttClient *mqtt.Client
	ingest     *service.IngestService
	logger     *zap.Logger
}

// NewMQTTConsumer 创建MQTT消费者
func NewMQTTConsumer(
	cfg *config.MQTTConfig,
	mqttClient *mqtt.Client,
	ingest *service.IngestService,
	logger *zap.Logger,
) *MQTTConsumer {
	return &MQTTConsumer{
		config:     cfg,
		mqttClient: mqttClient,
		ingest:     ingest,
		logger:     logger,
	}
}

// Start 启动消费者，阻塞到上下文取消
func (c *MQTTConsumer) Start(ctx context.Context) error {
	topic := c.config.TelemetryTopic
	if topic == "" {
		return fmt.Errorf("telemetry topic not configured")
	}

	if err := c.mqttClient.Subscribe(topic, c.config.QoS, c.handleMessage); err != nil {
		return fmt.Errorf("failed to subscribe to telemetry topic: %w", err)
	}

	c.logger.Info("MQTT consumer started", zap.String("topic", topic))

	<-ctx.Done()
	return nil
}

// Stop 停止消费者
func (c *MQTTConsumer) Stop() {
	if c.config.TelemetryTopic != "" {
		if err := c.mqttClient.Unsubscribe(c.config.TelemetryTopic); err != nil {
			c.logger.Error("Failed to unsubscribe", zap.Error(err))
		}
	}
	c.logger.Info("MQTT consumer stopped")
}

// handleMessage 处理一条遥测消息
func (c *MQTTConsumer) handleMessage(topic string, payload []byte) error {
	c.logger.Debug("Received MQTT message",
		zap.String("topic", topic),
		zap.Int("payload_size", len(payload)),
	)

	var data models.SensorData
	if err := json.Unmarshal(payload, &data); err != nil {
		return fmt.Errorf("failed to unmarshal telemetry: %w", err)
	}

	// 消息体没带 device_id 时取主题里的控制器段
	if data.DeviceID == "" {
		data.DeviceID = controllerFromTopic(topic)
	}

	result, err := c.ingest.ProcessReading(context.Background(), data)
	if err != nil {
		return fmt.Errorf("failed to process telemetry: %w", err)
	}

	return c.publishCommands(data.DeviceID, result)
}

// publishCommands 把实际生效的命令发回控制器的命令主题
func (c *MQTTConsumer) publishCommands(controllerID string, result *service.IngestResult) error {
	applied := make([]service.AppliedCommand, 0, len(result.Commands))
	for _, cmd := range result.Commands {
		if cmd.Applied {
			applied = append(applied, cmd)
		}
	}
	if len(applied) == 0 {
		return nil
	}

	payload, err := json.Marshal(applied)
	if err != nil {
		return fmt.Errorf("failed to marshal commands: %w", err)
	}

	topic := c.config.CommandTopicPrefix + controllerID + "/commands"
	if err := c.mqttClient.Publish(topic, c.config.QoS, false, payload); err != nil {
		return err
	}

	c.logger.Info("Commands published",
		zap.String("topic", topic),
		zap.Int("commands", len(applied)))
	return nil
}

// controllerFromTopic 从 greenhouse/<controller>/sensors 形式的主题提取控制器ID
func controllerFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) >= 2 {
		return parts[1]
	}
	return ""
}
