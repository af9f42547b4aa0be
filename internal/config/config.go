package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig PostgreSQL配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置（Broker为空时不启用MQTT接入）
type MQTTConfig struct {
	Broker             string
	ClientID           string
	Username           string
	Password           string
	QoS                byte
	TelemetryTopic     string // 控制器遥测主题（通配符，如 greenhouse/+/sensors）
	CommandTopicPrefix string // 命令下发主题前缀（后接控制器ID）
}

// Enabled MQTT接入是否启用
func (c *MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// WebhookConfig 告警Webhook配置（URL为空时不外发）
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// Config 温室服务配置
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Webhook  WebhookConfig

	// 会话策略
	Session struct {
		WateringCooldown time.Duration // 两次浇水命令之间的最小间隔
		DefaultStage     string        // 新控制器的默认生长阶段
	}

	Thresholds Thresholds

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置（.env 文件 + 环境变量，环境变量优先级由 godotenv 保证）
func Load() (*Config, error) {
	// .env 不存在不算错误（生产环境直接用环境变量）
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8000")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "greenhouse")
	cfg.Database.Password = getEnv("DB_PASSWORD", "greenhouse")
	cfg.Database.Database = getEnv("DB_NAME", "greenhouse")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "greenhouse-server")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = byte(getEnvInt("MQTT_QOS", 1))
	cfg.MQTT.TelemetryTopic = getEnv("MQTT_TELEMETRY_TOPIC", "greenhouse/+/sensors")
	cfg.MQTT.CommandTopicPrefix = getEnv("MQTT_COMMAND_TOPIC_PREFIX", "greenhouse/")

	cfg.Webhook.URL = getEnv("ALERT_WEBHOOK_URL", "")
	cfg.Webhook.Timeout = time.Duration(getEnvInt("ALERT_WEBHOOK_TIMEOUT_SEC", 10)) * time.Second

	cfg.Session.WateringCooldown = time.Duration(getEnvInt("WATERING_COOLDOWN_MIN", 30)) * time.Minute
	cfg.Session.DefaultStage = getEnv("DEFAULT_GROWTH_STAGE", "vegetative")

	cfg.Thresholds = LoadThresholds()
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
