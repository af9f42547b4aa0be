package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Shellect/greenhouse-server/internal/cache"
	"github.com/Shellect/greenhouse-server/internal/config"
	"github.com/Shellect/greenhouse-server/internal/consumer"
	"github.com/Shellect/greenhouse-server/internal/engine"
	httpapi "github.com/Shellect/greenhouse-server/internal/http"
	"github.com/Shellect/greenhouse-server/internal/logger"
	"github.com/Shellect/greenhouse-server/internal/metrics"
	"github.com/Shellect/greenhouse-server/internal/mqtt"
	"github.com/Shellect/greenhouse-server/internal/notifier"
	"github.com/Shellect/greenhouse-server/internal/repository"
	"github.com/Shellect/greenhouse-server/internal/service"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "greenhouse-server")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 连接数据库（带退避重试）并建表
	db, err := openDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := repository.InitSchema(ctx, db); err != nil {
		log.Fatal("Failed to init database schema", zap.Error(err))
	}

	// 4. Redis缓存（不可用时降级为无缓存，不阻止启动）
	var readingCache *cache.LatestReadingCache
	redisClient := cache.NewRedisClient(&cfg.Redis)
	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, continuing without cache",
			zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	} else {
		readingCache = cache.NewLatestReadingCache(cache.NewRedisKVStore(redisClient), log)
	}
	pingCancel()
	defer redisClient.Close()

	// 5. 组装组件
	m := metrics.New()
	eng := engine.NewEngine(cfg, log)

	readingRepo := repository.NewReadingRepository(db, log)
	deviceRepo := repository.NewDeviceRepository(db, log)
	alertRepo := repository.NewAlertRepository(db, log)
	growthRepo := repository.NewGrowthRepository(db, log)

	webhook := notifier.NewWebhookNotifier(cfg.Webhook, log)
	ingest := service.NewIngestService(readingRepo, deviceRepo, alertRepo, eng, readingCache, webhook, m, log)
	status := service.NewStatusService(readingRepo, deviceRepo, alertRepo, eng, readingCache, log)

	router := httpapi.NewRouter(
		httpapi.NewSensorsHandler(ingest, readingRepo, log),
		httpapi.NewDevicesHandler(deviceRepo, log),
		httpapi.NewAlertsHandler(alertRepo, log),
		httpapi.NewControlHandler(status, deviceRepo, eng, &cfg.Thresholds, log),
		httpapi.NewGrowthHandler(growthRepo, eng, log),
		m.Handler(),
		log,
	)

	// 6. 启动HTTP服务
	server := service.NewServer(cfg.HTTP.Addr, router, log)
	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	// 7. 可选的MQTT接入
	var mqttConsumer *consumer.MQTTConsumer
	if cfg.MQTT.Enabled() {
		mqttClient, err := mqtt.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		defer mqttClient.Disconnect()

		mqttConsumer = consumer.NewMQTTConsumer(&cfg.MQTT, mqttClient, ingest, log)
		go func() {
			if err := mqttConsumer.Start(ctx); err != nil {
				serverErrChan <- err
			}
		}()
	}

	// 8. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErrChan:
		log.Error("Service error", zap.Error(err))
	}

	cancel()
	if mqttConsumer != nil {
		mqttConsumer.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop HTTP server", zap.Error(err))
	}

	log.Info("Greenhouse server stopped")
}

// openDatabase 打开Postgres连接，连接失败按指数退避重试
func openDatabase(cfg *config.Config, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	err = backoff.Retry(func() error {
		if err := db.Ping(); err != nil {
			log.Warn("Database ping failed, retrying", zap.Error(err))
			return err
		}
		return nil
	}, backoff.WithMaxRetries(bo, 10))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
