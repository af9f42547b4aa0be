package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter 组装全部HTTP路由
// 业务接口挂在 /api/v1 下；/healthz 与 /metrics 留在根路径给探针和抓取器
func NewRouter(
	sensors *SensorsHandler,
	devices *DevicesHandler,
	alerts *AlertsHandler,
	control *ControlHandler,
	growth *GrowthHandler,
	metricsHandler http.Handler,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/sensors/data", sensors.PostData).Methods(http.MethodPost)
	api.HandleFunc("/sensors/latest", sensors.GetLatest).Methods(http.MethodGet)
	api.HandleFunc("/sensors/history", sensors.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/sensors/stats", sensors.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/sensors/export", sensors.ExportHistory).Methods(http.MethodGet)

	api.HandleFunc("/devices", devices.List).Methods(http.MethodGet)
	api.HandleFunc("/devices/command", devices.PostCommand).Methods(http.MethodPost)
	api.HandleFunc("/devices/commands/pending", devices.GetPending).Methods(http.MethodGet)
	api.HandleFunc("/devices/{device_type}", devices.GetByType).Methods(http.MethodGet)
	api.HandleFunc("/devices/{device_type}/auto", devices.SetAutoMode).Methods(http.MethodPost)

	api.HandleFunc("/alerts", alerts.List).Methods(http.MethodGet)
	api.HandleFunc("/alerts/{id}/acknowledge", alerts.Acknowledge).Methods(http.MethodPost)

	api.HandleFunc("/status", control.GetStatus).Methods(http.MethodGet)
	api.HandleFunc("/control/settings", control.PostSettings).Methods(http.MethodPost)
	api.HandleFunc("/control/parameters", control.GetParameters).Methods(http.MethodGet)
	api.HandleFunc("/control/recommendations", control.GetRecommendations).Methods(http.MethodGet)

	api.HandleFunc("/growth/log", growth.PostLog).Methods(http.MethodPost)
	api.HandleFunc("/growth/logs", growth.ListLogs).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	return cors(loggingMiddleware(logger)(r))
}

// loggingMiddleware 每个请求一条访问日志
func loggingMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Debug("HTTP request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Duration("elapsed", time.Since(start)),
			)
		})
	}
}
