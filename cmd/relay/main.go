package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Totarae/TimestampRelay/internal/bumpups"
	"github.com/Totarae/TimestampRelay/internal/config"
	"github.com/Totarae/TimestampRelay/internal/handlers"
	"github.com/Totarae/TimestampRelay/internal/router"
	"github.com/Totarae/TimestampRelay/internal/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Инициализация конфигурации
	cfg := config.NewConfig()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	if cfg.APIKey == "" {
		logger.Warn("BUMPUPS_API_KEY не задан: все запросы получат 500")
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           newRouter(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Ошибка при остановке сервера", zap.Error(err))
		}
	}()

	logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress), zap.Bool("https", cfg.EnableHTTPS))

	var err error
	if cfg.EnableHTTPS {
		err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Ошибка при запуске сервера", zap.Error(err))
	}
	<-idle
	logger.Info("Сервер остановлен")
}

// newRouter связывает клиент Bumpups, сервис, обработчик и маршрутизатор.
func newRouter(cfg *config.Config, logger *zap.Logger) http.Handler {
	client := bumpups.NewClient(&http.Client{}, cfg.UpstreamURL, cfg.UpstreamTimeout, logger)
	svc := service.NewTimestampService(client, cfg.MaxWorkers, logger)
	handler := handlers.NewHandler(svc, cfg.APIKey, cfg.MaxBodyBytes, logger)
	return router.NewRouter(handler, logger)
}

func newLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
