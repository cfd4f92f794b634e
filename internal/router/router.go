package router

import (
	"github.com/Totarae/TimestampRelay/internal/handlers"
	"github.com/Totarae/TimestampRelay/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.Recoverer(logger, handler.InternalError))
	r.Use(middleware.GzipMiddleware)

	// Метод проверяется в обработчике: OPTIONS -> 204, всё кроме POST -> 405 в JSON.
	r.HandleFunc("/", handler.GenerateTimestamps)
	r.HandleFunc("/generate_timestamps", handler.GenerateTimestamps)
	r.Get("/ping", handler.Ping)
	return r
}
