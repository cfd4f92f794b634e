package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Recoverer перехватывает панику и передаёт ответ fallback.
func Recoverer(logger *zap.Logger, fallback http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				fallback(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
