package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Totarae/TimestampRelay/internal/model"
	"go.uber.org/zap"
)

//go:generate mockgen -destination=mocks/service_mock.go -package=mocks . TimestampService

// DefaultMaxBodyBytes ограничение на размер тела входящего запроса.
const DefaultMaxBodyBytes = 1 << 20

// TimestampService генерирует таймкоды через Bumpups API.
type TimestampService interface {
	Single(ctx context.Context, videoURL, apiKey string) model.Outcome
	RunBatch(ctx context.Context, urls []string, apiKey string) model.BatchResult
}

// Handler обрабатывает HTTP-запросы на генерацию таймкодов.
type Handler struct {
	Service      TimestampService
	APIKey       string
	MaxBodyBytes int64
	Logger       *zap.Logger
}

// NewHandler создаёт обработчик. Пустой apiKey не является ошибкой:
// каждый запрос получит ответ "API key not configured".
func NewHandler(svc TimestampService, apiKey string, maxBodyBytes int64, logger *zap.Logger) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Service:      svc,
		APIKey:       apiKey,
		MaxBodyBytes: maxBodyBytes,
		Logger:       logger,
	}
}

// SetCORSHeaders выставляет CORS-заголовки, общие для всех ответов.
func SetCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

// GenerateTimestamps принимает {"url": "..."} или {"urls": [...]} и возвращает
// таймкоды Bumpups API.
func (h *Handler) GenerateTimestamps(res http.ResponseWriter, req *http.Request) {
	SetCORSHeaders(res.Header())

	if req.Method == http.MethodOptions {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	if req.Method != http.MethodPost {
		h.Logger.Info("method not allowed", zap.String("method", req.Method))
		h.writeError(res, http.StatusMethodNotAllowed, model.ErrMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.Logger.Error("unexpected panic", zap.Any("panic", rec), zap.Stack("stack"))
			h.writeError(res, http.StatusInternalServerError, model.ErrInternal)
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(res, req.Body, h.MaxBodyBytes))
	if err != nil {
		h.Logger.Info("failed to read request body", zap.Error(err))
		h.writeError(res, http.StatusBadRequest, model.ErrInvalidBody)
		return
	}

	in, err := decodeRequest(body)
	if err != nil {
		h.writeError(res, http.StatusBadRequest, err)
		return
	}

	if h.APIKey == "" {
		h.Logger.Error("BUMPUPS_API_KEY is not configured")
		h.writeError(res, http.StatusInternalServerError, model.ErrConfigMissing)
		return
	}

	nreq, err := normalize(in)
	if err != nil {
		h.Logger.Info("invalid request", zap.Error(err))
		h.writeError(res, http.StatusBadRequest, err)
		return
	}

	switch nreq.Mode {
	case model.ModeBatch:
		h.Logger.Info("batch mode", zap.Int("urls", len(nreq.URLs)))
		h.respondBatch(res, h.Service.RunBatch(req.Context(), nreq.URLs, h.APIKey))
	default:
		h.Logger.Info("single mode", zap.String("url", nreq.URL))
		h.respondSingle(res, h.Service.Single(req.Context(), nreq.URL, h.APIKey))
	}
}

func (h *Handler) respondSingle(res http.ResponseWriter, out model.Outcome) {
	if !out.OK() {
		h.writeError(res, FailureStatus(out.Err), out.Err)
		return
	}
	h.writeRaw(res, http.StatusOK, out.Data)
}

func (h *Handler) respondBatch(res http.ResponseWriter, result model.BatchResult) {
	// Пакет из одного успешного URL отдаётся в формате одиночного запроса.
	if data, ok := result.Single(); ok {
		h.writeRaw(res, http.StatusOK, data)
		return
	}

	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	h.writeJSON(res, status, result)
}

// FailureStatus возвращает HTTP-статус ответа для неуспешного одиночного вызова.
func FailureStatus(e *model.UpstreamError) int {
	switch e.Kind {
	case model.KindTimeout:
		return http.StatusGatewayTimeout
	case model.KindHTTP:
		if e.Status >= http.StatusBadRequest && e.Status < 600 {
			return e.Status
		}
		return http.StatusBadGateway
	case model.KindDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Ping проверка доступности сервиса.
func (h *Handler) Ping(res http.ResponseWriter, req *http.Request) {
	h.writeJSON(res, http.StatusOK, map[string]string{"status": "ok"})
}

// InternalError отвечает 500 с телом {"error": "Internal server error"}.
func (h *Handler) InternalError(res http.ResponseWriter, req *http.Request) {
	SetCORSHeaders(res.Header())
	h.writeError(res, http.StatusInternalServerError, model.ErrInternal)
}

func (h *Handler) writeError(res http.ResponseWriter, status int, err error) {
	var upstreamErr *model.UpstreamError
	if errors.As(err, &upstreamErr) {
		h.Logger.Warn("upstream call failed",
			zap.String("kind", string(upstreamErr.Kind)),
			zap.Int("upstream_status", upstreamErr.Status),
			zap.Int("status", status),
		)
	}
	h.writeJSON(res, status, model.ErrorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(res http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.Logger.Error("failed to encode response", zap.Error(err))
		status = http.StatusInternalServerError
		data = []byte(`{"error":"Internal server error"}`)
	}
	h.writeRaw(res, status, data)
}

func (h *Handler) writeRaw(res http.ResponseWriter, status int, data []byte) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if _, err := res.Write(data); err != nil {
		h.Logger.Warn("failed to write response", zap.Error(err))
	}
}
