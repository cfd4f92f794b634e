// Package bumpups реализует вызов Bumpups API для одного видео.
package bumpups

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Totarae/TimestampRelay/internal/model"
	"go.uber.org/zap"
)

const (
	// DefaultEndpoint адрес Bumpups API по умолчанию.
	DefaultEndpoint = "https://api.bumpups.com/general/timestamps"
	// DefaultTimeout ограничение на один вызов.
	DefaultTimeout = 60 * time.Second

	apiKeyHeader = "X-Api-Key"
	snippetLimit = 200
)

// Client выполняет запросы к Bumpups API. Повторов нет: каждый вызов выполняется ровно один раз.
type Client struct {
	HTTP     *http.Client
	Endpoint string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// NewClient создаёт клиента. Пустые значения заменяются значениями по умолчанию.
func NewClient(httpClient *http.Client, endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:     httpClient,
		Endpoint: endpoint,
		Timeout:  timeout,
		Logger:   logger,
	}
}

// Call отправляет одно видео в Bumpups API и классифицирует результат.
func (c *Client) Call(ctx context.Context, videoURL, apiKey string) model.Outcome {
	body, err := json.Marshal(model.NewUpstreamPayload(videoURL))
	if err != nil {
		return model.Failure(model.KindTransport, 0, fmt.Sprintf("Error calling Bumpups API: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Failure(model.KindTransport, 0, fmt.Sprintf("Error calling Bumpups API: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, apiKey)

	c.Logger.Debug("calling Bumpups API", zap.String("url", videoURL))

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("Bumpups API returned status %d: %s", resp.StatusCode, snippet(respBody))
		return model.Failure(model.KindHTTP, resp.StatusCode, msg)
	}

	// 200 с телом, которое не является JSON-объектом, считается ошибкой.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(respBody, &obj); err != nil || obj == nil {
		c.Logger.Warn("Bumpups API returned non-object body",
			zap.String("url", videoURL),
			zap.String("body", snippet(respBody)),
		)
		return model.Failure(model.KindDecode, resp.StatusCode,
			fmt.Sprintf("Bumpups API returned invalid JSON: %s", snippet(respBody)))
	}

	return model.Success(json.RawMessage(respBody))
}

func (c *Client) transportFailure(ctx context.Context, err error) model.Outcome {
	if isTimeout(ctx, err) {
		return model.Failure(model.KindTimeout, 0,
			"Request to Bumpups API timed out after "+formatSeconds(c.Timeout)+" seconds")
	}
	return model.Failure(model.KindTransport, 0, fmt.Sprintf("Error calling Bumpups API: %v", err))
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// snippet возвращает первые snippetLimit символов тела.
func snippet(b []byte) string {
	r := []rune(string(b))
	if len(r) > snippetLimit {
		r = r[:snippetLimit]
	}
	return string(r)
}
