package bumpups

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Totarae/TimestampRelay/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(endpoint string, timeout time.Duration) *Client {
	return NewClient(&http.Client{}, endpoint, timeout, zap.NewNop())
}

func TestCall_Success(t *testing.T) {
	var got model.UpstreamPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"timestamps_list":["0:00 Intro"]}`))
	}))
	defer server.Close()

	out := newTestClient(server.URL, time.Second).Call(context.Background(), "https://youtu.be/abc", "secret")

	require.True(t, out.OK())
	assert.JSONEq(t, `{"timestamps_list":["0:00 Intro"]}`, string(out.Data))
	assert.Equal(t, model.NewUpstreamPayload("https://youtu.be/abc"), got)
	assert.Equal(t, "bump-1.0", got.Model)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "long", got.TimestampsStyle)
}

func TestCall_HTTPError(t *testing.T) {
	long := strings.Repeat("x", 500)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(long))
	}))
	defer server.Close()

	out := newTestClient(server.URL, time.Second).Call(context.Background(), "https://youtu.be/abc", "secret")

	require.False(t, out.OK())
	assert.Equal(t, model.KindHTTP, out.Err.Kind)
	assert.Equal(t, http.StatusTooManyRequests, out.Err.Status)
	assert.Equal(t, "Bumpups API returned status 429: "+strings.Repeat("x", 200), out.Err.Message)
}

func TestCall_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	out := newTestClient(server.URL, 50*time.Millisecond).Call(context.Background(), "https://youtu.be/abc", "secret")

	require.False(t, out.OK())
	assert.Equal(t, model.KindTimeout, out.Err.Kind)
	assert.Contains(t, out.Err.Message, "timed out after 0.05 seconds")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCall_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	out := newTestClient(endpoint, time.Second).Call(context.Background(), "https://youtu.be/abc", "secret")

	require.False(t, out.OK())
	assert.Equal(t, model.KindTransport, out.Err.Kind)
	assert.True(t, strings.HasPrefix(out.Err.Message, "Error calling Bumpups API: "))
}

func TestCall_InvalidJSON(t *testing.T) {
	for name, body := range map[string]string{
		"not json": "<html>oops</html>",
		"array":    `[1,2,3]`,
		"null":     `null`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			out := newTestClient(server.URL, time.Second).Call(context.Background(), "https://youtu.be/abc", "secret")

			require.False(t, out.OK())
			assert.Equal(t, model.KindDecode, out.Err.Kind)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, "", 0, nil)

	assert.Equal(t, DefaultEndpoint, c.Endpoint)
	assert.Equal(t, DefaultTimeout, c.Timeout)
	assert.Equal(t, http.DefaultClient, c.HTTP)
	assert.NotNil(t, c.Logger)
	assert.Equal(t, "60", formatSeconds(c.Timeout))
}
