package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Totarae/TimestampRelay/internal/model"
	"github.com/Totarae/TimestampRelay/internal/service"
	"github.com/Totarae/TimestampRelay/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// slowCaller считает одновременные вызовы.
type slowCaller struct {
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	calls    atomic.Int32
}

func (c *slowCaller) Call(ctx context.Context, videoURL, apiKey string) model.Outcome {
	c.calls.Add(1)
	cur := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		prev := c.maxSeen.Load()
		if cur <= prev || c.maxSeen.CompareAndSwap(prev, cur) {
			break
		}
	}
	time.Sleep(c.delay)
	return model.Success(json.RawMessage(`{"timestamps_list":[]}`))
}

type panicCaller struct{}

func (panicCaller) Call(ctx context.Context, videoURL, apiKey string) model.Outcome {
	panic("boom")
}

func urlsN(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://youtu.be/v%d", i)
	}
	return urls
}

func TestSingle(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := mocks.NewMockCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), "https://youtu.be/a", "key").
		Return(model.Success(json.RawMessage(`{"timestamps_list":["0:00 a","1:00 b"]}`))).
		Times(1)

	svc := service.NewTimestampService(caller, 0, zap.NewNop())
	out := svc.Single(context.Background(), "https://youtu.be/a", "key")

	require.True(t, out.OK())
	assert.JSONEq(t, `{"timestamps_list":["0:00 a","1:00 b"]}`, string(out.Data))
}

func TestSingle_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := mocks.NewMockCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), "https://youtu.be/a", "key").
		Return(model.Failure(model.KindTimeout, 0, "Request to Bumpups API timed out after 60 seconds"))

	svc := service.NewTimestampService(caller, 5, nil)
	out := svc.Single(context.Background(), "https://youtu.be/a", "key")

	require.False(t, out.OK())
	assert.Equal(t, model.KindTimeout, out.Err.Kind)
}

func TestRunBatch_PartialSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := mocks.NewMockCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), "https://youtu.be/ok", "key").
		Return(model.Success(json.RawMessage(`{"timestamps_list":["0:00 a"]}`)))
	caller.EXPECT().
		Call(gomock.Any(), "https://youtu.be/bad", "key").
		Return(model.Failure(model.KindHTTP, 404, "Bumpups API returned status 404: not found"))

	svc := service.NewTimestampService(caller, 5, zap.NewNop())
	res := svc.RunBatch(context.Background(), []string{"https://youtu.be/ok", "https://youtu.be/bad"}, "key")

	assert.True(t, res.Batch)
	assert.Equal(t, 2, res.TotalRequests)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Results, 1)
	assert.JSONEq(t, `{"timestamps_list":["0:00 a"],"url":"https://youtu.be/ok"}`, string(res.Results[0]))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, model.BatchError{URL: "https://youtu.be/bad", Error: "Bumpups API returned status 404: not found"}, res.Errors[0])

	_, ok := res.Single()
	assert.False(t, ok)
}

func TestRunBatch_AllSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := mocks.NewMockCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), gomock.Any(), "key").
		Return(model.Success(json.RawMessage(`{}`))).
		Times(7)

	svc := service.NewTimestampService(caller, 5, zap.NewNop())
	urls := urlsN(7)
	res := svc.RunBatch(context.Background(), urls, "key")

	assert.Equal(t, 7, res.TotalRequests)
	assert.Equal(t, 7, res.Successful)
	assert.Equal(t, 0, res.Failed)
	assert.Nil(t, res.Errors)

	seen := make([]string, 0, len(res.Results))
	for _, raw := range res.Results {
		var obj struct {
			URL string `json:"url"`
		}
		require.NoError(t, json.Unmarshal(raw, &obj))
		seen = append(seen, obj.URL)
	}
	assert.ElementsMatch(t, urls, seen)
}

func TestRunBatch_SingleCollapse(t *testing.T) {
	ctrl := gomock.NewController(t)
	caller := mocks.NewMockCaller(ctrl)
	caller.EXPECT().
		Call(gomock.Any(), "https://youtu.be/one", "key").
		Return(model.Success(json.RawMessage(`{"timestamps_list":[]}`)))

	svc := service.NewTimestampService(caller, 5, zap.NewNop())
	res := svc.RunBatch(context.Background(), []string{"https://youtu.be/one"}, "key")

	data, ok := res.Single()
	require.True(t, ok)
	assert.JSONEq(t, `{"timestamps_list":[],"url":"https://youtu.be/one"}`, string(data))
}

func TestRunBatch_ConcurrencyLimit(t *testing.T) {
	for _, tc := range []struct {
		name       string
		urls       int
		maxWorkers int
		wantMax    int32
	}{
		{name: "more urls than workers", urls: 12, maxWorkers: 5, wantMax: 5},
		{name: "fewer urls than workers", urls: 3, maxWorkers: 5, wantMax: 3},
		{name: "custom limit", urls: 6, maxWorkers: 2, wantMax: 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			caller := &slowCaller{delay: 30 * time.Millisecond}
			svc := service.NewTimestampService(caller, tc.maxWorkers, zap.NewNop())

			res := svc.RunBatch(context.Background(), urlsN(tc.urls), "key")

			assert.Equal(t, int32(tc.urls), caller.calls.Load())
			assert.LessOrEqual(t, caller.maxSeen.Load(), tc.wantMax)
			assert.Equal(t, res.TotalRequests, res.Successful+res.Failed)
			assert.Len(t, res.Results, res.Successful)
			assert.Equal(t, int32(0), caller.inFlight.Load())
		})
	}
}

func TestRunBatch_RecoversPanic(t *testing.T) {
	svc := service.NewTimestampService(panicCaller{}, 5, zap.NewNop())

	res := svc.RunBatch(context.Background(), []string{"https://youtu.be/a", "https://youtu.be/b"}, "key")

	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 0, res.Successful)
	for _, e := range res.Errors {
		assert.Equal(t, "boom", e.Error)
	}
}

func TestRunBatch_ConcurrentCallsSafe(t *testing.T) {
	caller := &slowCaller{delay: time.Millisecond}
	svc := service.NewTimestampService(caller, 5, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := svc.RunBatch(context.Background(), urlsN(10), "key")
			assert.Equal(t, 10, res.Successful)
		}()
	}
	wg.Wait()
}
