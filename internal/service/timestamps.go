package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Totarae/TimestampRelay/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -destination=mocks/caller_mock.go -package=mocks . Caller

// DefaultMaxWorkers максимальное число одновременных вызовов в пакетном режиме.
const DefaultMaxWorkers = 5

// Caller выполняет один вызов Bumpups API.
type Caller interface {
	Call(ctx context.Context, videoURL, apiKey string) model.Outcome
}

// TimestampService координирует вызовы Bumpups API для одиночных и пакетных запросов.
type TimestampService struct {
	Caller     Caller
	MaxWorkers int
	Logger     *zap.Logger
}

func NewTimestampService(caller Caller, maxWorkers int, logger *zap.Logger) *TimestampService {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimestampService{
		Caller:     caller,
		MaxWorkers: maxWorkers,
		Logger:     logger,
	}
}

// Single выполняет ровно один вызов для videoURL.
func (s *TimestampService) Single(ctx context.Context, videoURL, apiKey string) model.Outcome {
	out := s.Caller.Call(ctx, videoURL, apiKey)
	if !out.OK() {
		s.Logger.Warn("single request failed", zap.String("url", videoURL), zap.Error(out.Err))
		return out
	}

	var summary struct {
		TimestampsList []json.RawMessage `json:"timestamps_list"`
	}
	if err := json.Unmarshal(out.Data, &summary); err == nil {
		s.Logger.Info("timestamps generated",
			zap.String("url", videoURL),
			zap.Int("count", len(summary.TimestampsList)),
		)
	}
	return out
}

// RunBatch обрабатывает urls не более чем min(MaxWorkers, len(urls)) вызовами одновременно
// и ждёт завершения всех. Ошибка одного URL не прерывает остальные.
func (s *TimestampService) RunBatch(ctx context.Context, urls []string, apiKey string) model.BatchResult {
	var (
		mu      sync.Mutex
		results = make([]json.RawMessage, 0, len(urls))
		errs    []model.BatchError
	)

	var g errgroup.Group
	g.SetLimit(min(s.MaxWorkers, len(urls)))

	for _, videoURL := range urls {
		g.Go(func() error {
			data, err := s.callOne(ctx, videoURL, apiKey)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, model.BatchError{URL: videoURL, Error: err.Error()})
				s.Logger.Warn("batch item failed", zap.String("url", videoURL), zap.Error(err))
				return nil
			}
			results = append(results, data)
			s.Logger.Debug("batch item processed", zap.String("url", videoURL))
			return nil
		})
	}
	_ = g.Wait()

	res := model.NewBatchResult(len(urls), results, errs)
	s.Logger.Info("batch processed",
		zap.Int("total", res.TotalRequests),
		zap.Int("successful", res.Successful),
		zap.Int("failed", res.Failed),
	)
	return res
}

// callOne возвращает данные, дополненные полем url. Паника в Caller превращается в ошибку.
func (s *TimestampService) callOne(ctx context.Context, videoURL, apiKey string) (data json.RawMessage, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("panic while processing batch item", zap.String("url", videoURL), zap.Any("panic", r))
			data, err = nil, fmt.Errorf("%v", r)
		}
	}()

	out := s.Caller.Call(ctx, videoURL, apiKey)
	if !out.OK() {
		return nil, out.Err
	}
	return model.AnnotateURL(out.Data, videoURL)
}
