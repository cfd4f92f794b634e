package model

import "encoding/json"

// BatchError представляет ошибку обработки одного URL в пакетном запросе.
type BatchError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// BatchResult представляет агрегированный ответ на пакетный запрос.
// Results и Errors заполняются в порядке завершения вызовов, а не в порядке URL.
type BatchResult struct {
	Batch         bool              `json:"batch"`
	TotalRequests int               `json:"total_requests"`
	Successful    int               `json:"successful"`
	Failed        int               `json:"failed"`
	Results       []json.RawMessage `json:"results"`
	Errors        []BatchError      `json:"errors"`
}

// NewBatchResult собирает BatchResult. Пустой errors сериализуется как null.
func NewBatchResult(total int, results []json.RawMessage, errs []BatchError) BatchResult {
	if results == nil {
		results = []json.RawMessage{}
	}
	if len(errs) == 0 {
		errs = nil
	}
	return BatchResult{
		Batch:         true,
		TotalRequests: total,
		Successful:    len(results),
		Failed:        len(errs),
		Results:       results,
		Errors:        errs,
	}
}

// Single возвращает единственный результат, если пакет из одного URL прошёл успешно.
func (b BatchResult) Single() (json.RawMessage, bool) {
	if b.TotalRequests == 1 && len(b.Results) == 1 && len(b.Errors) == 0 {
		return b.Results[0], true
	}
	return nil, false
}
