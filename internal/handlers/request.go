package handlers

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Totarae/TimestampRelay/internal/model"
)

// Normalize разбирает тело запроса и определяет режим обработки.
//
// Порядок проверки: "urls" (JSON-массив) -> пакетный режим, иначе непустая строка "url"
// -> одиночный режим, иначе ErrMissingField.
func Normalize(body []byte) (model.NormalizedRequest, error) {
	in, err := decodeRequest(body)
	if err != nil {
		return model.NormalizedRequest{}, err
	}
	return normalize(in)
}

// decodeRequest проверяет, что тело является JSON-объектом.
func decodeRequest(body []byte) (model.InboundRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return model.InboundRequest{}, model.ErrInvalidBody
	}
	return model.InboundRequest{URL: fields["url"], URLs: fields["urls"]}, nil
}

func normalize(in model.InboundRequest) (model.NormalizedRequest, error) {
	if isJSONArray(in.URLs) {
		var items []json.RawMessage
		if err := json.Unmarshal(in.URLs, &items); err != nil {
			return model.NormalizedRequest{}, model.ErrInvalidBody
		}
		if len(items) == 0 {
			return model.NormalizedRequest{}, model.ErrEmptyBatch
		}

		urls := make([]string, 0, len(items))
		for _, item := range items {
			var u string
			if err := json.Unmarshal(item, &u); err != nil {
				return model.NormalizedRequest{}, model.ErrInvalidURLs
			}
			urls = append(urls, u)
		}
		return model.NormalizedRequest{Mode: model.ModeBatch, URLs: urls}, nil
	}

	var u string
	if len(in.URL) > 0 && json.Unmarshal(in.URL, &u) == nil {
		if u = strings.TrimSpace(u); u != "" {
			return model.NormalizedRequest{Mode: model.ModeSingle, URL: u}, nil
		}
	}
	return model.NormalizedRequest{}, model.ErrMissingField
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
