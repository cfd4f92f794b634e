package model

import "encoding/json"

// Mode режим обработки входящего запроса.
type Mode int

const (
	// ModeSingle один URL в поле "url".
	ModeSingle Mode = iota + 1
	// ModeBatch массив URL в поле "urls".
	ModeBatch
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// InboundRequest представляет тело запроса на генерацию таймкодов.
// Поля оставлены сырыми, чтобы различать отсутствие поля, null и тип значения.
type InboundRequest struct {
	URL  json.RawMessage `json:"url"`
	URLs json.RawMessage `json:"urls"`
}

// NormalizedRequest результат разбора и валидации InboundRequest.
type NormalizedRequest struct {
	Mode Mode
	URL  string
	URLs []string
}
