package model

import (
	"encoding/json"
	"fmt"
)

// Фиксированные параметры запроса к Bumpups API.
const (
	UpstreamModel           = "bump-1.0"
	UpstreamLanguage        = "en"
	UpstreamTimestampsStyle = "long"
)

// UpstreamPayload представляет тело запроса к Bumpups API.
type UpstreamPayload struct {
	URL             string `json:"url"`
	Model           string `json:"model"`
	Language        string `json:"language"`
	TimestampsStyle string `json:"timestamps_style"`
}

// NewUpstreamPayload собирает payload для одного видео.
func NewUpstreamPayload(videoURL string) UpstreamPayload {
	return UpstreamPayload{
		URL:             videoURL,
		Model:           UpstreamModel,
		Language:        UpstreamLanguage,
		TimestampsStyle: UpstreamTimestampsStyle,
	}
}

// UpstreamErrorKind классифицирует неуспешный вызов Bumpups API.
type UpstreamErrorKind string

const (
	KindTimeout   UpstreamErrorKind = "timeout"
	KindHTTP      UpstreamErrorKind = "http"
	KindTransport UpstreamErrorKind = "transport"
	KindDecode    UpstreamErrorKind = "decode"
)

// UpstreamError описывает неуспешный вызов. Status заполнен только для KindHTTP.
type UpstreamError struct {
	Kind    UpstreamErrorKind
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Outcome результат одного вызова: либо Data (JSON-объект), либо Err.
type Outcome struct {
	Data json.RawMessage
	Err  *UpstreamError
}

// Success создаёт успешный Outcome.
func Success(data json.RawMessage) Outcome {
	return Outcome{Data: data}
}

// Failure создаёт неуспешный Outcome.
func Failure(kind UpstreamErrorKind, status int, message string) Outcome {
	return Outcome{Err: &UpstreamError{Kind: kind, Status: status, Message: message}}
}

// OK сообщает, успешен ли вызов.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// AnnotateURL возвращает копию JSON-объекта data с ключом "url", равным videoURL.
func AnnotateURL(data json.RawMessage, videoURL string) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode upstream object: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("decode upstream object: not a JSON object")
	}

	encodedURL, err := json.Marshal(videoURL)
	if err != nil {
		return nil, err
	}
	obj["url"] = encodedURL

	return json.Marshal(obj)
}
