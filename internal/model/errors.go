package model

import "errors"

// Ошибки валидации и конфигурации. Текст ошибки отдаётся клиенту как есть.
var (
	ErrMethodNotAllowed = errors.New("Method not allowed")
	ErrInvalidBody      = errors.New("Invalid JSON in request body")
	ErrEmptyBatch       = errors.New("Empty 'urls' array provided")
	ErrMissingField     = errors.New("Missing required field: 'url' (string) or 'urls' (array)")
	ErrInvalidURLs      = errors.New("Field 'urls' must be an array of strings")
	ErrConfigMissing    = errors.New("API key not configured")
	ErrInternal         = errors.New("Internal server error")
)

// ErrorResponse представляет тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
