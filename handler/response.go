package handler

import (
	"encoding/json"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON renders v with status 200, or the first status given.
func JSON(v any, status ...int) Response {
	code := http.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	return jsonResponse{status: code, body: v}
}

// ErrorResponse defers to the ErrorHandler: Render returns err as is.
type ErrorResponse struct{ Err error }

func (e ErrorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.Err
}

// Error lets a handler return err through the normal error path.
func Error(err error) Response {
	return ErrorResponse{Err: err}
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}
