package app_error

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// AppError is the error type every service and repository returns. Code is an
// HTTP status, Field names the offending input or subsystem.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e AppError) Error() string {
	return e.Message
}

func (e AppError) JSON(w http.ResponseWriter) error {
	return json.NewEncoder(w).Encode(e)
}

func NewAppError(code int, msg, field string) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Field:   field,
	}
}

func Internal(field string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: fmt.Sprintf("unexpected error: %v", err),
		Field:   field,
	}
}
