// Package respond writes JSON responses and maps errors to their API shape.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string                     `json:"message"`
	Errors  []apiErrors.FieldViolation `json:"errors,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error sends err as an error body. Errors that are not an APIError are
// reported as internal errors.
func Error(w http.ResponseWriter, err error) {
	apiErr := AsAPIError(err)

	body := ErrorBody{
		Message: apiErr.Message,
		Errors:  apiErr.Fields,
	}
	if apiErr.Kind == apiErrors.KindInternal && apiErr.Err != nil {
		body.Error = apiErr.Err.Error()
	}

	JSON(w, apiErr.Status, body)
}

// AsAPIError unwraps err to an APIError, wrapping it as internal if needed.
func AsAPIError(err error) *apiErrors.APIError {
	var apiErr *apiErrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return apiErrors.NewErrInternalServerError(err)
}
