package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/api/http/validate"
	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
	"github.com/dtroode/taskkeeper-server/internal/logger"
)

// errNotValidated means a route was mounted without its validate.Middleware.
var errNotValidated = errors.New("request was not validated")

// handleError logs failures that are not client errors and writes the
// response.
func handleError(w http.ResponseWriter, lg *logger.Logger, msg string, err error, args ...any) {
	apiErr := respond.AsAPIError(err)
	if apiErr.Kind == apiErrors.KindInternal {
		lg.Error(msg, append(args, "error", err.Error())...)
	}

	respond.Error(w, apiErr)
}

func request[B, P, Q any](r *http.Request) (validate.Request[B, P, Q], error) {
	req, ok := validate.FromContext[B, P, Q](r.Context())
	if !ok {
		return req, errNotValidated
	}

	return req, nil
}

func parseTaskID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apiErrors.NewErrValidation([]apiErrors.FieldViolation{
			{Field: "params.id", Message: "must be a valid UUID"},
		})
	}

	return id, nil
}
