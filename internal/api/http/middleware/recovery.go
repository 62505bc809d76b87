package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/logger"
)

// Recovery turns handler panics into a 500 JSON response. When the handler
// already wrote a status the response is left as is.
type Recovery struct {
	logger *logger.Logger
}

func NewRecovery(logger *logger.Logger) *Recovery {
	return &Recovery{logger: logger}
}

func (m *Recovery) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			m.logger.Error("Recovery middleware: panic recovered",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
				"headers_written", ww.Status() != 0)

			if ww.Status() != 0 {
				return
			}

			respond.JSON(ww, http.StatusInternalServerError, respond.ErrorBody{
				Message: "Something went wrong",
				Error:   fmt.Sprint(rec),
			})
		}()

		next.ServeHTTP(ww, r)
	})
}
