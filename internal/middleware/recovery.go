package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	"github.com/AIS0001/triplogic-backend/internal/handler"
	"github.com/AIS0001/triplogic-backend/internal/logging"
)

// Recovery turns a panic in a billing handler into the INTERNAL_ERROR
// envelope carrying the request id, so a cashier can quote it. Nothing is
// written when the handler had already started its response.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			logging.FromContext(r.Context()).Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"route", routePattern(r),
				"stack", string(debug.Stack()),
			)
			if tw.wroteHeader {
				return
			}
			handler.RespondAppError(w, handler.ErrInternalError, map[string]string{
				"request_id": RequestIDFromContext(r.Context()),
			})
		}()
		next.ServeHTTP(tw, r)
	})
}

type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (t *trackingWriter) WriteHeader(code int) {
	t.wroteHeader = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.wroteHeader = true
	return t.ResponseWriter.Write(b)
}

// routePattern is the matched chi pattern, e.g. /api/getbill/{id}, which keeps
// ids out of the grouping key in logs.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
