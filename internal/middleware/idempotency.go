package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/AIS0001/triplogic-backend/internal/auth"
	"github.com/AIS0001/triplogic-backend/internal/handler"
	"github.com/AIS0001/triplogic-backend/internal/logging"
	"github.com/AIS0001/triplogic-backend/internal/repository"
)

// IdempotencyStore claims Idempotency-Keys per user and keeps the responses
// for replay.
type IdempotencyStore interface {
	Reserve(ctx context.Context, rec *repository.IdempotencyRecord) (*repository.IdempotencyRecord, bool, error)
	Complete(ctx context.Context, key string, userID int64, status int, body []byte) error
	Release(ctx context.Context, key string, userID int64) error
}

const idempotencyTTL = 24 * time.Hour

// Idempotency makes bill and payment writes safe to retry. A write carrying an
// Idempotency-Key claims the key before it runs: a retry of a finished write
// replays its response, a retry racing the original gets 409, and a key reused
// for a different body or route gets 409. Writes without the header go
// straight through.
func Idempotency(store IdempotencyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidRequest, nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			route := r.Method + " " + r.URL.Path
			hash := bodyHash(body)
			now := time.Now().UTC()
			log := logging.FromContext(r.Context()).With("idempotency_key", key, "route", route)

			existing, reserved, err := store.Reserve(r.Context(), &repository.IdempotencyRecord{
				Key:         key,
				UserID:      userID,
				Route:       route,
				RequestHash: hash,
				CreatedAt:   now,
				ExpiresAt:   now.Add(idempotencyTTL),
			})
			if err != nil {
				log.Error("idempotency reserve failed", "error", err)
				handler.RespondAppError(w, handler.ErrInternalError, nil)
				return
			}

			if !reserved {
				replay(w, existing, route, hash, log)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			// The claim outlives a client that hung up mid-request.
			ctx := context.WithoutCancel(r.Context())
			if rec.statusCode >= http.StatusInternalServerError {
				if err := store.Release(ctx, key, userID); err != nil {
					log.Error("idempotency release failed", "error", err)
				}
				return
			}
			if err := store.Complete(ctx, key, userID, rec.statusCode, rec.body.Bytes()); err != nil {
				log.Error("idempotency complete failed", "error", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, existing *repository.IdempotencyRecord, route, hash string, log *slog.Logger) {
	switch {
	case existing == nil || existing.Pending():
		handler.RespondAppError(w, handler.ErrIdempotencyInProgress, nil)
	case existing.Route != route || existing.RequestHash != hash:
		log.Warn("idempotency key reused", "original_route", existing.Route)
		handler.RespondAppError(w, handler.ErrIdempotencyConflict, nil)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Idempotent-Replayed", "true")
		w.WriteHeader(existing.StatusCode)
		if _, err := w.Write(existing.ResponseBody); err != nil {
			log.Error("failed to write idempotent replay", "error", err)
		}
	}
}

func bodyHash(body []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(body))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
