package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// IdempotencyRecord holds one Idempotency-Key claim for a caller. StatusCode
// stays 0 while the original request is still being processed.
type IdempotencyRecord struct {
	Key          string
	UserID       int64
	Route        string
	RequestHash  string
	StatusCode   int
	ResponseBody []byte
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

func (r *IdempotencyRecord) Pending() bool { return r.StatusCode == 0 }

type IdempotencyRepository struct {
	db *sql.DB
}

func NewIdempotencyRepository(db *sql.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

// Reserve claims rec.Key for rec.UserID before the write runs, so a retried
// payment cannot execute twice concurrently. An expired claim is taken over.
// When a live claim already exists it is returned with reserved == false; the
// returned record is nil if that claim was released in the meantime.
func (r *IdempotencyRepository) Reserve(ctx context.Context, rec *IdempotencyRecord) (*IdempotencyRecord, bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO idempotency_cache (idempotency_key, user_id, route, request_hash, status_code, created_at, expires_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6)
		ON CONFLICT (idempotency_key, user_id) DO UPDATE SET
			route = EXCLUDED.route,
			request_hash = EXCLUDED.request_hash,
			status_code = 0,
			response_body = NULL,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		WHERE idempotency_cache.expires_at <= now()`,
		rec.Key, rec.UserID, rec.Route, rec.RequestHash, rec.CreatedAt, rec.ExpiresAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("Reserve: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("Reserve: rows affected: %w", err)
	}
	if n == 1 {
		return nil, true, nil
	}

	existing, err := r.get(ctx, rec.Key, rec.UserID)
	if err != nil {
		return nil, false, fmt.Errorf("Reserve: %w", err)
	}
	return existing, false, nil
}

// Complete stores the response for replay.
func (r *IdempotencyRepository) Complete(ctx context.Context, key string, userID int64, status int, body []byte) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE idempotency_cache SET status_code = $1, response_body = $2
		WHERE idempotency_key = $3 AND user_id = $4`,
		status, body, key, userID,
	)
	if err != nil {
		return fmt.Errorf("Complete: %w", err)
	}
	return nil
}

// Release drops a claim whose request failed server-side so the client can retry.
func (r *IdempotencyRepository) Release(ctx context.Context, key string, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM idempotency_cache WHERE idempotency_key = $1 AND user_id = $2`,
		key, userID,
	)
	if err != nil {
		return fmt.Errorf("Release: %w", err)
	}
	return nil
}

func (r *IdempotencyRepository) CleanExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM idempotency_cache WHERE expires_at < now()`,
	)
	if err != nil {
		return 0, fmt.Errorf("CleanExpired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("CleanExpired: rows affected: %w", err)
	}
	return n, nil
}

func (r *IdempotencyRepository) get(ctx context.Context, key string, userID int64) (*IdempotencyRecord, error) {
	var (
		rec  IdempotencyRecord
		body []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT idempotency_key, user_id, route, request_hash, status_code, response_body, created_at, expires_at
		FROM idempotency_cache
		WHERE idempotency_key = $1 AND user_id = $2 AND expires_at > now()`,
		key, userID,
	).Scan(&rec.Key, &rec.UserID, &rec.Route, &rec.RequestHash, &rec.StatusCode, &body, &rec.CreatedAt, &rec.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.ResponseBody = body
	return &rec, nil
}
