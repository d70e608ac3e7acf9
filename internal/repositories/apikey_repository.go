package repositories

import (
	"context"
	"database/sql"
	"errors"

	"helpdesk/internal/domain"
)

type APIKey struct {
	ID     int64
	Key    string
	Active bool
}

type APIKeyRepository struct {
	DB *sql.DB
}

// Lookup resolves a caller-supplied key against the API key table. A missing
// key surfaces as NotFound so the middleware can distinguish "unknown key"
// from storage failure.
func (r APIKeyRepository) Lookup(ctx context.Context, key string) (APIKey, error) {
	var k APIKey
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, apikey, isactive FROM ost_api_key WHERE apikey = ?", key).
		Scan(&k.ID, &k.Key, &k.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return APIKey{}, domain.NotFoundError{Resource: "api key"}
	}
	if err != nil {
		return APIKey{}, domain.InternalError{Msg: "lookup api key", Err: err}
	}
	return k, nil
}
