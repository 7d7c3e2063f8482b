package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is the token revocation set. Logout adds a token's jti;
// the JWT middleware checks membership on every request. The store must be
// immediately consistent: a revoked token is rejected on the very next
// request, before natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RevocationRepo keeps the revocation set in Redis so revocation survives
// restarts and is shared across replicas. Entries expire with the token
// itself, which doubles as garbage collection.
type RevocationRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewRevocationRepo(rdb *redis.Client) *RevocationRepo {
	return &RevocationRepo{rdb: rdb, prefix: "revoked:"}
}

// Revoke marks a token id as revoked until its natural expiry. Calling it
// again for the same jti is a harmless overwrite, so logout is idempotent.
func (r *RevocationRepo) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; nothing to record.
		return nil
	}
	return r.rdb.Set(ctx, r.prefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token id is in the revocation set. Errors
// are returned to the caller, which fails closed (rejects the request)
// rather than accepting a possibly revoked token.
func (r *RevocationRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
