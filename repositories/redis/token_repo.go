package redis

import (
	// Go Internal Packages
	"context"
	goerrors "errors"
	"fmt"
	"time"

	// Local Packages
	errors "mpesa-b2c/errors"

	// External Packages
	"github.com/redis/go-redis/v9"
)

// TokenRepository caches gateway bearer tokens per settings name. The TTL is
// derived from the token expiry so a stale token is never handed out.
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{client: client}
}

func tokenKey(setting string) string {
	return fmt.Sprintf("daraja:token:%s", setting)
}

// Get returns the cached token for the setting, or empty when none is cached.
func (r *TokenRepository) Get(ctx context.Context, setting string) (string, error) {
	token, err := r.client.Get(ctx, tokenKey(setting)).Result()
	if err != nil {
		if goerrors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// Save caches the token until its expiry time. An expiry at or before the
// fetch time is rejected; it should always lie in the future.
func (r *TokenRepository) Save(ctx context.Context, setting, token string, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return errors.E(errors.Invalid, "access token expiry time cannot be the same as or earlier than the fetch time", nil)
	}
	return r.client.Set(ctx, tokenKey(setting), token, ttl).Err()
}
