package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no refresh token is recorded for the
// account (never issued, expired, or deleted).
var ErrNotFound = errors.New("refresh token not found")

// ErrUnavailable wraps any Redis transport failure, including context
// timeouts. Callers match with errors.Is.
var ErrUnavailable = errors.New("refresh store unavailable")

// Store keeps the single active refresh token per account in Redis under
// "<prefix>:<accountID>". Writes overwrite unconditionally (last writer
// wins) and carry a TTL, so revocation beyond rotation is purely expiry.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "refresh_token"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(accountID string) string {
	return s.prefix + ":" + accountID
}

// Set records token as the account's active refresh token for ttl,
// replacing any previous entry.
func (s *Store) Set(ctx context.Context, accountID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(accountID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get returns the account's active refresh token.
func (s *Store) Get(ctx context.Context, accountID string) (string, error) {
	val, err := s.client.Get(ctx, s.key(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

// Delete removes the account's active refresh token. Deleting an absent
// entry is not an error.
func (s *Store) Delete(ctx context.Context, accountID string) error {
	if err := s.client.Del(ctx, s.key(accountID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// TTL reports the remaining lifetime of the account's entry. Diagnostics
// only; flows never branch on it.
func (s *Store) TTL(ctx context.Context, accountID string) (time.Duration, error) {
	d, err := s.client.TTL(ctx, s.key(accountID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if d < 0 {
		return 0, ErrNotFound
	}
	return d, nil
}
