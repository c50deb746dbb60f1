package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/metinatakli/seat-reservation/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisIdempotencyStore remembers hold receipts per user and idempotency key.
// A receipt lives no longer than the hold it describes.
type RedisIdempotencyStore struct {
	client redis.UniversalClient
}

func NewRedisIdempotencyStore(client redis.UniversalClient) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, userID int64, key string) (*domain.HoldReceipt, error) {
	payload, err := s.client.Get(ctx, holdIdempotencyKey(userID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	var receipt domain.HoldReceipt

	err = json.Unmarshal(payload, &receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hold receipt: %w", err)
	}

	return &receipt, nil
}

// Save keeps the first receipt written for a key; later writes are ignored.
func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, receipt domain.HoldReceipt, ttl time.Duration) error {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return err
	}

	return s.client.SetNX(ctx, holdIdempotencyKey(receipt.UserID, key), payload, ttl).Err()
}

func holdIdempotencyKey(userID int64, key string) string {
	return fmt.Sprintf("hold_idempotency:%d:%s", userID, key)
}
