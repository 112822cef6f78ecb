package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store struct {
	Client *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		Client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

const verifyCodeTTL = 10 * time.Minute

func verifyKey(email string) string { return "verify_code:" + email }

func (s *Store) SetVerifyCode(ctx context.Context, email, code string) error {
	return s.Client.Set(ctx, verifyKey(email), code, verifyCodeTTL).Err()
}

// GetVerifyCode returns redis.Nil when the code expired or was never sent.
func (s *Store) GetVerifyCode(ctx context.Context, email string) (string, error) {
	return s.Client.Get(ctx, verifyKey(email)).Result()
}

func (s *Store) DeleteVerifyCode(ctx context.Context, email string) error {
	return s.Client.Del(ctx, verifyKey(email)).Err()
}

func (s *Store) Close() error {
	return s.Client.Close()
}
