package twofactor

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps issued tokens with an expiry.
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error) // "" when absent
	Del(ctx context.Context, key string) error
}

// TokenMailer delivers a two-factor token to an email address.
type TokenMailer interface {
	SendTokenEmail(ctx context.Context, email, code string) error
}

// Service issues, resends and verifies short-lived two-factor tokens.
type Service struct {
	store  TokenStore
	mailer TokenMailer
	ttl    time.Duration
}

func NewService(store TokenStore, mailer TokenMailer, ttl time.Duration) *Service {
	return &Service{store: store, mailer: mailer, ttl: ttl}
}

// SendToken generates a fresh token for the email, stores it with a
// TTL and mails it out.
func (s *Service) SendToken(ctx context.Context, email string) error {
	code := GenerateOTP(6)
	if err := s.store.Set(ctx, tokenKey(email), code, s.ttl); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return s.mailer.SendTokenEmail(ctx, email, code)
}

// ResendToken overwrites any outstanding token with a fresh one.
func (s *Service) ResendToken(ctx context.Context, email string) error {
	return s.SendToken(ctx, email)
}

// VerifyToken checks the submitted code and consumes it on success.
func (s *Service) VerifyToken(ctx context.Context, email, code string) (bool, error) {
	stored, err := s.store.Get(ctx, tokenKey(email))
	if err != nil {
		return false, err
	}
	if stored == "" || stored != code {
		return false, nil
	}
	if err := s.store.Del(ctx, tokenKey(email)); err != nil {
		return false, err
	}
	return true, nil
}

func tokenKey(email string) string {
	return "2fa:" + email
}

// GenerateOTP generates a random numeric OTP of the given length.
func GenerateOTP(length int) string {
	if length <= 0 {
		return ""
	}
	const charset = "0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore backs a TokenStore with Redis.
func NewRedisStore(rdb *redis.Client) TokenStore {
	return &redisStore{rdb: rdb}
}

func (r *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (r *redisStore) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}
