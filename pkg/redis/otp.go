package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"isvaryam.com/storefront/pkg/global"
)

// OTPStore keeps one-time codes with a server-side TTL:
//
//	otp:<purpose>:<email>           the code
//	otp:attempts:<purpose>:<email>  wrong guesses against that code
//	otp:verified:<purpose>:<email>  marker left by a successful verification
type OTPStore struct {
	client *redisclient.Client
}

func NewOTPStore(client *redisclient.Client) *OTPStore {
	return &OTPStore{client: client}
}

func codeKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func attemptsKey(purpose, email string) string {
	return fmt.Sprintf("otp:attempts:%s:%s", purpose, email)
}

func verifiedKey(purpose, email string) string {
	return fmt.Sprintf("otp:verified:%s:%s", purpose, email)
}

// Save replaces any previous code and resets its attempt counter.
func (s *OTPStore) Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, codeKey(purpose, email), code, ttl)
	pipe.Del(ctx, attemptsKey(purpose, email))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, purpose, email string) (string, error) {
	code, err := s.client.Get(ctx, codeKey(purpose, email)).Result()
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return "", global.NotFound("OTP not found")
		}
		return "", err
	}
	return code, nil
}

// IncrementAttempts counts a guess; the counter expires with the code.
func (s *OTPStore) IncrementAttempts(ctx context.Context, purpose, email string) (int64, error) {
	ttl, err := s.client.PTTL(ctx, codeKey(purpose, email)).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, attemptsKey(purpose, email))
	pipe.PExpire(ctx, attemptsKey(purpose, email), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count OTP attempt: %w", err)
	}
	return incr.Val(), nil
}

func (s *OTPStore) Delete(ctx context.Context, purpose, email string) error {
	return s.client.Del(ctx, codeKey(purpose, email), attemptsKey(purpose, email)).Err()
}

func (s *OTPStore) MarkVerified(ctx context.Context, purpose, email string, ttl time.Duration) error {
	return s.client.Set(ctx, verifiedKey(purpose, email), "1", ttl).Err()
}

// ConsumeVerified deletes the marker; a delete count of one means it was there.
func (s *OTPStore) ConsumeVerified(ctx context.Context, purpose, email string) (bool, error) {
	n, err := s.client.Del(ctx, verifiedKey(purpose, email)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
