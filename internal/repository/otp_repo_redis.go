package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"photogallery/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:"

var consumeOTPScript = redis.NewScript(`
local value = redis.call("GET", KEYS[1])
if not value then
	return 0
end
local record = cjson.decode(value)
if record["id"] == ARGV[1] and record["code_hash"] == ARGV[2] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisOTPRepository struct {
	client    redis.UniversalClient
	retention time.Duration
	now       func() time.Time
}

// NewRedisOTPRepository keeps one JSON record per email. A non-zero
// retention lets Redis drop records once they are that far past expiry.
func NewRedisOTPRepository(client redis.UniversalClient, retention time.Duration) OTPRepository {
	return &redisOTPRepository{client: client, retention: retention, now: time.Now}
}

func (r *redisOTPRepository) FindByEmail(ctx context.Context, email string) (*entity.OneTimePassword, error) {
	raw, err := r.client.Get(ctx, otpKeyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var otp entity.OneTimePassword
	if err := json.Unmarshal(raw, &otp); err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *redisOTPRepository) GetOrCreate(ctx context.Context, email string) (*entity.OneTimePassword, error) {
	fresh := &entity.OneTimePassword{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: r.now(),
	}
	data, err := json.Marshal(fresh)
	if err != nil {
		return nil, err
	}
	created, err := r.client.SetNX(ctx, otpKeyPrefix+email, data, r.keyTTL(fresh)).Result()
	if err != nil {
		return nil, err
	}
	if created {
		return fresh, nil
	}
	existing, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// dropped between SETNX and GET; the next Save recreates it
		return fresh, nil
	}
	return existing, nil
}

func (r *redisOTPRepository) Save(ctx context.Context, otp *entity.OneTimePassword) error {
	data, err := json.Marshal(otp)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, otpKeyPrefix+otp.Email, data, r.keyTTL(otp)).Err()
}

// keyTTL keeps a record for retention past its expiry. Zero means no TTL.
func (r *redisOTPRepository) keyTTL(otp *entity.OneTimePassword) time.Duration {
	if r.retention <= 0 {
		return 0
	}
	ttl := r.retention
	if otp.ExpiresAt != nil {
		if remaining := otp.ExpiresAt.Sub(r.now()); remaining > 0 {
			ttl += remaining
		}
	}
	return ttl
}

func (r *redisOTPRepository) Consume(ctx context.Context, otp *entity.OneTimePassword) (bool, error) {
	if otp.CodeHash == nil {
		return false, nil
	}
	deleted, err := consumeOTPScript.Run(ctx, r.client, []string{otpKeyPrefix + otp.Email}, otp.ID.String(), *otp.CodeHash).Int64()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// PurgeExpiredBefore is a no-op: Redis expires keys on its own.
func (r *redisOTPRepository) PurgeExpiredBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
