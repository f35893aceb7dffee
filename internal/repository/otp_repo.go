package repository

import (
	"context"
	"errors"
	"time"

	"photogallery/internal/entity"

	"gorm.io/gorm"
)

type OTPRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.OneTimePassword, error)
	GetOrCreate(ctx context.Context, email string) (*entity.OneTimePassword, error)
	Save(ctx context.Context, otp *entity.OneTimePassword) error
	// Consume deletes the record only if it still carries the same code. It
	// reports false when another caller consumed or replaced it first.
	Consume(ctx context.Context, otp *entity.OneTimePassword) (bool, error)
	PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) FindByEmail(ctx context.Context, email string) (*entity.OneTimePassword, error) {
	var otp entity.OneTimePassword
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&otp).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &otp, err
}

func (r *otpRepository) GetOrCreate(ctx context.Context, email string) (*entity.OneTimePassword, error) {
	var otp entity.OneTimePassword
	err := r.db.WithContext(ctx).
		Where(entity.OneTimePassword{Email: email}).
		FirstOrCreate(&otp).Error
	if err == nil {
		return &otp, nil
	}

	// a concurrent request may have inserted the row first
	existing, findErr := r.FindByEmail(ctx, email)
	if findErr == nil && existing != nil {
		return existing, nil
	}
	return nil, err
}

func (r *otpRepository) Save(ctx context.Context, otp *entity.OneTimePassword) error {
	return r.db.WithContext(ctx).
		Model(&entity.OneTimePassword{}).
		Where("id = ?", otp.ID).
		Updates(map[string]any{
			"code_hash":  otp.CodeHash,
			"expires_at": otp.ExpiresAt,
		}).Error
}

func (r *otpRepository) Consume(ctx context.Context, otp *entity.OneTimePassword) (bool, error) {
	if otp.CodeHash == nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Where("id = ? AND code_hash = ?", otp.ID, *otp.CodeHash).
		Delete(&entity.OneTimePassword{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *otpRepository) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&entity.OneTimePassword{})
	return result.RowsAffected, result.Error
}
