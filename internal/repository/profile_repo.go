package repository

import (
	"context"
	"errors"

	"photogallery/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
	UpdateFields(ctx context.Context, profileID uuid.UUID, fields map[string]any) error
	MarkComplete(ctx context.Context, profileID uuid.UUID) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &profile, err
}

func (r *profileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	var profile entity.UserProfile
	err := r.db.WithContext(ctx).
		Where(entity.UserProfile{UserID: userID}).
		Attrs(entity.UserProfile{Gender: entity.GenderOther}).
		FirstOrCreate(&profile).Error
	if err == nil {
		return &profile, nil
	}
	existing, findErr := r.FindByUserID(ctx, userID)
	if findErr == nil && existing != nil {
		return existing, nil
	}
	return nil, err
}

func (r *profileRepository) UpdateFields(ctx context.Context, profileID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entity.UserProfile{}).
		Where("id = ?", profileID).
		Updates(fields).Error
}

func (r *profileRepository) MarkComplete(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.UserProfile{}).
		Where("id = ?", profileID).
		Update("is_profile_complete", true).Error
}
