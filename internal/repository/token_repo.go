package repository

import (
	"context"
	"errors"

	"photogallery/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AuthToken, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.AuthToken, error)
	// GetOrCreate stores token unless its user already has one, and returns
	// the row that ends up stored.
	GetOrCreate(ctx context.Context, token *entity.AuthToken) (*entity.AuthToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AuthToken, error) {
	var token entity.AuthToken
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&token).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &token, err
}

func (r *tokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.AuthToken, error) {
	var token entity.AuthToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&token).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &token, err
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, token *entity.AuthToken) (*entity.AuthToken, error) {
	var stored entity.AuthToken
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", token.UserID).First(&stored).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(token).Error; err != nil {
			return err
		}
		stored = *token
		return nil
	})
	if err == nil {
		return &stored, nil
	}

	existing, findErr := r.FindByUserID(ctx, token.UserID)
	if findErr == nil && existing != nil {
		return existing, nil
	}
	return nil, err
}

func (r *tokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.AuthToken{}).Error
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.AuthToken{}).Error
}
