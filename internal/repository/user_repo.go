package repository

import (
	"context"
	"errors"

	"photogallery/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// GetOrCreateByEmail creates the user and its profile in one transaction.
	// username is only used when the user is created.
	GetOrCreateByEmail(ctx context.Context, email, username string) (*entity.User, bool, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) GetOrCreateByEmail(ctx context.Context, email, username string) (*entity.User, bool, error) {
	var user entity.User
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Profile").Where("email = ?", email).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = entity.User{
			Email:    email,
			Username: username,
			Role:     entity.UserRoleUser,
			IsActive: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := entity.UserProfile{UserID: user.ID, Gender: entity.GenderOther}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = &profile
		created = true
		return nil
	})
	if err == nil {
		return &user, created, nil
	}

	// lost a creation race: the other transaction's user is the one to use
	existing, findErr := r.FindByEmail(ctx, email)
	if findErr == nil && existing != nil {
		return existing, false, nil
	}
	return nil, false, err
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Preload("Profile").Where("is_active = ?", true).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
