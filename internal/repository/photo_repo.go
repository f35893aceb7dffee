package repository

import (
	"context"
	"errors"
	"strings"

	"photogallery/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhotoFilter struct {
	FavoritesOnly bool
	// Query matches title, description or tags case-insensitively.
	Query string
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *entity.Photo) error
	FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*entity.Photo, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter PhotoFilter) ([]entity.Photo, error)
	UpdateFields(ctx context.Context, photo *entity.Photo, fields map[string]any) error
	Delete(ctx context.Context, photo *entity.Photo) error
}

type photoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *entity.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepository) FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*entity.Photo, error) {
	var photo entity.Photo
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&photo).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &photo, err
}

func (r *photoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter PhotoFilter) ([]entity.Photo, error) {
	query := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC")
	if filter.FavoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	photos := make([]entity.Photo, 0)
	if err := query.Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) UpdateFields(ctx context.Context, photo *entity.Photo, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(photo).
		Where("owner_id = ?", photo.OwnerID).
		Updates(fields).Error
}

func (r *photoRepository) Delete(ctx context.Context, photo *entity.Photo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM album_photos WHERE photo_id = ?", photo.ID).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND owner_id = ?", photo.ID, photo.OwnerID).
			Delete(&entity.Photo{}).Error
	})
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
