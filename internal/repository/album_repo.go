package repository

import (
	"context"
	"errors"

	"photogallery/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlbumRepository interface {
	Create(ctx context.Context, album *entity.Album) error
	FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*entity.Album, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Album, error)
	UpdateFields(ctx context.Context, album *entity.Album, fields map[string]any) error
	Delete(ctx context.Context, album *entity.Album) error
	AddPhoto(ctx context.Context, album *entity.Album, photo *entity.Photo) error
	RemovePhoto(ctx context.Context, album *entity.Album, photo *entity.Photo) error
}

type albumRepository struct {
	db *gorm.DB
}

func NewAlbumRepository(db *gorm.DB) AlbumRepository {
	return &albumRepository{db: db}
}

func preloadAlbumPhotos(db *gorm.DB) *gorm.DB {
	return db.Order("photos.uploaded_at DESC")
}

func (r *albumRepository) Create(ctx context.Context, album *entity.Album) error {
	return r.db.WithContext(ctx).Omit("Photos").Create(album).Error
}

func (r *albumRepository) FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*entity.Album, error) {
	var album entity.Album
	err := r.db.WithContext(ctx).
		Preload("Photos", preloadAlbumPhotos).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&album).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &album, err
}

func (r *albumRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Album, error) {
	albums := make([]entity.Album, 0)
	err := r.db.WithContext(ctx).
		Preload("Photos", preloadAlbumPhotos).
		Where("owner_id = ?", ownerID).
		Order("date_created DESC").
		Find(&albums).Error
	if err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *albumRepository) UpdateFields(ctx context.Context, album *entity.Album, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(album).
		Omit("Photos").
		Where("owner_id = ?", album.OwnerID).
		Updates(fields).Error
}

func (r *albumRepository) Delete(ctx context.Context, album *entity.Album) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(album).Association("Photos").Clear(); err != nil {
			return err
		}
		return tx.Where("id = ? AND owner_id = ?", album.ID, album.OwnerID).
			Delete(&entity.Album{}).Error
	})
}

func (r *albumRepository) AddPhoto(ctx context.Context, album *entity.Album, photo *entity.Photo) error {
	return r.db.WithContext(ctx).Model(album).Association("Photos").Append(photo)
}

func (r *albumRepository) RemovePhoto(ctx context.Context, album *entity.Album, photo *entity.Photo) error {
	return r.db.WithContext(ctx).Model(album).Association("Photos").Delete(photo)
}
