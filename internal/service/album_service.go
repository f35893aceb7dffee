package service

import (
	"context"
	"fmt"
	"strings"

	"photogallery/internal/entity"
	"photogallery/internal/repository"

	"github.com/google/uuid"
)

type AlbumInput struct {
	Name        *string
	Description *string
}

type AlbumService struct {
	albums repository.AlbumRepository
	photos repository.PhotoRepository
}

func NewAlbumService(albums repository.AlbumRepository, photos repository.PhotoRepository) *AlbumService {
	return &AlbumService{albums: albums, photos: photos}
}

func (s *AlbumService) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Album, error) {
	return s.albums.ListByOwner(ctx, ownerID)
}

func (s *AlbumService) Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Album, error) {
	album, err := s.albums.FindByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, ErrAlbumNotFound
	}
	return album, nil
}

func (s *AlbumService) Create(ctx context.Context, ownerID uuid.UUID, input AlbumInput) (*entity.Album, error) {
	name := ""
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	if err := validateAlbumName(name); err != nil {
		return nil, err
	}

	album := &entity.Album{
		OwnerID:     ownerID,
		Name:        name,
		Description: input.Description,
	}
	if err := s.albums.Create(ctx, album); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	return album, nil
}

func (s *AlbumService) Update(ctx context.Context, ownerID, id uuid.UUID, input AlbumInput) (*entity.Album, error) {
	album, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validateAlbumName(name); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if err := s.albums.UpdateFields(ctx, album, fields); err != nil {
		return nil, fmt.Errorf("update album: %w", err)
	}
	return s.Get(ctx, ownerID, id)
}

func (s *AlbumService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	album, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.albums.Delete(ctx, album); err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	return nil
}

func (s *AlbumService) AddPhoto(ctx context.Context, ownerID, albumID, photoID uuid.UUID) (*entity.Album, error) {
	album, photo, err := s.albumAndPhoto(ctx, ownerID, albumID, photoID)
	if err != nil {
		return nil, err
	}
	if err := s.albums.AddPhoto(ctx, album, photo); err != nil {
		return nil, fmt.Errorf("add photo: %w", err)
	}
	return s.Get(ctx, ownerID, albumID)
}

func (s *AlbumService) RemovePhoto(ctx context.Context, ownerID, albumID, photoID uuid.UUID) (*entity.Album, error) {
	album, photo, err := s.albumAndPhoto(ctx, ownerID, albumID, photoID)
	if err != nil {
		return nil, err
	}
	if err := s.albums.RemovePhoto(ctx, album, photo); err != nil {
		return nil, fmt.Errorf("remove photo: %w", err)
	}
	return s.Get(ctx, ownerID, albumID)
}

func (s *AlbumService) albumAndPhoto(ctx context.Context, ownerID, albumID, photoID uuid.UUID) (*entity.Album, *entity.Photo, error) {
	if photoID == uuid.Nil {
		return nil, nil, fieldError("photo_id", "This field is required.")
	}
	album, err := s.Get(ctx, ownerID, albumID)
	if err != nil {
		return nil, nil, err
	}
	photo, err := s.photos.FindByOwner(ctx, ownerID, photoID)
	if err != nil {
		return nil, nil, err
	}
	if photo == nil {
		return nil, nil, ErrPhotoNotFound
	}
	return album, photo, nil
}

func validateAlbumName(name string) error {
	if name == "" {
		return fieldError("name", "This field is required.")
	}
	if len([]rune(name)) > 255 {
		return fieldError("name", "Ensure this field has no more than 255 characters.")
	}
	return nil
}
