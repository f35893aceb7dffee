package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"photogallery/internal/entity"
	"photogallery/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxTagsLength = 255

type CreatePhotoInput struct {
	Title       string
	Description *string
	Tags        string
	IsFavorite  bool
	Image       *Upload
}

type UpdatePhotoInput struct {
	Title       *string
	Description *string
	Tags        *string
	IsFavorite  *bool
}

type PhotoService struct {
	photos    repository.PhotoRepository
	media     MediaStore
	logger    *logrus.Logger
	maxUpload int64
}

func NewPhotoService(photos repository.PhotoRepository, media MediaStore, logger *logrus.Logger, maxUpload int64) *PhotoService {
	return &PhotoService{
		photos:    photos,
		media:     media,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

func (s *PhotoService) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Photo, error) {
	return s.photos.ListByOwner(ctx, ownerID, repository.PhotoFilter{})
}

func (s *PhotoService) Favorites(ctx context.Context, ownerID uuid.UUID) ([]entity.Photo, error) {
	return s.photos.ListByOwner(ctx, ownerID, repository.PhotoFilter{FavoritesOnly: true})
}

func (s *PhotoService) Search(ctx context.Context, ownerID uuid.UUID, query string) ([]entity.Photo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptySearchQuery
	}
	return s.photos.ListByOwner(ctx, ownerID, repository.PhotoFilter{Query: query})
}

func (s *PhotoService) Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Photo, error) {
	photo, err := s.photos.FindByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}
	return photo, nil
}

func (s *PhotoService) Create(ctx context.Context, ownerID uuid.UUID, input CreatePhotoInput) (*entity.Photo, error) {
	verr := &ValidationError{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		verr.Add("title", "This field is required.")
	} else if len([]rune(title)) > 255 {
		verr.Add("title", "Ensure this field has no more than 255 characters.")
	}
	tags := entity.JoinTags([]string{input.Tags})
	if msg := checkTags(tags); msg != "" {
		verr.Add("tags", msg)
	}
	if input.Image == nil {
		verr.Add("image", "No file was submitted.")
	} else if msg := checkImage(input.Image, s.maxUpload); msg != "" {
		verr.Add("image", msg)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	path, err := s.media.Save(ctx, "photos", input.Image.Filename, input.Image.Content)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	photo := &entity.Photo{
		OwnerID:     ownerID,
		Image:       path,
		Title:       title,
		Description: input.Description,
		Tags:        tags,
		IsFavorite:  input.IsFavorite,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		s.removeMedia(ctx, path)
		return nil, fmt.Errorf("create photo: %w", err)
	}
	return photo, nil
}

func (s *PhotoService) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdatePhotoInput) (*entity.Photo, error) {
	photo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fieldError("title", "This field may not be blank.")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Tags != nil {
		tags := entity.JoinTags([]string{*input.Tags})
		if msg := checkTags(tags); msg != "" {
			return nil, fieldError("tags", msg)
		}
		fields["tags"] = tags
	}
	if input.IsFavorite != nil {
		fields["is_favorite"] = *input.IsFavorite
	}

	if err := s.photos.UpdateFields(ctx, photo, fields); err != nil {
		return nil, fmt.Errorf("update photo: %w", err)
	}
	return s.Get(ctx, ownerID, id)
}

func (s *PhotoService) ToggleFavorite(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	photo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return false, err
	}
	favorite := !photo.IsFavorite
	if err := s.photos.UpdateFields(ctx, photo, map[string]any{"is_favorite": favorite}); err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return favorite, nil
}

func (s *PhotoService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	photo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.photos.Delete(ctx, photo); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	s.removeMedia(ctx, photo.Image)
	return nil
}

// checkTags bounds the joined tag list by the column width.
func checkTags(tags string) string {
	if utf8.RuneCountInString(tags) > maxTagsLength {
		return fmt.Sprintf("Ensure this field has no more than %d characters.", maxTagsLength)
	}
	return ""
}

func (s *PhotoService) removeMedia(ctx context.Context, path string) {
	if err := s.media.Delete(ctx, path); err != nil {
		s.log().WithError(err).WithField("path", path).Warn("media file not removed")
	}
}

func (s *PhotoService) log() *logrus.Logger {
	if s.logger == nil {
		return logrus.StandardLogger()
	}
	return s.logger
}
