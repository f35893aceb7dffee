package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"photogallery/internal/entity"
)

// TagsField accepts either a comma separated string or a list of strings.
type TagsField struct {
	Value string
}

func (t *TagsField) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		t.Value = raw
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return errors.New("tags must be a string or a list of strings")
	}
	t.Value = strings.Join(list, ",")
	return nil
}

type UpdatePhotoRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description"`
	Tags        *TagsField `json:"tags"`
	IsFavorite  *bool      `json:"is_favorite"`
}

type PhotoResponse struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Image       string    `json:"image"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Tags        []string  `json:"tags"`
	IsFavorite  bool      `json:"is_favorite"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type FavoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

func PhotoResponseFromEntity(photo *entity.Photo, mediaURL URLFunc) PhotoResponse {
	return PhotoResponse{
		ID:          photo.ID.String(),
		Owner:       photo.OwnerID.String(),
		Image:       resolveURL(mediaURL, photo.Image),
		Title:       photo.Title,
		Description: photo.Description,
		Tags:        photo.TagList(),
		IsFavorite:  photo.IsFavorite,
		UploadedAt:  photo.UploadedAt,
	}
}

func PhotoResponsesFromEntities(photos []entity.Photo, mediaURL URLFunc) []PhotoResponse {
	responses := make([]PhotoResponse, 0, len(photos))
	for i := range photos {
		responses = append(responses, PhotoResponseFromEntity(&photos[i], mediaURL))
	}
	return responses
}
