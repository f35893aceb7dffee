package dto

import (
	"time"

	"photogallery/internal/entity"

	"github.com/google/uuid"
)

type AlbumRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

type AlbumPhotoRequest struct {
	PhotoID string `json:"photo_id" validate:"required,uuid"`
}

func (r AlbumPhotoRequest) ID() uuid.UUID {
	id, err := uuid.Parse(r.PhotoID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

type AlbumResponse struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	DateCreated time.Time `json:"date_created"`
	Photos      []string  `json:"photos"`
}

func AlbumResponseFromEntity(album *entity.Album) AlbumResponse {
	ids := album.PhotoIDs()
	photos := make([]string, 0, len(ids))
	for _, id := range ids {
		photos = append(photos, id.String())
	}
	return AlbumResponse{
		ID:          album.ID.String(),
		Owner:       album.OwnerID.String(),
		Name:        album.Name,
		Description: album.Description,
		DateCreated: album.DateCreated,
		Photos:      photos,
	}
}

func AlbumResponsesFromEntities(albums []entity.Album) []AlbumResponse {
	responses := make([]AlbumResponse, 0, len(albums))
	for i := range albums {
		responses = append(responses, AlbumResponseFromEntity(&albums[i]))
	}
	return responses
}
