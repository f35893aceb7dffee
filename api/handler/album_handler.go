package handler

import (
	"context"
	"errors"
	"net/http"

	"photogallery/internal/dto"
	"photogallery/internal/entity"
	"photogallery/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AlbumHandler struct {
	Service  *service.AlbumService
	Validate *validator.Validate
}

func NewAlbumHandler(svc *service.AlbumService, validate *validator.Validate) *AlbumHandler {
	return &AlbumHandler{Service: svc, Validate: validate}
}

func (h *AlbumHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	albums, err := h.Service.List(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AlbumResponsesFromEntities(albums))
}

func (h *AlbumHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, service.ErrAlbumNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	album, err := h.Service.Get(c.Request().Context(), userID, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AlbumResponseFromEntity(album))
}

func (h *AlbumHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.AlbumRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c, err)
	}
	if err := validateStruct(h.Validate, req); err != nil {
		return writeServiceError(c, err)
	}
	album, err := h.Service.Create(c.Request().Context(), userID, service.AlbumInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.AlbumResponseFromEntity(album))
}

func (h *AlbumHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, service.ErrAlbumNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	var req dto.AlbumRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c, err)
	}
	if err := validateStruct(h.Validate, req); err != nil {
		return writeServiceError(c, err)
	}
	album, err := h.Service.Update(c.Request().Context(), userID, id, service.AlbumInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AlbumResponseFromEntity(album))
}

func (h *AlbumHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, service.ErrAlbumNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	if err := h.Service.Delete(c.Request().Context(), userID, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AlbumHandler) AddPhoto(c echo.Context) error {
	return h.changePhotos(c, h.Service.AddPhoto, "Photo added to album")
}

func (h *AlbumHandler) RemovePhoto(c echo.Context) error {
	return h.changePhotos(c, h.Service.RemovePhoto, "Photo removed from album")
}

type albumPhotoChange func(ctx context.Context, ownerID, albumID, photoID uuid.UUID) (*entity.Album, error)

func (h *AlbumHandler) changePhotos(c echo.Context, change albumPhotoChange, message string) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	albumID, err := pathID(c, service.ErrAlbumNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	var req dto.AlbumPhotoRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c, err)
	}
	if err := validateStruct(h.Validate, req); err != nil {
		return writeServiceError(c, err)
	}

	if _, err := change(c.Request().Context(), userID, albumID, req.ID()); err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			return writeDetail(c, http.StatusNotFound, "Photo not found or does not belong to user")
		}
		return writeServiceError(c, err)
	}
	return writeDetail(c, http.StatusOK, message)
}
