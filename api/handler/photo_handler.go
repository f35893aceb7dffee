package handler

import (
	"net/http"

	"photogallery/internal/dto"
	"photogallery/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PhotoHandler struct {
	Service  *service.PhotoService
	Validate *validator.Validate
	MediaURL dto.URLFunc
}

func NewPhotoHandler(svc *service.PhotoService, validate *validator.Validate, mediaURL dto.URLFunc) *PhotoHandler {
	return &PhotoHandler{Service: svc, Validate: validate, MediaURL: mediaURL}
}

func (h *PhotoHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	photos, err := h.Service.List(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PhotoResponsesFromEntities(photos, h.MediaURL))
}

func (h *PhotoHandler) Favorites(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	photos, err := h.Service.Favorites(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PhotoResponsesFromEntities(photos, h.MediaURL))
}

func (h *PhotoHandler) Search(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	photos, err := h.Service.Search(c.Request().Context(), userID, c.QueryParam("q"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PhotoResponsesFromEntities(photos, h.MediaURL))
}

func (h *PhotoHandler) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, service.ErrPhotoNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	photo, err := h.Service.Get(c.Request().Context(), userID, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PhotoResponseFromEntity(photo, h.MediaURL))
}

func (h *PhotoHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if !isMultipart(c) {
		return writeServiceError(c, &service.ValidationError{Fields: map[string][]string{
			"image": {"No file was submitted."},
		}})
	}
	form, err := c.MultipartForm()
	if err != nil {
		return writeDetail(c, http.StatusBadRequest, "Multipart form parse error.")
	}

	input := service.CreatePhotoInput{Description: formValue(form, "description")}
	if title := formValue(form, "title"); title != nil {
		input.Title = *title
	}
	if tags := formValue(form, "tags"); tags != nil {
		input.Tags = *tags
	}
	favorite, err := parseBool(formValue(form, "is_favorite"))
	if err != nil {
		return writeServiceError(c, &service.ValidationError{Fields: map[string][]string{
			"is_favorite": {"Must be a valid boolean."},
		}})
	}
	if favorite != nil {
		input.IsFavorite = *favorite
	}

	image, closeImage, err := formUpload(form, "image")
	if err != nil {
		return err
	}
	defer closeImage()
	input.Image = image

	photo, err := h.Service.Create(c.Request().Context(), userID, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.PhotoResponseFromEntity(photo, h.MediaURL))
}

func (h *PhotoHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, service.ErrPhotoNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	var req dto.UpdatePhotoRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c, err)
	}
	if err := validateStruct(h.Validate, req); err != nil {
		return writeServiceError(c, err)
	}

	input := service.UpdatePhotoInput{
		Title:       req.Title,
		Description: req.Description,
		IsFavorite:  req.IsFavorite,
	}
	if req.Tags != nil {
		input.Tags = &req.Tags.Value
	}
	photo, err := h.Service.Update(c.Request().Context(), userID, id, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PhotoResponseFromEntity(photo, h.MediaURL))
}

func (h *PhotoHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, service.ErrPhotoNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	if err := h.Service.Delete(c.Request().Context(), userID, id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PhotoHandler) ToggleFavorite(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, service.ErrPhotoNotFound)
	if err != nil {
		return writeServiceError(c, err)
	}
	favorite, err := h.Service.ToggleFavorite(c.Request().Context(), userID, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.FavoriteResponse{IsFavorite: favorite})
}
