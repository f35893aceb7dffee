package handler

import (
	"net/http"
	"strings"

	"photogallery/internal/dto"
	"photogallery/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service  *service.AuthService
	Profiles *service.ProfileService
	Validate *validator.Validate
	MediaURL dto.URLFunc
}

func NewAuthHandler(svc *service.AuthService, profiles *service.ProfileService, validate *validator.Validate, mediaURL dto.URLFunc) *AuthHandler {
	return &AuthHandler{
		Service:  svc,
		Profiles: profiles,
		Validate: validate,
		MediaURL: mediaURL,
	}
}

func (h *AuthHandler) RequestOTP(c echo.Context) error {
	var req dto.RequestOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c, err)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(h.Validate, req); err != nil {
		return writeServiceError(c, err)
	}
	input := service.RequestOTPInput{Email: req.Email, IPAddress: stringPtr(c.RealIP())}
	if err := h.Service.RequestOTP(c.Request().Context(), input); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "OTP sent successfully to your email."})
}

func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req dto.VerifyOTPRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeDecodeError(c, err)
	}
	req.Email = strings.TrimSpace(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validateStruct(h.Validate, req); err != nil {
		return writeServiceError(c, err)
	}
	input := service.VerifyOTPInput{Email: req.Email, Code: req.OTP, IPAddress: stringPtr(c.RealIP())}
	result, err := h.Service.VerifyOTP(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, h.authResponse("OTP verified successfully.", result))
}

// SetupProfile accepts JSON or multipart form data. Only multipart requests
// can carry an avatar.
func (h *AuthHandler) SetupProfile(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	input := service.ProfileInput{IPAddress: stringPtr(c.RealIP())}
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return writeDetail(c, http.StatusBadRequest, "Multipart form parse error.")
		}
		input.Name = formValue(form, "name")
		input.Phone = formValue(form, "phone")
		input.Gender = formValue(form, "gender")
		avatar, closeAvatar, err := formUpload(form, "avatar")
		if err != nil {
			return err
		}
		defer closeAvatar()
		input.Avatar = avatar
	} else {
		var req dto.SetupProfileRequest
		if err := decodeJSON(c, &req); err != nil {
			return writeDecodeError(c, err)
		}
		input.Name = req.Name
		input.Phone = req.Phone
		input.Gender = req.Gender
	}

	result, err := h.Profiles.Setup(c.Request().Context(), userID, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, h.authResponse("Profile updated successfully.", result))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.Service.Logout(c.Request().Context(), userID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.Service.GetCurrentUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user, h.MediaURL))
}

func (h *AuthHandler) AdminListUsers(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	users, err := h.Service.ListUsers(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponsesFromEntities(users, h.MediaURL))
}

func (h *AuthHandler) authResponse(message string, result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Message: message,
		User:    dto.UserResponseFromEntity(result.User, h.MediaURL),
		Token:   result.Token,
	}
}
