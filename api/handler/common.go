package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"photogallery/api/middleware"
	"photogallery/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const unexpectedErrorMessage = "An unexpected error occurred."

// NewValidator reports struct fields by their json names.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// NewHTTPErrorHandler renders errors that reached echo. Unknown errors are
// logged and hidden behind a generic message.
func NewHTTPErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := map[string]string{"error": unexpectedErrorMessage}
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			body = map[string]string{"detail": fmt.Sprint(httpErr.Message)}
		} else {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).Error("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.WithError(err).Error("write error response")
		}
	}
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func validateStruct(validate *validator.Validate, payload any) error {
	if validate == nil {
		return nil
	}
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	verr := &service.ValidationError{}
	for _, fe := range fieldErrors {
		verr.Add(fe.Field(), validationMessage(fe))
	}
	return verr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "uuid":
		return "Must be a valid UUID."
	}
	return "Invalid value."
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

func writeDetail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"detail": message})
}

func writeServiceError(c echo.Context, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, verr.Fields)
	}

	switch {
	case errors.Is(err, service.ErrInvalidEmailOrOTP):
		return writeError(c, http.StatusBadRequest, "Invalid email or OTP.")
	case errors.Is(err, service.ErrInvalidOTP):
		return writeError(c, http.StatusBadRequest, "Invalid OTP.")
	case errors.Is(err, service.ErrOTPExpired):
		return writeError(c, http.StatusBadRequest, "OTP has expired.")
	case errors.Is(err, service.ErrDeliveryFailed):
		return writeError(c, http.StatusInternalServerError, "Failed to send OTP. Please try again later.")
	case errors.Is(err, service.ErrEmptySearchQuery):
		return writeDetail(c, http.StatusBadRequest, "Please provide a search query.")
	case errors.Is(err, service.ErrInvalidInput):
		return writeDetail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return writeDetail(c, http.StatusUnauthorized, "Invalid token.")
	case errors.Is(err, service.ErrForbidden):
		return writeDetail(c, http.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPhotoNotFound),
		errors.Is(err, service.ErrAlbumNotFound):
		return writeDetail(c, http.StatusNotFound, "Not found.")
	}
	return err
}

func writeDecodeError(c echo.Context, err error) error {
	return writeDetail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
	}
	return userID, nil
}

// pathID parses the :id parameter. Malformed ids are reported as notFound.
func pathID(c echo.Context, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

func formValue(form *multipart.Form, name string) *string {
	values, ok := form.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

// formUpload opens the named file and sniffs its content type. The returned
// closer must be called once the upload has been consumed.
func formUpload(form *multipart.Form, name string) (*service.Upload, func(), error) {
	files := form.File[name]
	if len(files) == 0 {
		return nil, func() {}, nil
	}
	header := files[0]
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		file.Close()
		return nil, nil, err
	}
	head = head[:n]

	upload := &service.Upload{
		Filename:    header.Filename,
		ContentType: http.DetectContentType(head),
		Size:        header.Size,
		Content:     io.MultiReader(bytes.NewReader(head), file),
	}
	return upload, func() { file.Close() }, nil
}

func parseBool(value *string) (*bool, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
