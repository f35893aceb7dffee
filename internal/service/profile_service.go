package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"photogallery/internal/entity"
	"photogallery/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	maxNameLength  = 100
	maxPhoneLength = 20
)

// Upload is a file received from a client. ContentType is expected to be
// sniffed from the content rather than taken from the request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ProfileInput holds the fields a caller chose to send. Nil means the field
// is left unchanged.
type ProfileInput struct {
	Name      *string
	Phone     *string
	Gender    *string
	Avatar    *Upload
	IPAddress *string
}

type ProfileService struct {
	users        repository.UserRepository
	profiles     repository.ProfileRepository
	securityLogs repository.SecurityLogRepository
	credentials  CredentialIssuer
	media        MediaStore
	logger       *logrus.Logger
	maxUpload    int64
}

func NewProfileService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	securityLogs repository.SecurityLogRepository,
	credentials CredentialIssuer,
	media MediaStore,
	logger *logrus.Logger,
	maxUpload int64,
) *ProfileService {
	return &ProfileService{
		users:        users,
		profiles:     profiles,
		securityLogs: securityLogs,
		credentials:  credentials,
		media:        media,
		logger:       logger,
		maxUpload:    maxUpload,
	}
}

// Setup applies the supplied fields and marks the profile complete. Nothing
// is written unless every supplied field is valid.
func (s *ProfileService) Setup(ctx context.Context, userID uuid.UUID, input ProfileInput) (*AuthResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile, err := s.profiles.GetOrCreate(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	fields, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	if input.Avatar != nil {
		path, err := s.media.Save(ctx, "avatars", input.Avatar.Filename, input.Avatar.Content)
		if err != nil {
			return nil, fmt.Errorf("save avatar: %w", err)
		}
		fields["avatar"] = path
	}

	if err := s.profiles.UpdateFields(ctx, profile.ID, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if err := s.profiles.MarkComplete(ctx, profile.ID); err != nil {
		return nil, fmt.Errorf("complete profile: %w", err)
	}

	if input.Avatar != nil && profile.Avatar != nil && *profile.Avatar != "" {
		if err := s.media.Delete(ctx, *profile.Avatar); err != nil {
			s.log().WithError(err).WithField("path", *profile.Avatar).Warn("old avatar not removed")
		}
	}

	user, err = s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	token, err := s.credentials.IssueOrGet(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}

	if s.securityLogs != nil {
		if err := writeSecurityLog(ctx, s.securityLogs, &user.ID, input.IPAddress, entity.ProfileCompleted, nil); err != nil {
			s.log().WithError(err).Warn("security log write failed")
		}
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *ProfileService) validate(input ProfileInput) (map[string]any, error) {
	verr := &ValidationError{}
	fields := make(map[string]any)

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if utf8.RuneCountInString(name) > maxNameLength {
			verr.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxNameLength))
		}
		fields["name"] = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if utf8.RuneCountInString(phone) > maxPhoneLength {
			verr.Add("phone", fmt.Sprintf("Ensure this field has no more than %d characters.", maxPhoneLength))
		}
		fields["phone"] = phone
	}
	if input.Gender != nil {
		gender := entity.Gender(strings.TrimSpace(*input.Gender))
		if !gender.Valid() {
			verr.Add("gender", fmt.Sprintf("%q is not a valid choice.", *input.Gender))
		}
		fields["gender"] = gender
	}
	if input.Avatar != nil {
		if msg := checkImage(input.Avatar, s.maxUpload); msg != "" {
			verr.Add("avatar", msg)
		}
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *ProfileService) log() *logrus.Logger {
	if s.logger == nil {
		return logrus.StandardLogger()
	}
	return s.logger
}

// checkImage returns a field message when the upload is not an acceptable
// image, or "" when it is.
func checkImage(upload *Upload, maxBytes int64) string {
	if upload.Content == nil || upload.Size == 0 {
		return "The submitted file is empty."
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	}
	if maxBytes > 0 && upload.Size > maxBytes {
		return fmt.Sprintf("Ensure the file is no larger than %d MB.", maxBytes/(1024*1024))
	}
	return ""
}
