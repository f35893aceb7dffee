package service

import (
	"context"
	"io"
	"time"

	"photogallery/internal/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	AppName   string
	OTPTTL    time.Duration
	OTPDigits int
	// TokenTTL of zero issues tokens without expiry.
	TokenTTL time.Duration
}

type NotificationSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type CodeGenerator interface {
	Generate() (code string, expiresAt time.Time, err error)
}

type CodeHasher interface {
	Hash(code string) (string, error)
	Verify(hash string, code string) bool
}

type CredentialIssuer interface {
	IssueOrGet(ctx context.Context, user *entity.User) (string, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

type MediaStore interface {
	Save(ctx context.Context, folder string, filename string, content io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// AuthResult is returned by the flows that hand a credential to the caller.
type AuthResult struct {
	User  *entity.User
	Token string
}

type BcryptCodeHasher struct {
	Cost int
}

func (h BcryptCodeHasher) Hash(code string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptCodeHasher) Verify(hash string, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
