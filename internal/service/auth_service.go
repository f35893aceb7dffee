package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"photogallery/internal/entity"
	"photogallery/internal/metrics"
	"photogallery/internal/repository"
	"photogallery/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const usernameAttempts = 5

var validate = validator.New()

type RequestOTPInput struct {
	Email     string
	IPAddress *string
}

type VerifyOTPInput struct {
	Email     string
	Code      string
	IPAddress *string
}

type AuthService struct {
	otps         repository.OTPRepository
	users        repository.UserRepository
	securityLogs repository.SecurityLogRepository

	sender      NotificationSender
	generator   CodeGenerator
	hasher      CodeHasher
	credentials CredentialIssuer
	clock       Clock
	logger      *logrus.Logger
	config      AuthConfig
}

func NewAuthService(
	otps repository.OTPRepository,
	users repository.UserRepository,
	securityLogs repository.SecurityLogRepository,
	sender NotificationSender,
	generator CodeGenerator,
	hasher CodeHasher,
	credentials CredentialIssuer,
	clock Clock,
	logger *logrus.Logger,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		otps:         otps,
		users:        users,
		securityLogs: securityLogs,
		sender:       sender,
		generator:    generator,
		hasher:       hasher,
		credentials:  credentials,
		clock:        clock,
		logger:       logger,
		config:       config,
	}
}

// RequestOTP issues a fresh code for the address and mails it. Any earlier
// code for the same address stops working immediately. A delivery failure
// leaves the new code stored.
func (s *AuthService) RequestOTP(ctx context.Context, input RequestOTPInput) error {
	email := utils.NormalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return err
	}

	record, err := s.otps.GetOrCreate(ctx, email)
	if err != nil {
		return fmt.Errorf("get otp record: %w", err)
	}

	code, expiresAt, err := s.generator.Generate()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}
	record.CodeHash = &hash
	record.ExpiresAt = &expiresAt
	if err := s.otps.Save(ctx, record); err != nil {
		return fmt.Errorf("save otp: %w", err)
	}

	subject := fmt.Sprintf("Your %s OTP", s.appName())
	body := fmt.Sprintf("Your One-Time Password (OTP) is: %s\nIt is valid for %d minutes.", code, s.validityMinutes())
	if err := s.sender.Send(ctx, email, subject, body); err != nil {
		s.log().WithError(err).WithField("email", email).Warn("otp delivery failed")
		metrics.OTPOutcomes.WithLabelValues(metrics.OTPDeliveryFailed).Inc()
		s.logSecurity(ctx, nil, input.IPAddress, entity.OTPDeliveryFailed, map[string]any{"email": email})
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	metrics.OTPOutcomes.WithLabelValues(metrics.OTPRequested).Inc()
	s.logSecurity(ctx, nil, input.IPAddress, entity.OTPRequested, map[string]any{"email": email})
	return nil
}

// VerifyOTP consumes a matching, unexpired code and signs the caller in,
// creating the account on first use.
func (s *AuthService) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*AuthResult, error) {
	email := utils.NormalizeEmail(input.Email)
	code := strings.TrimSpace(input.Code)
	verr := &ValidationError{}
	if err := validateEmail(email); err != nil {
		var fields *ValidationError
		if errors.As(err, &fields) {
			verr = fields
		}
	}
	if code == "" {
		verr.Add("otp", "This field is required.")
	} else if len(code) > s.codeLength() {
		verr.Add("otp", fmt.Sprintf("Ensure this field has no more than %d characters.", s.codeLength()))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	record, err := s.otps.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find otp record: %w", err)
	}
	if record == nil {
		return nil, s.rejectOTP(ctx, email, input.IPAddress, metrics.OTPNotFound, ErrInvalidEmailOrOTP)
	}
	if record.CodeHash == nil || !s.hasher.Verify(*record.CodeHash, code) {
		return nil, s.rejectOTP(ctx, email, input.IPAddress, metrics.OTPMismatched, ErrInvalidOTP)
	}
	if !record.IsValid(s.now()) {
		return nil, s.rejectOTP(ctx, email, input.IPAddress, metrics.OTPExpired, ErrOTPExpired)
	}

	consumed, err := s.otps.Consume(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("consume otp: %w", err)
	}
	if !consumed {
		return nil, s.rejectOTP(ctx, email, input.IPAddress, metrics.OTPNotFound, ErrInvalidEmailOrOTP)
	}
	metrics.OTPOutcomes.WithLabelValues(metrics.OTPConsumed).Inc()

	user, created, err := s.resolveUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrForbidden
	}

	token, err := s.credentials.IssueOrGet(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log().WithFields(logrus.Fields{"user_id": user.ID, "created": created}).Info("otp verified")
	s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, map[string]any{"created": created})
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, ipAddress *string) error {
	if err := s.credentials.Revoke(ctx, userID); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logSecurity(ctx, &userID, ipAddress, entity.Logout, nil)
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

// PurgeExpiredOTPs deletes records whose expiry is older than retention.
func (s *AuthService) PurgeExpiredOTPs(ctx context.Context, retention time.Duration) (int64, error) {
	removed, err := s.otps.PurgeExpiredBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("purge otp records: %w", err)
	}
	if removed > 0 {
		metrics.OTPPurged.Add(float64(removed))
	}
	return removed, nil
}

func (s *AuthService) resolveUser(ctx context.Context, email string) (*entity.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	username, err := s.availableUsername(ctx, utils.UsernameFromEmail(email))
	if err != nil {
		return nil, false, err
	}
	user, created, err := s.users.GetOrCreateByEmail(ctx, email, username)
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, created, nil
}

func (s *AuthService) availableUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		suffix, err := utils.GenerateRandomHex(3)
		if err != nil {
			return "", err
		}
		candidate = base + "_" + suffix
	}
	return "", fmt.Errorf("no free username for %q", base)
}

func (s *AuthService) rejectOTP(ctx context.Context, email string, ipAddress *string, outcome string, reason error) error {
	metrics.OTPOutcomes.WithLabelValues(outcome).Inc()
	s.log().WithFields(logrus.Fields{"email": email, "outcome": outcome}).Info("otp rejected")
	s.logSecurity(ctx, nil, ipAddress, entity.LoginFailed, map[string]any{"email": email, "reason": outcome})
	return reason
}

func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) {
	if s.securityLogs == nil {
		return
	}
	if err := writeSecurityLog(ctx, s.securityLogs, userID, ipAddress, action, metadata); err != nil {
		s.log().WithError(err).WithField("action", action).Warn("security log write failed")
	}
}

func (s *AuthService) codeLength() int {
	if s.config.OTPDigits <= 0 {
		return 6
	}
	return s.config.OTPDigits
}

func (s *AuthService) validityMinutes() int {
	ttl := s.config.OTPTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return int(math.Ceil(ttl.Minutes()))
}

func (s *AuthService) appName() string {
	if s.config.AppName == "" {
		return "Photo Gallery"
	}
	return s.config.AppName
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) log() *logrus.Logger {
	if s.logger == nil {
		return logrus.StandardLogger()
	}
	return s.logger
}

func validateEmail(email string) error {
	if email == "" {
		return fieldError("email", "This field is required.")
	}
	if err := validate.Var(email, "email,max=254"); err != nil {
		return fieldError("email", "Enter a valid email address.")
	}
	return nil
}

func writeSecurityLog(
	ctx context.Context,
	logs repository.SecurityLogRepository,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) error {
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}
	return logs.Log(ctx, &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	})
}
