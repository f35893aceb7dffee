package service

import (
	"context"
	"fmt"
	"time"

	"photogallery/internal/entity"
	"photogallery/internal/repository"
	"photogallery/internal/utils"

	"github.com/google/uuid"
)

// TokenService hands out one bearer token per user. The token string is
// signed from the stored row, so repeated logins return the same value
// until the row is revoked or expires.
type TokenService struct {
	tokens repository.TokenRepository
	users  repository.UserRepository
	jwt    *utils.JWTManager
	clock  Clock
	ttl    time.Duration
}

func NewTokenService(
	tokens repository.TokenRepository,
	users repository.UserRepository,
	jwt *utils.JWTManager,
	clock Clock,
	ttl time.Duration,
) *TokenService {
	return &TokenService{
		tokens: tokens,
		users:  users,
		jwt:    jwt,
		clock:  clock,
		ttl:    ttl,
	}
}

func (s *TokenService) IssueOrGet(ctx context.Context, user *entity.User) (string, error) {
	now := s.now()
	token, err := s.tokens.FindByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("find token: %w", err)
	}
	if token != nil && token.Expired(now) {
		if err := s.tokens.Delete(ctx, token.ID); err != nil {
			return "", fmt.Errorf("delete expired token: %w", err)
		}
		token = nil
	}

	if token == nil {
		issuedAt := now.Truncate(time.Second)
		candidate := &entity.AuthToken{
			UserID:   user.ID,
			IssuedAt: issuedAt,
		}
		if s.ttl > 0 {
			expiresAt := issuedAt.Add(s.ttl)
			candidate.ExpiresAt = &expiresAt
		}
		token, err = s.tokens.GetOrCreate(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("create token: %w", err)
		}
	}

	return s.jwt.SignCredential(token.ID.String(), token.UserID.String(), token.IssuedAt, token.ExpiresAt)
}

// Authenticate resolves a bearer string to its active owner. A token whose
// row was revoked no longer authenticates even though its signature holds.
func (s *TokenService) Authenticate(ctx context.Context, bearer string) (*entity.User, error) {
	claims, err := s.jwt.ParseCredential(bearer)
	if err != nil {
		return nil, ErrUnauthorized
	}
	tokenID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	stored, err := s.tokens.FindByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if stored == nil || stored.UserID != userID || stored.Expired(s.now()) {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeleteByUserID(ctx, userID)
}

func (s *TokenService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
