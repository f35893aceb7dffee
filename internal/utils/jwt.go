package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const credentialType = "access"

type JWTManager struct {
	Secret []byte
	Issuer string
	// Now overrides the clock used for expiry checks.
	Now func() time.Time
}

type CredentialClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// SignCredential builds the bearer string for a stored token. The claims
// depend only on the arguments, so the same token row always signs to the
// same string.
func (m JWTManager) SignCredential(tokenID, userID string, issuedAt time.Time, expiresAt *time.Time) (string, error) {
	claims := CredentialClaims{
		Type: credentialType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tokenID,
			Issuer:   m.Issuer,
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.Secret)
}

func (m JWTManager) ParseCredential(tokenString string) (*CredentialClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.Issuer))
	}
	if m.Now != nil {
		options = append(options, jwt.WithTimeFunc(m.Now))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &CredentialClaims{}, func(token *jwt.Token) (any, error) {
		return m.Secret, nil
	}, options...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*CredentialClaims)
	if !ok || !parsed.Valid || claims.Type != credentialType || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
