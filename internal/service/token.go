package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature, structure, or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and verifies signed, time-limited tokens. Verification is
// stateless: validity is purely a function of the signature and expiry, nothing
// is stored server-side.
type TokenService interface {
	IssueAccessToken(subject string) (string, error)
	IssueRefreshToken(subject string) (string, error)
	Validate(tokenString string) bool
	Subject(tokenString string) (string, error)
}

type tokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService signing with the shared HS256 secret.
// Access and refresh tokens share structure and secret; the TTL is the only
// difference between the two kinds.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) TokenService {
	return &tokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *tokenService) IssueAccessToken(subject string) (string, error) {
	return s.issue(subject, s.accessTTL)
}

func (s *tokenService) IssueRefreshToken(subject string) (string, error) {
	return s.issue(subject, s.refreshTTL)
}

func (s *tokenService) issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate fails closed: a bad signature, wrong algorithm, malformed token, or
// an expiry in the past all come back as a plain false.
func (s *tokenService) Validate(tokenString string) bool {
	_, err := s.parse(tokenString)
	return err == nil
}

// Subject returns the subject of a valid token. Callers must treat an error the
// same as a failed Validate.
func (s *tokenService) Subject(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *tokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
