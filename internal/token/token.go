package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("unexpected token type")
)

// Config holds the signing secret and lifetimes. It is passed in at
// construction; the issuer never reads ambient configuration.
type Config struct {
	Secret       string
	AccessExpiry time.Duration
}

type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// AuthTokens is the issuance payload returned to clients.
type AuthTokens struct {
	Access TokenWithExpiry `json:"access"`
}

type TokenWithExpiry struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Generate signs a token for the subject with the given type and expiry.
func (s *Service) Generate(subject, tokenType string, expires time.Time) (string, error) {
	claims := Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// GenerateAuthTokens issues the access token for a user identity.
func (s *Service) GenerateAuthTokens(subject string) (*AuthTokens, error) {
	expires := time.Now().Add(s.cfg.AccessExpiry)
	access, err := s.Generate(subject, TypeAccess, expires)
	if err != nil {
		return nil, err
	}

	return &AuthTokens{
		Access: TokenWithExpiry{Token: access, Expires: expires},
	}, nil
}

// Verify parses the token, checks the signature and expiry, and enforces
// the expected token type. Returns the subject on success.
func (s *Service) Verify(tokenString, expectedType string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Type != expectedType {
		return "", ErrWrongType
	}
	return claims.Subject, nil
}
