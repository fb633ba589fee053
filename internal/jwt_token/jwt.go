package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "portal/pkg/domain-errors"
)

// TokenType separates access tokens from refresh tokens signed with the same key.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims represents the JWT claims carried by both token types. Subject is
// the user id.
type Claims struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Subject identifies who a token is issued to.
type Subject struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

// JWTService handles JWT creation and validation
type JWTService struct {
	signingKey []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTService(signingKey, issuer string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *JWTService) AccessTTL() time.Duration { return s.accessTTL }

// GenerateAccessToken signs a short-lived access token issued at now.
func (s *JWTService) GenerateAccessToken(sub Subject, now time.Time) (string, *Claims, error) {
	return s.generate(sub, TokenTypeAccess, now, s.accessTTL)
}

// GenerateRefreshToken signs a refresh token issued at now.
func (s *JWTService) GenerateRefreshToken(sub Subject, now time.Time) (string, *Claims, error) {
	return s.generate(sub, TokenTypeRefresh, now, s.refreshTTL)
}

func (s *JWTService) generate(sub Subject, typ TokenType, now time.Time, ttl time.Duration) (string, *Claims, error) {
	claims := &Claims{
		Username:  sub.Username,
		Role:      sub.Role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidateAccessToken validates signature, expiry, issuer and token type.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates signature, expiry, issuer and token type.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString string, want TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.TokenType != want {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "wrong token type")
	}
	return claims, nil
}
