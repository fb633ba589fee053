package jwttoken

import (
	authmw "portal/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
		JTI:      claims.ID,
	}
}

// JWTServiceAdapter exposes JWTService as the auth middleware validator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateAccessToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
