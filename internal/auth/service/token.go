package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"portal/internal/auth/models"
	"portal/internal/auth/password"
	jwttoken "portal/internal/jwt_token"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/audit"
	"portal/pkg/platform/sentinel"
	"portal/pkg/requestcontext"
)

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "credenciales inválidas")

// Login checks username and password and issues a token pair.
func (s *Service) Login(ctx context.Context, username, plain string) (*models.TokenPair, *models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLogin("invalid_credentials")
			s.audit(ctx, audit.EventLoginFailed, audit.Event{Subject: username, Reason: "invalid_credentials"})
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := password.Verify(plain, user.PasswordHash); err != nil {
		s.metrics.IncrementLogin("invalid_credentials")
		s.audit(ctx, audit.EventLoginFailed, audit.Event{UserID: user.ID, Subject: user.Username, Reason: "invalid_credentials"})
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, nil, errInvalidCredentials
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
	}
	if !user.Active {
		s.metrics.IncrementLogin("inactive")
		s.audit(ctx, audit.EventLoginFailed, audit.Event{UserID: user.ID, Subject: user.Username, Reason: "inactive"})
		return nil, nil, dErrors.New(dErrors.CodeUnauthorized, "la cuenta está desactivada")
	}

	now := requestcontext.Now(ctx)
	pair, err := s.issue(user, now)
	if err != nil {
		return nil, nil, err
	}

	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", user.ID,
			"error", err,
		)
	}

	s.metrics.IncrementLogin("success")
	s.metrics.IncrementTokensIssued("password")
	s.audit(ctx, audit.EventLoginSucceeded, audit.Event{UserID: user.ID, Subject: user.Username})
	s.logger.InfoContext(ctx, "user logged in",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", user.ID,
		"role", user.Role,
	)
	return pair, user, nil
}

// Refresh rotates a refresh token: the presented token is blacklisted and a
// new pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check token revocation")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "el token ha sido revocado")
	}

	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "usuario no encontrado")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !user.Active {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "la cuenta está desactivada")
	}

	now := requestcontext.Now(ctx)
	if err := s.blacklist.Revoke(ctx, claims.ID, remaining(claims, now)); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rotate refresh token")
	}
	pair, err := s.issue(user, now)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementTokensIssued("refresh")
	s.audit(ctx, audit.EventTokenRefreshed, audit.Event{UserID: user.ID, Subject: user.Username})
	return pair, nil
}

// Logout blacklists the refresh token and, when known, the access token id
// of the current request.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "token inválido o expirado")
	}
	caller := requestcontext.UserID(ctx)
	if !caller.IsNil() && claims.Subject != caller.String() {
		return dErrors.New(dErrors.CodeForbidden, "el token no pertenece al usuario")
	}

	now := requestcontext.Now(ctx)
	if err := s.blacklist.Revoke(ctx, claims.ID, remaining(claims, now)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke refresh token")
	}
	if accessJTI := requestcontext.TokenID(ctx); accessJTI != "" {
		if err := s.blacklist.Revoke(ctx, accessJTI, s.tokens.AccessTTL()); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke access token")
		}
	}

	userID, _ := id.ParseUserID(claims.Subject)
	s.audit(ctx, audit.EventLogout, audit.Event{UserID: userID, Subject: claims.Username})
	s.logger.InfoContext(ctx, "user logged out",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", claims.Subject,
	)
	return nil
}

func (s *Service) issue(user *models.User, now time.Time) (*models.TokenPair, error) {
	sub := jwttoken.Subject{
		UserID:   uuid.UUID(user.ID),
		Username: user.Username,
		Role:     string(user.Role),
	}
	access, _, err := s.tokens.GenerateAccessToken(sub, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate access token")
	}
	refresh, _, err := s.tokens.GenerateRefreshToken(sub, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate refresh token")
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTTL(),
	}, nil
}

// remaining is the blacklist ttl for a token: its time left, at least one
// second so an about-to-expire token is still recorded.
func remaining(claims *jwttoken.Claims, now time.Time) time.Duration {
	if claims.ExpiresAt == nil {
		return time.Second
	}
	if left := claims.ExpiresAt.Sub(now); left > time.Second {
		return left
	}
	return time.Second
}
