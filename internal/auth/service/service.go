package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"portal/internal/auth/metrics"
	"portal/internal/auth/models"
	jwttoken "portal/internal/jwt_token"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/audit"
	"portal/pkg/platform/sentinel"
	"portal/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID id.UserID) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	CountByRole(ctx context.Context) (map[id.Role]int, error)
}

// Blacklist records revoked token ids until the token would have expired.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Auditor records security events. Failures are logged, never returned to
// the caller.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

type TokenIssuer interface {
	GenerateAccessToken(sub jwttoken.Subject, now time.Time) (string, *jwttoken.Claims, error)
	GenerateRefreshToken(sub jwttoken.Subject, now time.Time) (string, *jwttoken.Claims, error)
	ValidateRefreshToken(token string) (*jwttoken.Claims, error)
	AccessTTL() time.Duration
}

// Service owns accounts and the token lifecycle: login, refresh rotation and
// logout through the blacklist.
type Service struct {
	users     UserStore
	blacklist Blacklist
	tokens    TokenIssuer
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditor   Auditor
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func New(users UserStore, blacklist Blacklist, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUser loads an account by id.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "usuario no encontrado")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, userID id.UserID) (*models.User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return s.GetUser(ctx, userID)
}

// IsRevoked implements the auth middleware revocation check.
func (s *Service) IsRevoked(ctx context.Context, jti string) (bool, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRevocationCheck(time.Since(start))
	}()
	return s.blacklist.IsRevoked(ctx, jti)
}

func (s *Service) audit(ctx context.Context, action audit.AuditEvent, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Action = string(action)
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}
