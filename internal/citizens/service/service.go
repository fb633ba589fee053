package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"

	authmodels "portal/internal/auth/models"
	catalogmodels "portal/internal/catalog/models"
	"portal/internal/citizens/curp"
	"portal/internal/citizens/models"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
	"portal/pkg/platform/tx"
)

type Store interface {
	Create(ctx context.Context, c *models.Citizen) error
	Update(ctx context.Context, c *models.Citizen) error
	FindByID(ctx context.Context, citizenID id.CitizenID) (*models.Citizen, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.Citizen, error)
	FindByCURP(ctx context.Context, curp string) (*models.Citizen, error)
	FindByEmail(ctx context.Context, email string) (*models.Citizen, error)
	List(ctx context.Context, filter models.Filter) ([]*models.Citizen, error)
	Count(ctx context.Context) (int, error)
}

// Accounts creates the login behind a citizen profile. RemoveAccount undoes
// a registration whose profile could not be stored.
type Accounts interface {
	RegisterAccount(ctx context.Context, acct authmodels.NewAccount) (*authmodels.User, error)
	RemoveAccount(ctx context.Context, userID id.UserID) error
}

type Localities interface {
	ResidentLocality(ctx context.Context, locID id.LocalityID) (*catalogmodels.Locality, error)
}

type CURPLookup interface {
	Lookup(ctx context.Context, curp string) (*curp.Record, error)
}

type WelcomeMailer interface {
	SendWelcome(ctx context.Context, to, fullName string) error
}

// Service manages citizen profiles. Registration is anonymous; reads and
// updates are limited to the owner and administrators.
type Service struct {
	store      Store
	accounts   Accounts
	localities Localities
	lookup     CURPLookup
	mailer     WelcomeMailer
	tx         tx.Runner
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		s.tx = r
	}
}

// WithWelcomeMailer enables the registration email.
func WithWelcomeMailer(m WelcomeMailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

func New(store Store, accounts Accounts, localities Localities, lookup CURPLookup, opts ...Option) *Service {
	s := &Service{
		store:      store,
		accounts:   accounts,
		localities: localities,
		lookup:     lookup,
		tx:         tx.NoopRunner{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func notFound(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "ciudadano no encontrado")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load citizen")
}

func duplicateField(err error) error {
	switch {
	case errors.Is(err, models.ErrDuplicateCURP):
		return dErrors.Field("curp", msgDuplicateCURP)
	case errors.Is(err, models.ErrDuplicateEmail):
		return dErrors.Field("correo", msgDuplicateEmail)
	}
	return nil
}

const (
	msgDuplicateCURP  = "ya existe un ciudadano registrado con esta CURP"
	msgDuplicateEmail = "ya existe un ciudadano registrado con este correo electrónico"
	msgInvalidCURP    = "formato de CURP inválido"
	msgRequired       = "este campo es obligatorio"
)
