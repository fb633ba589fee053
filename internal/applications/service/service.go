// Package service implements the application lifecycle: submission with
// documents, status transitions, assignment to officials and the dashboards
// built over the set of applications an actor may see.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"portal/internal/applications/metrics"
	"portal/internal/applications/models"
	authmodels "portal/internal/auth/models"
	catalogmodels "portal/internal/catalog/models"
	citizenmodels "portal/internal/citizens/models"
	notificationmodels "portal/internal/notifications/models"
	"portal/internal/policy"
	"portal/internal/uploads"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
	"portal/pkg/platform/tx"
	"portal/pkg/requestcontext"
)

type Store interface {
	NextFolio(ctx context.Context) (string, error)
	Create(ctx context.Context, a *models.Application) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	Execute(ctx context.Context, appID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error)
	List(ctx context.Context, vis models.Visibility, filter models.Filter) ([]*models.Application, error)
	CountByStatus(ctx context.Context, vis models.Visibility) (models.StatusCounts, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCounts, error)
	AverageResponseDays(ctx context.Context) (float64, error)
	AppendHistory(ctx context.Context, e models.HistoryEntry) error
	ListHistory(ctx context.Context, appID id.ApplicationID) ([]models.HistoryEntry, error)
	AddDocument(ctx context.Context, d *models.Document) error
	ListDocuments(ctx context.Context, appID id.ApplicationID) ([]*models.Document, error)
	DeactivateAssignments(ctx context.Context, appID id.ApplicationID, deptID id.DepartmentID) (int, error)
	CreateAssignment(ctx context.Context, as *models.Assignment) error
	ListAssignments(ctx context.Context, appID id.ApplicationID) ([]*models.Assignment, error)
	ActiveAssignmentsFor(ctx context.Context, officialID id.OfficialID) ([]*models.Assignment, error)
}

// Catalog resolves offerings, departments and officials.
type Catalog interface {
	ResolveOffering(ctx context.Context, procID *id.ProcedureID, progID *id.ProgramID) (*catalogmodels.Offering, error)
	DepartmentOfferingIDs(ctx context.Context, deptID id.DepartmentID) ([]id.ProcedureID, []id.ProgramID, error)
	OfficialForUser(ctx context.Context, userID id.UserID) (*catalogmodels.Official, error)
	GetOfficial(ctx context.Context, officialID id.OfficialID) (*catalogmodels.Official, error)
	GetDepartment(ctx context.Context, deptID id.DepartmentID) (*catalogmodels.Department, error)
	ListDepartments(ctx context.Context, actor policy.Actor) ([]*catalogmodels.Department, error)
	CountDepartments(ctx context.Context) (int, error)
}

type Citizens interface {
	ByUser(ctx context.Context, userID id.UserID) (*citizenmodels.Citizen, error)
	ByID(ctx context.Context, citizenID id.CitizenID) (*citizenmodels.Citizen, error)
	Count(ctx context.Context) (int, error)
}

type Users interface {
	GetUser(ctx context.Context, userID id.UserID) (*authmodels.User, error)
	CountActiveByRole(ctx context.Context) (map[id.Role]int, error)
}

// Files stores uploaded documents and returns their relative path.
type Files interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Remove(ctx context.Context, rel string) error
}

// Notifier is the slice of the notification manager the lifecycle uses.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, ref notificationmodels.ApplicationRef, previous, current id.ApplicationStatus, comment string) (*notificationmodels.Notification, error)
	NotifyDepartmentNewApplication(ctx context.Context, ref notificationmodels.ApplicationRef, departmentName string) ([]*notificationmodels.Notification, error)
	NotifyOfficialAssignment(ctx context.Context, official id.UserID, ref notificationmodels.ApplicationRef) (*notificationmodels.Notification, error)
	NotifyDocumentAdded(ctx context.Context, ref notificationmodels.ApplicationRef, requirement string, officials []id.UserID) []*notificationmodels.Notification
}

type Service struct {
	store    Store
	catalog  Catalog
	citizens Citizens
	users    Users
	files    Files
	notifier Notifier
	uploads  uploads.Policy
	tx       tx.Runner
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func WithUploadPolicy(p uploads.Policy) Option {
	return func(s *Service) {
		s.uploads = p
	}
}

func New(store Store, catalog Catalog, citizens Citizens, users Users, files Files, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		catalog:  catalog,
		citizens: citizens,
		users:    users,
		files:    files,
		notifier: notifier,
		uploads:  uploads.Policy{MaxBytes: uploads.DefaultMaxBytes},
		tx:       tx.NoopRunner{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errNotVisible = dErrors.New(dErrors.CodeNotFound, "solicitud no encontrada")

func notFound(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return errNotVisible
	}
	if dErrors.CodeOf(err) != "" {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
}

func internal(err error, msg string) error {
	if dErrors.CodeOf(err) != "" {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// view is an actor's resolved visibility, with the Official profile when
// the actor has one.
type view struct {
	scope    policy.Scope
	vis      models.Visibility
	official *catalogmodels.Official
	citizen  *citizenmodels.Citizen
}

// resolve turns the actor's scope for op into a Visibility. Citizens without
// a profile and officials without an Official profile see nothing.
func (s *Service) resolve(ctx context.Context, actor policy.Actor, op policy.Operation) (view, error) {
	scope, err := policy.Authorize(actor, op)
	if err != nil {
		return view{}, err
	}
	v := view{scope: scope}
	switch scope {
	case policy.ScopeAll:
		v.vis.All = true
	case policy.ScopeOwn:
		c, err := s.citizens.ByUser(ctx, actor.UserID)
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return v, nil
		}
		if err != nil {
			return view{}, err
		}
		v.citizen = c
		v.vis.CitizenID = &c.ID
	case policy.ScopeDepartment:
		o, err := s.catalog.OfficialForUser(ctx, actor.UserID)
		if err != nil {
			return view{}, err
		}
		if o == nil {
			return v, nil
		}
		procs, progs, err := s.catalog.DepartmentOfferingIDs(ctx, o.DepartmentID)
		if err != nil {
			return view{}, err
		}
		v.official = o
		v.vis.ProcedureIDs = procs
		v.vis.ProgramIDs = progs
		v.vis.AssignedTo = &o.ID
	}
	return v, nil
}

func (s *Service) activeOfficials(ctx context.Context, appID id.ApplicationID) ([]*models.Assignment, []id.OfficialID, error) {
	list, err := s.store.ListAssignments(ctx, appID)
	if err != nil {
		return nil, nil, internal(err, "failed to list assignments")
	}
	var active []*models.Assignment
	var officials []id.OfficialID
	for _, as := range list {
		if as.Active {
			active = append(active, as)
			officials = append(officials, as.OfficialID)
		}
	}
	return active, officials, nil
}

// visible loads one application and hides it when it is outside v.
func (s *Service) visible(ctx context.Context, v view, appID id.ApplicationID) (*models.Application, error) {
	a, err := s.store.FindByID(ctx, appID)
	if err != nil {
		return nil, notFound(err)
	}
	if v.vis.All {
		return a, nil
	}
	_, officials, err := s.activeOfficials(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !v.vis.Matches(a, officials) {
		return nil, errNotVisible
	}
	return a, nil
}

// ref gathers what the notification copy needs about an application.
func (s *Service) ref(ctx context.Context, a *models.Application, offering *catalogmodels.Offering) (notificationmodels.ApplicationRef, error) {
	c, err := s.citizens.ByID(ctx, a.CitizenID)
	if err != nil {
		return notificationmodels.ApplicationRef{}, err
	}
	return notificationmodels.ApplicationRef{
		ID:            a.ID,
		Folio:         a.Folio,
		ServiceName:   offering.Name,
		ServiceKind:   string(offering.Kind),
		DepartmentID:  offering.DepartmentID,
		CitizenUserID: c.UserID,
		CitizenName:   c.FullName(),
	}, nil
}

func (s *Service) offering(ctx context.Context, a *models.Application) (*catalogmodels.Offering, error) {
	o, err := s.catalog.ResolveOffering(ctx, a.ProcedureID, a.ProgramID)
	if err != nil {
		return nil, internal(err, "failed to resolve offering")
	}
	return o, nil
}

// warn logs a side effect that failed after the main write committed.
func (s *Service) warn(ctx context.Context, msg string, a *models.Application, err error) {
	s.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"application_id", a.ID,
		"folio", a.Folio,
		"error", err,
	)
}
