package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authmodels "portal/internal/auth/models"
	catalogmodels "portal/internal/catalog/models"
	"portal/internal/notifications/mailer"
	"portal/internal/notifications/metrics"
	"portal/internal/notifications/models"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
	pstrings "portal/pkg/platform/strings"
	"portal/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	MarkEmailSent(ctx context.Context, notifID id.NotificationID) error
	ListByUser(ctx context.Context, userID id.UserID, filter models.Filter) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID id.UserID) (int, error)
	MarkRead(ctx context.Context, userID id.UserID, notifID id.NotificationID, at time.Time) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID id.UserID, at time.Time) (int, error)
}

// Users resolves the recipient's role, which decides email delivery.
type Users interface {
	GetUser(ctx context.Context, userID id.UserID) (*authmodels.User, error)
}

// RecipientResolver returns the decrypted email of a citizen account.
type RecipientResolver interface {
	EmailForUser(ctx context.Context, userID id.UserID) (string, error)
}

// Staff lists the Official profiles of a department.
type Staff interface {
	DepartmentStaff(ctx context.Context, deptID id.DepartmentID) ([]*catalogmodels.Official, error)
}

// Manager persists notifications and delivers the citizen ones by email.
// In-app delivery never depends on email: the row is stored first and every
// email failure is logged and swallowed.
type Manager struct {
	store      Store
	users      Users
	recipients RecipientResolver
	staff      Staff
	sender     mailer.Sender
	renderer   *mailer.Renderer
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

func New(store Store, users Users, recipients RecipientResolver, staff Staff, sender mailer.Sender, renderer *mailer.Renderer, opts ...Option) *Manager {
	m := &Manager{
		store:      store,
		users:      users,
		recipients: recipients,
		staff:      staff,
		sender:     sender,
		renderer:   renderer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create stores a notification for in.UserID. Email is required iff the
// recipient is a citizen and SuppressEmail is unset.
func (m *Manager) Create(ctx context.Context, in models.Input) (*models.Notification, error) {
	user, err := m.users.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	n := &models.Notification{
		ID:            id.NotificationID(uuid.New()),
		UserID:        in.UserID,
		Type:          in.Type,
		Title:         in.Title,
		Message:       in.Message,
		ApplicationID: in.ApplicationID,
		Metadata:      in.Metadata,
		EmailRequired: user.Role == id.RoleCitizen && !in.SuppressEmail,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := m.store.Create(ctx, n); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store notification")
	}
	m.metrics.IncrementCreated(string(n.Type))

	if n.EmailRequired {
		if m.deliver(ctx, n) {
			n.EmailSent = true
		}
	}
	return n, nil
}

// deliver makes the single email attempt for n and reports success.
func (m *Manager) deliver(ctx context.Context, n *models.Notification) bool {
	fail := func(stage string, err error) bool {
		m.metrics.IncrementEmailFailed()
		m.logger.WarnContext(ctx, "notification email failed",
			"request_id", requestcontext.RequestID(ctx),
			"notification_id", n.ID,
			"stage", stage,
			"error", err,
		)
		return false
	}

	to, err := m.recipients.EmailForUser(ctx, n.UserID)
	if err != nil {
		return fail("resolve", err)
	}
	if strings.TrimSpace(to) == "" {
		return fail("resolve", errors.New("citizen has no email"))
	}
	msg, err := m.renderer.Notification(to, n.Title, n.Message, n.Metadata["folio"])
	if err != nil {
		return fail("render", err)
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fail("send", err)
	}
	m.metrics.IncrementEmailSent()
	// The email is out; a lost flag only affects the stored copy.
	if err := m.store.MarkEmailSent(ctx, n.ID); err != nil {
		m.logger.ErrorContext(ctx, "failed to record notification email as sent",
			"request_id", requestcontext.RequestID(ctx),
			"notification_id", n.ID,
			"error", err,
		)
	}
	return true
}

// SendWelcome emails a freshly registered citizen.
func (m *Manager) SendWelcome(ctx context.Context, to, fullName string) error {
	msg, err := m.renderer.Welcome(to, fullName)
	if err != nil {
		return err
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		m.metrics.IncrementEmailFailed()
		return err
	}
	m.metrics.IncrementEmailSent()
	return nil
}

// NotifyStatusChange tells the citizen about their application's status.
func (m *Manager) NotifyStatusChange(ctx context.Context, ref models.ApplicationRef, previous, current id.ApplicationStatus, comment string) (*models.Notification, error) {
	meta := baseMetadata(ref)
	meta["estado_nuevo"] = string(current)
	meta["estado_anterior"] = string(previous)
	meta["comentario"] = comment
	appID := ref.ID
	return m.Create(ctx, models.Input{
		UserID:        ref.CitizenUserID,
		Type:          TypeForStatus(current),
		Title:         StatusTitle(ref.Folio),
		Message:       StatusMessage(current, ref.Folio, ref.ServiceName, comment),
		ApplicationID: &appID,
		Metadata:      meta,
	})
}

// NotifyOfficialAssignment is an in-app notice to the assigned official.
func (m *Manager) NotifyOfficialAssignment(ctx context.Context, official id.UserID, ref models.ApplicationRef) (*models.Notification, error) {
	title, msg := assignmentCopy(ref)
	appID := ref.ID
	return m.Create(ctx, models.Input{
		UserID:        official,
		Type:          models.TypeApplicationAssigned,
		Title:         title,
		Message:       msg,
		ApplicationID: &appID,
		Metadata:      baseMetadata(ref),
	})
}

// NotifyDepartmentNewApplication notifies every FUNCIONARIO or ADMINISTRADOR
// account whose Official profile belongs to the application's department.
// A recipient that cannot be notified is logged and skipped.
func (m *Manager) NotifyDepartmentNewApplication(ctx context.Context, ref models.ApplicationRef, departmentName string) ([]*models.Notification, error) {
	officials, err := m.staff.DepartmentStaff(ctx, ref.DepartmentID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]id.UserID, 0, len(officials))
	for _, o := range officials {
		userIDs = append(userIDs, o.UserID)
	}

	title, msg := departmentCopy(ref)
	var out []*models.Notification
	for _, userID := range pstrings.Unique(userIDs) {
		user, err := m.users.GetUser(ctx, userID)
		if err != nil {
			m.skip(ctx, userID, err)
			continue
		}
		if !user.Role.IsStaff() {
			continue
		}
		meta := baseMetadata(ref)
		meta["dependencia"] = departmentName
		appID := ref.ID
		n, err := m.Create(ctx, models.Input{
			UserID:        userID,
			Type:          models.TypeApplicationCreated,
			Title:         title,
			Message:       msg,
			ApplicationID: &appID,
			Metadata:      meta,
		})
		if err != nil {
			m.skip(ctx, userID, err)
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// NotifyDocumentAdded notifies the citizen and each official with an active
// assignment on the application.
func (m *Manager) NotifyDocumentAdded(ctx context.Context, ref models.ApplicationRef, requirement string, officials []id.UserID) []*models.Notification {
	appID := ref.ID
	meta := baseMetadata(ref)
	meta["requisito"] = requirement

	var out []*models.Notification
	title, msg := documentCitizenCopy(ref, requirement)
	if n, err := m.Create(ctx, models.Input{
		UserID: ref.CitizenUserID, Type: models.TypeDocumentReceived,
		Title: title, Message: msg, ApplicationID: &appID, Metadata: meta,
	}); err != nil {
		m.skip(ctx, ref.CitizenUserID, err)
	} else {
		out = append(out, n)
	}

	title, msg = documentOfficialCopy(ref, requirement)
	for _, userID := range pstrings.Unique(officials) {
		n, err := m.Create(ctx, models.Input{
			UserID: userID, Type: models.TypeDocumentReceived,
			Title: title, Message: msg, ApplicationID: &appID, Metadata: meta,
		})
		if err != nil {
			m.skip(ctx, userID, err)
			continue
		}
		out = append(out, n)
	}
	return out
}

func (m *Manager) skip(ctx context.Context, userID id.UserID, err error) {
	m.logger.WarnContext(ctx, "notification recipient skipped",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", userID,
		"error", err,
	)
}

func notFound(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "notificación no encontrada")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update notification")
}
