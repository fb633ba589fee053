package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	authmodels "portal/internal/auth/models"
	catalogmodels "portal/internal/catalog/models"
	"portal/internal/notifications/mailer"
	"portal/internal/notifications/metrics"
	"portal/internal/notifications/models"
	"portal/internal/notifications/service/mocks"
	"portal/internal/notifications/store"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type ManagerSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	users      *mocks.MockUsers
	recipients *mocks.MockRecipientResolver
	staff      *mocks.MockStaff
	sender     *recordingSender
	store      *store.InMemoryStore
	manager    *Manager
	ctx        context.Context
	now        time.Time

	citizen id.UserID
	ref     models.ApplicationRef
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUsers(s.ctrl)
	s.recipients = mocks.NewMockRecipientResolver(s.ctrl)
	s.staff = mocks.NewMockStaff(s.ctrl)
	s.sender = &recordingSender{}
	s.store = store.New()
	renderer, err := mailer.NewRenderer("https://portal.example.com")
	s.Require().NoError(err)
	s.manager = New(s.store, s.users, s.recipients, s.staff, s.sender, renderer)
	s.now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.citizen = id.UserID(uuid.New())
	s.ref = models.ApplicationRef{
		ID:            id.ApplicationID(uuid.New()),
		Folio:         "SOL-000042",
		ServiceName:   "Licencia de funcionamiento",
		ServiceKind:   "TRAMITE",
		DepartmentID:  id.DepartmentID(uuid.New()),
		CitizenUserID: s.citizen,
		CitizenName:   "Ana Gómez Ruiz",
	}
}

func (s *ManagerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ManagerSuite) expectRole(userID id.UserID, role id.Role) {
	s.users.EXPECT().GetUser(gomock.Any(), userID).
		Return(&authmodels.User{ID: userID, Role: role, Active: true}, nil).AnyTimes()
}

func (s *ManagerSuite) TestCreate() {
	s.Run("citizen notification is emailed once", func() {
		s.expectRole(s.citizen, id.RoleCitizen)
		s.recipients.EXPECT().EmailForUser(gomock.Any(), s.citizen).Return("ana@example.com", nil)

		n, err := s.manager.Create(s.ctx, models.Input{
			UserID: s.citizen, Type: models.TypeSystem, Title: "Aviso", Message: "Hola",
			Metadata: map[string]string{"folio": "SOL-000001"},
		})
		s.Require().NoError(err)
		s.True(n.EmailRequired)
		s.True(n.EmailSent)
		s.Equal(s.now, n.CreatedAt)
		s.Require().Len(s.sender.sent, 1)
		s.Equal("ana@example.com", s.sender.sent[0].To)
		s.Equal("Aviso", s.sender.sent[0].Subject)
		s.Contains(s.sender.sent[0].HTML, "SOL-000001")

		stored, err := s.store.FindByID(s.ctx, n.ID)
		s.Require().NoError(err)
		s.True(stored.EmailSent)
	})

	s.Run("staff notification stays in-app", func() {
		official := id.UserID(uuid.New())
		s.expectRole(official, id.RoleOfficial)

		n, err := s.manager.Create(s.ctx, models.Input{UserID: official, Type: models.TypeSystem, Title: "t", Message: "m"})
		s.Require().NoError(err)
		s.False(n.EmailRequired)
		s.False(n.EmailSent)
	})

	s.Run("suppressed citizen email", func() {
		citizen := id.UserID(uuid.New())
		s.expectRole(citizen, id.RoleCitizen)

		n, err := s.manager.Create(s.ctx, models.Input{UserID: citizen, Type: models.TypeSystem, Title: "t", Message: "m", SuppressEmail: true})
		s.Require().NoError(err)
		s.False(n.EmailRequired)
	})

	s.Run("send failure keeps the notification", func() {
		citizen := id.UserID(uuid.New())
		s.expectRole(citizen, id.RoleCitizen)
		s.recipients.EXPECT().EmailForUser(gomock.Any(), citizen).Return("x@example.com", nil)
		s.sender.err = errors.New("smtp down")
		defer func() { s.sender.err = nil }()

		n, err := s.manager.Create(s.ctx, models.Input{UserID: citizen, Type: models.TypeSystem, Title: "t", Message: "m"})
		s.Require().NoError(err)
		s.True(n.EmailRequired)
		s.False(n.EmailSent)

		stored, err := s.store.FindByID(s.ctx, n.ID)
		s.Require().NoError(err)
		s.False(stored.EmailSent)
	})

	s.Run("unknown recipient", func() {
		ghost := id.UserID(uuid.New())
		s.users.EXPECT().GetUser(gomock.Any(), ghost).Return(nil, dErrors.New(dErrors.CodeNotFound, "usuario no encontrado"))

		_, err := s.manager.Create(s.ctx, models.Input{UserID: ghost, Type: models.TypeSystem})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ManagerSuite) TestNotifyStatusChange() {
	s.expectRole(s.citizen, id.RoleCitizen)
	s.recipients.EXPECT().EmailForUser(gomock.Any(), s.citizen).Return("ana@example.com", nil)

	n, err := s.manager.NotifyStatusChange(s.ctx, s.ref, id.StatusInReview, id.StatusApproved, "Listo")
	s.Require().NoError(err)

	s.Equal(models.TypeApplicationApproved, n.Type)
	s.Equal("Actualización de Solicitud SOL-000042", n.Title)
	s.Contains(n.Message, "ha sido aprobada")
	s.Contains(n.Message, "Comentario: Listo")
	s.Equal(string(id.StatusApproved), n.Metadata["estado_nuevo"])
	s.Equal(string(id.StatusInReview), n.Metadata["estado_anterior"])
	s.Equal("Listo", n.Metadata["comentario"])
	s.Equal("SOL-000042", n.Metadata["folio"])
	s.Require().NotNil(n.ApplicationID)
	s.Equal(s.ref.ID, *n.ApplicationID)
	s.True(n.EmailSent)

	list, err := s.store.ListByUser(s.ctx, s.citizen, models.Filter{})
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *ManagerSuite) TestNotifyDepartmentNewApplication() {
	s.Run("every staff member once", func() {
		officials := []id.UserID{id.UserID(uuid.New()), id.UserID(uuid.New()), id.UserID(uuid.New())}
		admin := id.UserID(uuid.New())
		profiles := []*catalogmodels.Official{}
		for _, u := range officials {
			s.expectRole(u, id.RoleOfficial)
			profiles = append(profiles, &catalogmodels.Official{UserID: u, DepartmentID: s.ref.DepartmentID})
		}
		s.expectRole(admin, id.RoleAdministrator)
		profiles = append(profiles,
			&catalogmodels.Official{UserID: admin, DepartmentID: s.ref.DepartmentID},
			&catalogmodels.Official{UserID: officials[0], DepartmentID: s.ref.DepartmentID},
		)
		s.staff.EXPECT().DepartmentStaff(gomock.Any(), s.ref.DepartmentID).Return(profiles, nil)

		created, err := s.manager.NotifyDepartmentNewApplication(s.ctx, s.ref, "Desarrollo Económico")
		s.Require().NoError(err)
		s.Len(created, 4)
		for _, n := range created {
			s.Equal(models.TypeApplicationCreated, n.Type)
			s.Equal("Desarrollo Económico", n.Metadata["dependencia"])
			s.False(n.EmailSent)
		}
		s.Empty(s.sender.sent)
	})

	s.Run("citizen accounts are skipped", func() {
		stray := id.UserID(uuid.New())
		s.expectRole(stray, id.RoleCitizen)
		s.staff.EXPECT().DepartmentStaff(gomock.Any(), s.ref.DepartmentID).
			Return([]*catalogmodels.Official{{UserID: stray}}, nil)

		created, err := s.manager.NotifyDepartmentNewApplication(s.ctx, s.ref, "Desarrollo Económico")
		s.Require().NoError(err)
		s.Empty(created)
	})
}

func (s *ManagerSuite) TestNotifyOfficialAssignment() {
	official := id.UserID(uuid.New())
	s.expectRole(official, id.RoleOfficial)

	n, err := s.manager.NotifyOfficialAssignment(s.ctx, official, s.ref)
	s.Require().NoError(err)
	s.Equal(models.TypeApplicationAssigned, n.Type)
	s.Contains(n.Message, "SOL-000042")
	s.Contains(n.Message, "Ana Gómez Ruiz")
}

func (s *ManagerSuite) TestNotifyDocumentAdded() {
	official := id.UserID(uuid.New())
	s.expectRole(s.citizen, id.RoleCitizen)
	s.expectRole(official, id.RoleOfficial)
	s.recipients.EXPECT().EmailForUser(gomock.Any(), s.citizen).Return("ana@example.com", nil)

	created := s.manager.NotifyDocumentAdded(s.ctx, s.ref, "INE", []id.UserID{official, official})
	s.Require().Len(created, 2)
	s.Equal(s.citizen, created[0].UserID)
	s.Equal(official, created[1].UserID)
	s.Equal("INE", created[1].Metadata["requisito"])
}

func (s *ManagerSuite) TestInbox() {
	other := id.UserID(uuid.New())
	s.expectRole(s.citizen, id.RoleOfficial)
	s.expectRole(other, id.RoleOfficial)
	actor := policy.Actor{UserID: s.citizen, Role: id.RoleOfficial}

	mine, err := s.manager.Create(s.ctx, models.Input{UserID: s.citizen, Type: models.TypeSystem, Title: "a"})
	s.Require().NoError(err)
	_, err = s.manager.Create(s.ctx, models.Input{UserID: s.citizen, Type: models.TypeSystem, Title: "b"})
	s.Require().NoError(err)
	theirs, err := s.manager.Create(s.ctx, models.Input{UserID: other, Type: models.TypeSystem, Title: "c"})
	s.Require().NoError(err)

	s.Run("unread count", func() {
		count, err := s.manager.UnreadCount(s.ctx, actor)
		s.Require().NoError(err)
		s.Equal(2, count)
	})

	s.Run("mark read is idempotent", func() {
		first, err := s.manager.MarkRead(s.ctx, actor, mine.ID)
		s.Require().NoError(err)
		s.True(first.Read)

		later := requestcontext.WithTime(s.ctx, s.now.Add(time.Hour))
		again, err := s.manager.MarkRead(later, actor, mine.ID)
		s.Require().NoError(err)
		s.Equal(*first.ReadAt, *again.ReadAt)
	})

	s.Run("another user's notification is not found", func() {
		_, err := s.manager.MarkRead(s.ctx, actor, theirs.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("read filter", func() {
		read := true
		list, err := s.manager.List(s.ctx, actor, models.Filter{Read: &read})
		s.Require().NoError(err)
		s.Require().Len(list, 1)
		s.Equal(mine.ID, list[0].ID)
	})

	s.Run("mark all read", func() {
		updated, err := s.manager.MarkAllRead(s.ctx, actor)
		s.Require().NoError(err)
		s.Equal(1, updated)

		updated, err = s.manager.MarkAllRead(s.ctx, actor)
		s.Require().NoError(err)
		s.Equal(0, updated)
	})

	s.Run("anonymous is forbidden", func() {
		_, err := s.manager.List(s.ctx, policy.Actor{}, models.Filter{})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ManagerSuite) TestSendWelcome() {
	s.Require().NoError(s.manager.SendWelcome(s.ctx, "ana@example.com", "Ana Gómez"))
	s.Require().Len(s.sender.sent, 1)
	s.Equal(mailer.WelcomeSubject, s.sender.sent[0].Subject)
	s.Contains(s.sender.sent[0].Text, "Ana Gómez")
}

type unflaggableStore struct {
	*store.InMemoryStore
}

func (unflaggableStore) MarkEmailSent(context.Context, id.NotificationID) error {
	return errors.New("connection reset")
}

func (s *ManagerSuite) TestDeliveredEmailWithLostFlag() {
	var logs bytes.Buffer
	mt := metrics.NewWithRegistry(prometheus.NewRegistry())
	renderer, err := mailer.NewRenderer("https://portal.example.com")
	s.Require().NoError(err)
	manager := New(unflaggableStore{s.store}, s.users, s.recipients, s.staff, s.sender, renderer,
		WithMetrics(mt),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)
	s.expectRole(s.citizen, id.RoleCitizen)
	s.recipients.EXPECT().EmailForUser(gomock.Any(), s.citizen).Return("ana@example.com", nil)

	n, err := manager.Create(s.ctx, models.Input{UserID: s.citizen, Type: models.TypeSystem, Title: "Aviso", Message: "Hola"})
	s.Require().NoError(err)
	s.True(n.EmailSent)
	s.Len(s.sender.sent, 1)
	s.Equal(1.0, promtestutil.ToFloat64(mt.EmailsSent))
	s.Equal(0.0, promtestutil.ToFloat64(mt.EmailsFail))
	s.Contains(logs.String(), "failed to record notification email as sent")
	s.NotContains(logs.String(), "notification email failed")
}
