package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"portal/internal/applications/models"
	"portal/internal/applications/service/mocks"
	"portal/internal/applications/store"
	authmodels "portal/internal/auth/models"
	catalogmodels "portal/internal/catalog/models"
	citizenmodels "portal/internal/citizens/models"
	notificationmodels "portal/internal/notifications/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
	"portal/pkg/testutil"
)

type ApplicationSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	catalog  *mocks.MockCatalog
	citizens *mocks.MockCitizens
	users    *mocks.MockUsers
	files    *mocks.MockFiles
	notifier *mocks.MockNotifier
	store    *store.InMemoryStore
	service  *Service
	ctx      context.Context
	now      time.Time

	deptID    id.DepartmentID
	otherDept id.DepartmentID
	procID    id.ProcedureID
	reqDoc    catalogmodels.Requirement
	reqInfo   catalogmodels.Requirement
	offering  *catalogmodels.Offering
	citizen   *citizenmodels.Citizen
	official  *catalogmodels.Official
	colleague *catalogmodels.Official
	outsider  *catalogmodels.Official

	citizenActor   policy.Actor
	strangerActor  policy.Actor
	officialActor  policy.Actor
	colleagueActor policy.Actor
	outsiderActor  policy.Actor
	admin          policy.Actor
}

func TestApplicationSuite(t *testing.T) {
	suite.Run(t, new(ApplicationSuite))
}

func (s *ApplicationSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.catalog = mocks.NewMockCatalog(s.ctrl)
	s.citizens = mocks.NewMockCitizens(s.ctrl)
	s.users = mocks.NewMockUsers(s.ctrl)
	s.files = mocks.NewMockFiles(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.store = store.New()
	s.service = New(s.store, s.catalog, s.citizens, s.users, s.files, s.notifier)
	s.now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.deptID = id.DepartmentID(uuid.New())
	s.otherDept = id.DepartmentID(uuid.New())
	s.procID = id.ProcedureID(uuid.New())
	s.reqDoc = catalogmodels.Requirement{ID: id.RequirementID(uuid.New()), Name: "Identificación oficial", Mandatory: true, DocumentRequired: true}
	s.reqInfo = catalogmodels.Requirement{ID: id.RequirementID(uuid.New()), Name: "Presentarse en ventanilla", Mandatory: true}
	procID := s.procID
	s.offering = &catalogmodels.Offering{
		Kind:         catalogmodels.OfferingProcedure,
		ProcedureID:  &procID,
		DepartmentID: s.deptID,
		Name:         "Licencia de funcionamiento",
		Active:       true,
		Requirements: []catalogmodels.Requirement{s.reqDoc, s.reqInfo},
	}

	s.citizenActor = policy.Actor{UserID: id.UserID(uuid.New()), Role: id.RoleCitizen}
	s.strangerActor = policy.Actor{UserID: id.UserID(uuid.New()), Role: id.RoleCitizen}
	s.officialActor = policy.Actor{UserID: id.UserID(uuid.New()), Role: id.RoleOfficial}
	s.colleagueActor = policy.Actor{UserID: id.UserID(uuid.New()), Role: id.RoleOfficial}
	s.outsiderActor = policy.Actor{UserID: id.UserID(uuid.New()), Role: id.RoleOfficial}
	s.admin = policy.Actor{UserID: id.UserID(uuid.New()), Role: id.RoleAdministrator}

	s.citizen = &citizenmodels.Citizen{
		ID:              id.CitizenID(uuid.New()),
		UserID:          s.citizenActor.UserID,
		FirstName:       "Ana",
		PaternalSurname: "Gómez",
		MaternalSurname: "Ruiz",
	}
	s.official = &catalogmodels.Official{ID: id.OfficialID(uuid.New()), UserID: s.officialActor.UserID, DepartmentID: s.deptID, FullName: "Laura Pérez"}
	s.colleague = &catalogmodels.Official{ID: id.OfficialID(uuid.New()), UserID: s.colleagueActor.UserID, DepartmentID: s.deptID, FullName: "Mario Díaz"}
	s.outsider = &catalogmodels.Official{ID: id.OfficialID(uuid.New()), UserID: s.outsiderActor.UserID, DepartmentID: s.otherDept, FullName: "Rosa León"}

	s.stubCollaborators()
}

func (s *ApplicationSuite) TearDownTest() {
	s.ctrl.Finish()
}

// stubCollaborators answers the lookups every operation makes. Notifier
// expectations stay in the tests.
func (s *ApplicationSuite) stubCollaborators() {
	notFound := dErrors.New(dErrors.CodeNotFound, "no encontrado")

	s.catalog.EXPECT().ResolveOffering(gomock.Any(), gomock.Any(), gomock.Any()).Return(s.offering, nil).AnyTimes()
	s.catalog.EXPECT().GetDepartment(gomock.Any(), gomock.Any()).Return(&catalogmodels.Department{ID: s.deptID, Name: "Desarrollo Económico"}, nil).AnyTimes()
	s.catalog.EXPECT().DepartmentOfferingIDs(gomock.Any(), s.deptID).Return([]id.ProcedureID{s.procID}, nil, nil).AnyTimes()
	s.catalog.EXPECT().DepartmentOfferingIDs(gomock.Any(), s.otherDept).Return(nil, nil, nil).AnyTimes()
	for _, o := range []*catalogmodels.Official{s.official, s.colleague, s.outsider} {
		s.catalog.EXPECT().OfficialForUser(gomock.Any(), o.UserID).Return(o, nil).AnyTimes()
		s.catalog.EXPECT().GetOfficial(gomock.Any(), o.ID).Return(o, nil).AnyTimes()
	}
	s.catalog.EXPECT().OfficialForUser(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	s.catalog.EXPECT().GetOfficial(gomock.Any(), gomock.Any()).Return(nil, notFound).AnyTimes()

	s.citizens.EXPECT().ByUser(gomock.Any(), s.citizen.UserID).Return(s.citizen, nil).AnyTimes()
	s.citizens.EXPECT().ByUser(gomock.Any(), gomock.Any()).Return(nil, notFound).AnyTimes()
	s.citizens.EXPECT().ByID(gomock.Any(), s.citizen.ID).Return(s.citizen, nil).AnyTimes()

	s.users.EXPECT().GetUser(gomock.Any(), s.officialActor.UserID).
		Return(&authmodels.User{ID: s.officialActor.UserID, FirstName: "Laura", LastName: "Pérez"}, nil).AnyTimes()
	s.users.EXPECT().GetUser(gomock.Any(), s.citizenActor.UserID).
		Return(&authmodels.User{ID: s.citizenActor.UserID, FirstName: "Ana", LastName: "Gómez"}, nil).AnyTimes()

	s.files.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, name string, r io.Reader) (string, error) {
			if _, err := io.ReadAll(r); err != nil {
				return "", err
			}
			return "documentos/" + name, nil
		}).AnyTimes()
	s.files.EXPECT().Remove(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (s *ApplicationSuite) pdf(reqID id.RequirementID) models.Upload {
	body := testutil.PDF()
	return models.Upload{RequirementID: reqID, Name: "identificacion.pdf", Size: int64(len(body)), Head: body}
}

// seed stores a pending application for the suite citizen without touching
// the notifier.
func (s *ApplicationSuite) seed() *models.Application {
	folio, err := s.store.NextFolio(s.ctx)
	s.Require().NoError(err)
	procID := s.procID
	a := &models.Application{
		ID:          id.ApplicationID(uuid.New()),
		Folio:       folio,
		CitizenID:   s.citizen.ID,
		ProcedureID: &procID,
		Status:      id.StatusPending,
		CreatedAt:   s.now,
		UpdatedAt:   s.now,
	}
	s.Require().NoError(s.store.Create(s.ctx, a))
	by := s.citizenActor.UserID
	s.Require().NoError(s.store.AppendHistory(s.ctx, models.HistoryEntry{
		ApplicationID: a.ID,
		Status:        id.StatusPending,
		ChangedBy:     &by,
		ChangeType:    models.ChangeCreated,
		CreatedAt:     s.now,
	}))
	return a
}

func (s *ApplicationSuite) assign(a *models.Application, o *catalogmodels.Official) {
	s.Require().NoError(s.store.CreateAssignment(s.ctx, &models.Assignment{
		ID:            id.AssignmentID(uuid.New()),
		ApplicationID: a.ID,
		OfficialID:    o.ID,
		DepartmentID:  o.DepartmentID,
		Active:        true,
		CreatedAt:     s.now,
	}))
}

func (s *ApplicationSuite) TestCreate() {
	s.Run("stores the application, its history and documents, then notifies", func() {
		var ref notificationmodels.ApplicationRef
		s.notifier.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any(), id.ApplicationStatus(""), id.StatusPending, "").
			DoAndReturn(func(_ context.Context, r notificationmodels.ApplicationRef, _, _ id.ApplicationStatus, _ string) (*notificationmodels.Notification, error) {
				ref = r
				return &notificationmodels.Notification{}, nil
			})
		s.notifier.EXPECT().NotifyDepartmentNewApplication(gomock.Any(), gomock.Any(), "Desarrollo Económico").Return(nil, nil)

		app, err := s.service.Create(s.ctx, s.citizenActor, models.Submission{
			ProcedureID: &s.procID,
			Description: "Local comercial",
			Files:       []models.Upload{s.pdf(s.reqDoc.ID)},
		})
		s.Require().NoError(err)
		s.Equal("SOL-000001", app.Folio)
		s.Equal(id.StatusPending, app.Status)
		s.Equal(s.citizen.ID, app.CitizenID)
		s.Equal(s.now, app.CreatedAt)

		s.Equal(app.Folio, ref.Folio)
		s.Equal("Ana Gómez Ruiz", ref.CitizenName)
		s.Equal(s.citizen.UserID, ref.CitizenUserID)
		s.Equal(s.deptID, ref.DepartmentID)

		docs, err := s.store.ListDocuments(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal("application/pdf", docs[0].ContentType)
		s.Equal("documentos/identificacion.pdf", docs[0].Path)

		history, err := s.store.ListHistory(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().Len(history, 1)
		s.Equal(models.ChangeCreated, history[0].ChangeType)
		s.Equal(s.citizenActor.UserID, *history[0].ChangedBy)
	})

	s.Run("skips a failing file and keeps the rest", func() {
		s.notifier.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		s.notifier.EXPECT().NotifyDepartmentNewApplication(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		script := models.Upload{RequirementID: s.reqDoc.ID, Name: "virus.exe", Size: 10, Head: []byte("MZ")}
		foreign := s.pdf(id.RequirementID(uuid.New()))
		app, err := s.service.Create(s.ctx, s.citizenActor, models.Submission{
			ProcedureID: &s.procID,
			Files:       []models.Upload{foreign, script, s.pdf(s.reqDoc.ID)},
		})
		s.Require().NoError(err)
		s.Equal("SOL-000002", app.Folio)

		docs, err := s.store.ListDocuments(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().Len(docs, 1)
		s.Equal(s.reqDoc.ID, docs[0].RequirementID)
	})

	s.Run("rejects staff", func() {
		_, err := s.service.Create(s.ctx, s.officialActor, models.Submission{ProcedureID: &s.procID})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("rejects a citizen user without a profile", func() {
		_, err := s.service.Create(s.ctx, s.strangerActor, models.Submission{ProcedureID: &s.procID})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("rejects an inactive offering", func() {
		s.offering.Active = false
		defer func() { s.offering.Active = true }()

		_, err := s.service.Create(s.ctx, s.citizenActor, models.Submission{ProcedureID: &s.procID})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.FieldsOf(err), "tramite")
	})
}

func (s *ApplicationSuite) TestChangeStatus() {
	app := s.seed()
	later := requestcontext.WithTime(context.Background(), s.now.Add(48*time.Hour))

	s.Run("a real change records history and notifies once", func() {
		s.notifier.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any(), id.StatusPending, id.StatusApproved, "Listo").
			Return(&notificationmodels.Notification{}, nil).Times(1)

		got, err := s.service.ChangeStatus(later, s.officialActor, app.ID, models.StatusChange{Status: id.StatusApproved, Comment: ptr("Listo")})
		s.Require().NoError(err)
		s.Equal(id.StatusApproved, got.Status)
		s.Equal("Listo", got.Comments)
		s.Equal(s.now.Add(48*time.Hour), got.UpdatedAt)

		history, err := s.store.ListHistory(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Require().Len(history, 2)
		s.Equal(models.ChangeStatus, history[0].ChangeType)
		s.Equal(id.StatusApproved, history[0].Status)
		s.Equal(s.officialActor.UserID, *history[0].ChangedBy)
	})

	s.Run("the same status saves the comment without history or notification", func() {
		got, err := s.service.ChangeStatus(later, s.officialActor, app.ID, models.StatusChange{Status: id.StatusApproved, Comment: ptr("Sin cambios")})
		s.Require().NoError(err)
		s.Equal("Sin cambios", got.Comments)

		history, err := s.store.ListHistory(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Len(history, 2)
	})

	s.Run("a change without a comment keeps the stored one", func() {
		s.notifier.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any(), id.StatusApproved, id.StatusNeedsInfo, "Falta INE").
			Return(&notificationmodels.Notification{}, nil)
		_, err := s.service.ChangeStatus(later, s.officialActor, app.ID, models.StatusChange{Status: id.StatusNeedsInfo, Comment: ptr("Falta INE")})
		s.Require().NoError(err)

		s.notifier.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any(), id.StatusNeedsInfo, id.StatusInReview, "").
			Return(&notificationmodels.Notification{}, nil)
		got, err := s.service.ChangeStatus(later, s.officialActor, app.ID, models.StatusChange{Status: id.StatusInReview})
		s.Require().NoError(err)
		s.Equal(id.StatusInReview, got.Status)
		s.Equal("Falta INE", got.Comments)

		stored, err := s.store.FindByID(s.ctx, app.ID)
		s.Require().NoError(err)
		s.Equal("Falta INE", stored.Comments)
	})

	s.Run("rejects an unknown status", func() {
		_, err := s.service.ChangeStatus(s.ctx, s.officialActor, app.ID, models.StatusChange{Status: "CERRADO"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.FieldsOf(err), "estatus")
	})

	s.Run("hides the application from another department", func() {
		_, err := s.service.ChangeStatus(s.ctx, s.outsiderActor, app.ID, models.StatusChange{Status: id.StatusRejected})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("citizens cannot transition", func() {
		_, err := s.service.ChangeStatus(s.ctx, s.citizenActor, app.ID, models.StatusChange{Status: id.StatusRejected})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown applications are not found", func() {
		_, err := s.service.ChangeStatus(s.ctx, s.admin, id.ApplicationID(uuid.New()), models.StatusChange{Status: id.StatusRejected})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ApplicationSuite) TestVisibility() {
	own := s.seed()

	list := func(actor policy.Actor) []id.ApplicationID {
		rows, err := s.service.List(s.ctx, actor, models.Filter{})
		s.Require().NoError(err)
		ids := make([]id.ApplicationID, 0, len(rows))
		for _, r := range rows {
			s.Equal(s.offering.Name, r.ServiceName)
			ids = append(ids, r.Application.ID)
		}
		return ids
	}

	s.Run("owner, department staff and administrators see it", func() {
		s.Equal([]id.ApplicationID{own.ID}, list(s.citizenActor))
		s.Equal([]id.ApplicationID{own.ID}, list(s.officialActor))
		s.Equal([]id.ApplicationID{own.ID}, list(s.admin))
	})

	s.Run("other citizens and other departments see nothing", func() {
		s.Empty(list(s.strangerActor))
		s.Empty(list(s.outsiderActor))

		_, err := s.service.Get(s.ctx, s.outsiderActor, own.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.service.Get(s.ctx, s.strangerActor, own.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("an active assignment extends visibility across departments", func() {
		s.assign(own, s.outsider)
		s.Equal([]id.ApplicationID{own.ID}, list(s.outsiderActor))

		d, err := s.service.Get(s.ctx, s.outsiderActor, own.ID)
		s.Require().NoError(err)
		s.Equal("Ana Gómez Ruiz", d.CitizenName)
		s.Equal("Desarrollo Económico", d.DepartmentName)
		s.Len(d.Assignments, 1)
		s.False(d.Complete)
	})

	s.Run("anonymous callers are refused", func() {
		_, err := s.service.List(s.ctx, policy.Actor{}, models.Filter{})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ApplicationSuite) TestAssign() {
	app := s.seed()

	s.Run("a new assignment replaces the active one in the department", func() {
		s.notifier.EXPECT().NotifyOfficialAssignment(gomock.Any(), s.official.UserID, gomock.Any()).Return(nil, nil)
		s.notifier.EXPECT().NotifyOfficialAssignment(gomock.Any(), s.colleague.UserID, gomock.Any()).Return(nil, nil)

		first, err := s.service.Assign(s.ctx, s.admin, models.AssignmentInput{ApplicationID: app.ID, OfficialID: s.official.ID})
		s.Require().NoError(err)
		s.True(first.Active)
		s.Equal(s.deptID, first.DepartmentID)
		s.Equal(s.admin.UserID, *first.AssignedBy)

		_, err = s.service.Assign(s.ctx, s.officialActor, models.AssignmentInput{ApplicationID: app.ID, OfficialID: s.colleague.ID, Notes: "vacaciones"})
		s.Require().NoError(err)

		mine, err := s.service.MyAssignments(s.ctx, s.officialActor)
		s.Require().NoError(err)
		s.Empty(mine)

		theirs, err := s.service.MyAssignments(s.ctx, s.colleagueActor)
		s.Require().NoError(err)
		s.Require().Len(theirs, 1)
		s.Equal("vacaciones", theirs[0].Notes)
	})

	s.Run("an assignment in another department stays active", func() {
		s.notifier.EXPECT().NotifyOfficialAssignment(gomock.Any(), s.outsider.UserID, gomock.Any()).Return(nil, nil)

		_, err := s.service.Assign(s.ctx, s.admin, models.AssignmentInput{ApplicationID: app.ID, OfficialID: s.outsider.ID})
		s.Require().NoError(err)

		theirs, err := s.service.MyAssignments(s.ctx, s.colleagueActor)
		s.Require().NoError(err)
		s.Len(theirs, 1)
	})

	s.Run("rejects an unknown official", func() {
		_, err := s.service.Assign(s.ctx, s.admin, models.AssignmentInput{ApplicationID: app.ID, OfficialID: id.OfficialID(uuid.New())})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.FieldsOf(err), "funcionario")
	})

	s.Run("citizens cannot assign", func() {
		_, err := s.service.Assign(s.ctx, s.citizenActor, models.AssignmentInput{ApplicationID: app.ID, OfficialID: s.official.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		_, err = s.service.MyAssignments(s.ctx, s.citizenActor)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ApplicationSuite) TestUploadDocument() {
	app := s.seed()
	s.assign(app, s.official)

	s.Run("notifies the citizen and the assigned officials", func() {
		s.notifier.EXPECT().NotifyDocumentAdded(gomock.Any(), gomock.Any(), s.reqDoc.Name, []id.UserID{s.official.UserID}).Return(nil)

		doc, err := s.service.UploadDocument(s.ctx, s.citizenActor, app.ID, s.pdf(s.reqDoc.ID))
		s.Require().NoError(err)
		s.Equal(s.reqDoc.ID, doc.RequirementID)
		s.Equal(s.now, doc.UploadedAt)
	})

	s.Run("a second document for the requirement is a validation error", func() {
		_, err := s.service.UploadDocument(s.ctx, s.citizenActor, app.ID, s.pdf(s.reqDoc.ID))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(msgDuplicateDocument, dErrors.FieldsOf(err)["requisito"])
	})

	s.Run("rejects a requirement of another offering", func() {
		_, err := s.service.UploadDocument(s.ctx, s.citizenActor, app.ID, s.pdf(id.RequirementID(uuid.New())))
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(msgForeignRequirement, dErrors.FieldsOf(err)["requisito"])
	})

	s.Run("officials cannot upload", func() {
		_, err := s.service.UploadDocument(s.ctx, s.officialActor, app.ID, s.pdf(s.reqInfo.ID))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("another citizen cannot see the application", func() {
		_, err := s.service.UploadDocument(s.ctx, s.strangerActor, app.ID, s.pdf(s.reqInfo.ID))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ApplicationSuite) TestCompleteness() {
	app := s.seed()

	got, err := s.service.Completeness(s.ctx, s.officialActor, app.ID)
	s.Require().NoError(err)
	s.False(got.Complete)
	s.Equal(2, got.Total)
	s.Zero(got.Uploaded)

	s.notifier.EXPECT().NotifyDocumentAdded(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	_, err = s.service.UploadDocument(s.ctx, s.citizenActor, app.ID, s.pdf(s.reqDoc.ID))
	s.Require().NoError(err)

	got, err = s.service.Completeness(s.ctx, s.citizenActor, app.ID)
	s.Require().NoError(err)
	s.True(got.Complete)
	s.Equal(1, got.Uploaded)
	for _, r := range got.Requirements {
		if r.Requirement.ID == s.reqDoc.ID {
			s.NotNil(r.Document)
		} else {
			s.Nil(r.Document)
		}
	}
}

func (s *ApplicationSuite) TestHistory() {
	app := s.seed()
	s.Require().NoError(s.store.AppendHistory(s.ctx, models.HistoryEntry{
		ApplicationID: app.ID,
		Status:        id.StatusInReview,
		ChangeType:    models.ChangeStatus,
		CreatedAt:     s.now.Add(time.Hour),
	}))
	by := s.officialActor.UserID
	s.Require().NoError(s.store.AppendHistory(s.ctx, models.HistoryEntry{
		ApplicationID: app.ID,
		Status:        id.StatusNeedsInfo,
		ChangedBy:     &by,
		ChangeType:    models.ChangeStatus,
		CreatedAt:     s.now.Add(2 * time.Hour),
	}))

	current, items, err := s.service.History(s.ctx, s.citizenActor, app.ID)
	s.Require().NoError(err)
	s.Equal(app.ID, current.ID)
	s.Require().Len(items, 3)
	s.Equal("Laura Pérez", items[0].ActorName)
	s.Equal(systemActor, items[1].ActorName)
	s.Equal("Ana Gómez", items[2].ActorName)
	s.Equal(models.ChangeCreated, items[2].ChangeType)
}

func (s *ApplicationSuite) TestDashboard() {
	first := s.seed()
	s.seed()
	_, err := s.store.Execute(s.ctx, first.ID, nil, func(a *models.Application) {
		a.Transition(id.StatusInReview, nil, s.now.Add(time.Hour))
	})
	s.Require().NoError(err)
	s.assign(first, s.official)

	s.Run("citizen", func() {
		d, err := s.service.Dashboard(s.ctx, s.citizenActor)
		s.Require().NoError(err)
		s.Equal("Bienvenido, Ana", d.Welcome)
		s.Equal(2, d.Counts.Total())
		s.Equal(1, d.Counts[id.StatusInReview])
		s.Zero(d.Counts[id.StatusApproved])
		s.Require().Len(d.Latest, 2)
		s.Equal(first.ID, d.Latest[0].Application.ID)
		s.Zero(d.AssignedCount)
	})

	s.Run("official", func() {
		d, err := s.service.Dashboard(s.ctx, s.officialActor)
		s.Require().NoError(err)
		s.Equal("Bienvenido, Laura Pérez (Desarrollo Económico)", d.Welcome)
		s.Equal(2, d.Counts.Total())
		s.Equal(1, d.AssignedCount)
	})

	s.Run("administrator", func() {
		d, err := s.service.Dashboard(s.ctx, s.admin)
		s.Require().NoError(err)
		s.Equal("Bienvenido, Administrador", d.Welcome)
		s.Equal(2, d.Counts.Total())
	})

	s.Run("official without a profile sees an empty dashboard", func() {
		d, err := s.service.Dashboard(s.ctx, policy.Actor{UserID: id.UserID(uuid.New()), Role: id.RoleOfficial})
		s.Require().NoError(err)
		s.Zero(d.Counts.Total())
		s.Empty(d.Latest)
	})
}

func (s *ApplicationSuite) TestStats() {
	resolved := s.seed()
	s.seed()
	_, err := s.store.Execute(s.ctx, resolved.ID, nil, func(a *models.Application) {
		a.Transition(id.StatusApproved, nil, s.now.Add(36*time.Hour))
	})
	s.Require().NoError(err)
	s.Require().NoError(s.store.AppendHistory(s.ctx, models.HistoryEntry{
		ApplicationID: resolved.ID,
		Status:        id.StatusApproved,
		ChangeType:    models.ChangeStatus,
		CreatedAt:     s.now.Add(36 * time.Hour),
	}))

	s.Run("administrator", func() {
		s.users.EXPECT().CountActiveByRole(gomock.Any()).Return(map[id.Role]int{
			id.RoleAdministrator: 1,
			id.RoleOfficial:      3,
			id.RoleCitizen:       5,
		}, nil)
		s.catalog.EXPECT().CountDepartments(gomock.Any()).Return(4, nil)

		got, err := s.service.Stats(s.ctx, s.admin)
		s.Require().NoError(err)
		s.Equal(9, got.TotalUsers)
		s.Equal(5, got.TotalCitizens)
		s.Equal(3, got.TotalOfficials)
		s.Equal(2, got.CreatedToday)
		s.Equal(4, got.Departments)
		s.InDelta(1.5, got.AverageResponseDays, 0.001)
		s.Equal(1, got.StatusDistribution[id.StatusApproved])
		s.Equal(1, got.StatusDistribution[id.StatusPending])
	})

	s.Run("department loads", func() {
		s.catalog.EXPECT().ListDepartments(gomock.Any(), s.admin).Return([]*catalogmodels.Department{
			{ID: s.deptID, Name: "Desarrollo Económico"},
			{ID: s.otherDept, Name: "Obras Públicas"},
		}, nil)

		loads, err := s.service.DepartmentLoads(s.ctx, s.admin)
		s.Require().NoError(err)
		s.Require().Len(loads, 2)
		s.Equal(1, loads[0].Pending)
		s.Zero(loads[0].InReview)
		s.Zero(loads[1].Pending)
	})

	s.Run("staff are refused", func() {
		_, err := s.service.Stats(s.ctx, s.officialActor)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		_, err = s.service.DepartmentLoads(s.ctx, s.officialActor)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ApplicationSuite) TestTrends() {
	today := s.seed()
	s.seed()
	_, err := s.store.Execute(s.ctx, today.ID, nil, func(a *models.Application) {
		a.Transition(id.StatusApproved, nil, s.now)
	})
	s.Require().NoError(err)
	for _, age := range []time.Duration{3 * 24 * time.Hour, 10 * 24 * time.Hour} {
		old := s.seed()
		_, err := s.store.Execute(s.ctx, old.ID, nil, func(a *models.Application) {
			a.Status = id.StatusRejected
			a.CreatedAt = s.now.Add(-age)
		})
		s.Require().NoError(err)
	}

	s.Run("one entry per day of the window", func() {
		got, err := s.service.Trends(s.ctx, s.admin, 7)
		s.Require().NoError(err)
		s.Equal(7, got.Period)
		s.Require().Len(got.Days, 7)
		s.Equal(time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC), got.Days[0].Day)
		last := got.Days[6]
		s.Equal(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), last.Day)
		s.Equal(2, last.Created)
		s.Equal(1, last.Approved)
		s.Zero(last.Rejected)
		s.Equal(models.DayCounts{Day: time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC), Created: 1, Rejected: 1}, got.Days[3])
		s.Zero(got.Days[0].Created)
	})

	s.Run("defaults to thirty days", func() {
		got, err := s.service.Trends(s.ctx, s.admin, 0)
		s.Require().NoError(err)
		s.Equal(30, got.Period)
		s.Len(got.Days, 30)
		created := 0
		for _, d := range got.Days {
			created += d.Created
		}
		s.Equal(4, created)
	})

	s.Run("unsupported period", func() {
		_, err := s.service.Trends(s.ctx, s.admin, 14)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.FieldsOf(err), "period")
	})

	s.Run("staff are refused", func() {
		_, err := s.service.Trends(s.ctx, s.officialActor, 7)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func ptr[T any](v T) *T { return &v }
