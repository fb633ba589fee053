package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"portal/internal/applications/service"
	"portal/internal/applications/service/mocks"
	"portal/internal/applications/store"
	catalogmodels "portal/internal/catalog/models"
	citizenmodels "portal/internal/citizens/models"
	"portal/internal/uploads"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/testutil"
)

type fixture struct {
	router   http.Handler
	procID   id.ProcedureID
	reqDoc   catalogmodels.Requirement
	citizen  id.UserID
	official id.UserID
	admin    id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		procID:   id.ProcedureID(uuid.New()),
		reqDoc:   catalogmodels.Requirement{ID: id.RequirementID(uuid.New()), Name: "Comprobante de domicilio", DocumentRequired: true},
		citizen:  id.UserID(uuid.New()),
		official: id.UserID(uuid.New()),
		admin:    id.UserID(uuid.New()),
	}
	deptID := id.DepartmentID(uuid.New())
	procID := f.procID
	offering := &catalogmodels.Offering{
		Kind:         catalogmodels.OfferingProcedure,
		ProcedureID:  &procID,
		DepartmentID: deptID,
		Name:         "Constancia de residencia",
		Active:       true,
		Requirements: []catalogmodels.Requirement{f.reqDoc},
	}
	profile := &citizenmodels.Citizen{ID: id.CitizenID(uuid.New()), UserID: f.citizen, FirstName: "Ana", PaternalSurname: "Gómez"}
	official := &catalogmodels.Official{ID: id.OfficialID(uuid.New()), UserID: f.official, DepartmentID: deptID, FullName: "Laura Pérez"}
	notFound := dErrors.New(dErrors.CodeNotFound, "no encontrado")

	catalog := mocks.NewMockCatalog(ctrl)
	catalog.EXPECT().ResolveOffering(gomock.Any(), gomock.Any(), gomock.Any()).Return(offering, nil).AnyTimes()
	catalog.EXPECT().GetDepartment(gomock.Any(), gomock.Any()).Return(&catalogmodels.Department{ID: deptID, Name: "Secretaría del Ayuntamiento"}, nil).AnyTimes()
	catalog.EXPECT().DepartmentOfferingIDs(gomock.Any(), deptID).Return([]id.ProcedureID{f.procID}, nil, nil).AnyTimes()
	catalog.EXPECT().OfficialForUser(gomock.Any(), f.official).Return(official, nil).AnyTimes()
	catalog.EXPECT().OfficialForUser(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	catalog.EXPECT().GetOfficial(gomock.Any(), official.ID).Return(official, nil).AnyTimes()
	catalog.EXPECT().GetOfficial(gomock.Any(), gomock.Any()).Return(nil, notFound).AnyTimes()

	citizens := mocks.NewMockCitizens(ctrl)
	citizens.EXPECT().ByUser(gomock.Any(), f.citizen).Return(profile, nil).AnyTimes()
	citizens.EXPECT().ByUser(gomock.Any(), gomock.Any()).Return(nil, notFound).AnyTimes()
	citizens.EXPECT().ByID(gomock.Any(), profile.ID).Return(profile, nil).AnyTimes()

	users := mocks.NewMockUsers(ctrl)
	users.EXPECT().GetUser(gomock.Any(), gomock.Any()).Return(nil, notFound).AnyTimes()

	notifier := mocks.NewMockNotifier(ctrl)
	notifier.EXPECT().NotifyStatusChange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	notifier.EXPECT().NotifyDepartmentNewApplication(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	notifier.EXPECT().NotifyOfficialAssignment(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	notifier.EXPECT().NotifyDocumentAdded(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	files, err := uploads.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := service.New(store.New(), catalog, citizens, users, files, notifier, service.WithLogger(logger))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	f.router = r
	return f
}

func (f *fixture) submit(t *testing.T, withDocument bool) ApplicationResponse {
	t.Helper()
	files := map[string]testutil.File{}
	if withDocument {
		files["documento_"+f.reqDoc.ID.String()] = testutil.File{Name: "domicilio.pdf", Content: testutil.PDF()}
	}
	req := testutil.NewMultipartRequest(t, http.MethodPost, "/tramites/solicitudes/",
		map[string]string{"tramite": f.procID.String(), "descripcion": "Para trámite escolar"}, files)
	rr := testutil.DoRequest(f.router, testutil.WithActor(req, f.citizen, id.RoleCitizen))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return *testutil.UnmarshalResponse[ApplicationResponse](t, rr)
}

func TestCreateEndpoint(t *testing.T) {
	f := newFixture(t)

	t.Run("multipart submission with its document", func(t *testing.T) {
		got := f.submit(t, true)
		assert.Equal(t, "SOL-000001", got.Folio)
		assert.Equal(t, string(id.StatusPending), got.Status)
		assert.Equal(t, "Constancia de residencia", got.ServiceName)
		assert.Equal(t, "Para trámite escolar", got.Description)
		assert.Equal(t, "Ana Gómez", got.CitizenName)
		require.Len(t, got.Documents, 1)
		assert.Equal(t, "domicilio.pdf", got.Documents[0].FileName)
		assert.Equal(t, "application/pdf", got.Documents[0].ContentType)
		assert.True(t, got.Complete)
	})

	t.Run("json submission without documents", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/tramites/solicitudes/", map[string]any{"tramite": f.procID.String()})
		rr := testutil.DoRequest(f.router, testutil.WithActor(req, f.citizen, id.RoleCitizen))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		got := testutil.UnmarshalResponse[ApplicationResponse](t, rr)
		assert.Empty(t, got.Documents)
		assert.False(t, got.Complete)
	})

	t.Run("procedure and program together are rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/tramites/solicitudes/", map[string]any{
			"tramite":  f.procID.String(),
			"programa": uuid.NewString(),
		})
		rr := testutil.DoRequest(f.router, testutil.WithActor(req, f.citizen, id.RoleCitizen))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("officials cannot submit", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/tramites/solicitudes/", map[string]any{"tramite": f.procID.String()})
		rr := testutil.DoRequest(f.router, testutil.WithActor(req, f.official, id.RoleOfficial))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})
}

func TestApplicationEndpoints(t *testing.T) {
	f := newFixture(t)
	app := f.submit(t, false)
	base := "/tramites/solicitudes/" + app.ID + "/"

	t.Run("list filters by status", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/solicitudes/?estatus=PENDIENTE,EN_REVISION"), f.official, id.RoleOfficial))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Len(t, *testutil.UnmarshalResponse[[]SummaryResponse](t, rr), 1)

		rr = testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/solicitudes/?estatus=APROBADO"), f.official, id.RoleOfficial))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Empty(t, *testutil.UnmarshalResponse[[]SummaryResponse](t, rr))

		rr = testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/solicitudes/?estatus=CERRADO"), f.official, id.RoleOfficial))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("other citizens get not found", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, base), id.UserID(uuid.New()), id.RoleCitizen))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	t.Run("upload then verify documentation", func(t *testing.T) {
		req := testutil.NewMultipartRequest(t, http.MethodPost, base+"documentos/",
			map[string]string{"requisito": f.reqDoc.ID.String()},
			map[string]testutil.File{"archivo": {Name: "domicilio.pdf", Content: testutil.PDF()}})
		rr := testutil.DoRequest(f.router, testutil.WithActor(req, f.citizen, id.RoleCitizen))
		testutil.AssertStatus(t, rr, http.StatusCreated)

		rr = testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, base+"verificar_documentacion/"), f.citizen, id.RoleCitizen))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[CompletenessResponse](t, rr)
		assert.True(t, got.Complete)
		assert.Equal(t, 1, got.Total)
		assert.Equal(t, 1, got.Uploaded)
		require.Len(t, got.Requirements, 1)
		assert.True(t, got.Requirements[0].Uploaded)
		require.NotNil(t, got.Requirements[0].Document)
	})

	t.Run("duplicate upload is a validation error", func(t *testing.T) {
		req := testutil.NewMultipartRequest(t, http.MethodPost, base+"documentos/",
			map[string]string{"requisito": f.reqDoc.ID.String()},
			map[string]testutil.File{"archivo": {Name: "otro.pdf", Content: testutil.PDF()}})
		rr := testutil.DoRequest(f.router, testutil.WithActor(req, f.citizen, id.RoleCitizen))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("change status", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, base+"cambiar_estatus/", map[string]string{
			"estatus":    "en_revision",
			"comentario": "Revisando documentos",
		})
		rr := testutil.DoRequest(f.router, testutil.WithActor(req, f.official, id.RoleOfficial))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[ApplicationResponse](t, rr)
		assert.Equal(t, string(id.StatusInReview), got.Status)
		assert.Equal(t, "Revisando documentos", got.Comments)

		req = testutil.NewJSONRequest(t, http.MethodPost, base+"cambiar_estatus/", map[string]string{"estatus": "EN_REVISION"})
		rr = testutil.DoRequest(f.router, testutil.WithActor(req, f.official, id.RoleOfficial))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, "Revisando documentos", testutil.UnmarshalResponse[ApplicationResponse](t, rr).Comments,
			"omitting the comment keeps the stored one")

		req = testutil.NewJSONRequest(t, http.MethodPost, base+"cambiar_estatus/", map[string]string{"estatus": "CERRADO"})
		rr = testutil.DoRequest(f.router, testutil.WithActor(req, f.official, id.RoleOfficial))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	t.Run("history starts with the current state", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, base+"historial/"), f.citizen, id.RoleCitizen))
		testutil.AssertStatus(t, rr, http.StatusOK)
		events := *testutil.UnmarshalResponse[[]HistoryEventResponse](t, rr)
		require.Len(t, events, 3)
		assert.True(t, events[0].Current)
		assert.Equal(t, string(id.StatusInReview), events[0].Status)
		assert.Equal(t, "Cambio", events[1].ChangeType)
		assert.Equal(t, "Creación", events[2].ChangeType)
		assert.Equal(t, "Sistema", events[2].ChangedBy)
	})

	t.Run("assignment", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/asignaciones/mis_asignaciones/"), f.official, id.RoleOfficial))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Empty(t, *testutil.UnmarshalResponse[[]AssignmentResponse](t, rr))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/tramites/asignaciones/asignar_solicitud/", map[string]string{
			"solicitud":   app.ID,
			"funcionario": uuid.NewString(),
		})
		rr = testutil.DoRequest(f.router, testutil.WithActor(req, f.admin, id.RoleAdministrator))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))

		req = testutil.NewJSONRequest(t, http.MethodPost, "/tramites/asignaciones/asignar_solicitud/", map[string]string{
			"solicitud":   app.ID,
			"funcionario": "no-es-uuid",
		})
		rr = testutil.DoRequest(f.router, testutil.WithActor(req, f.admin, id.RoleAdministrator))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))

		rr = testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, base), f.admin, id.RoleAdministrator))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Empty(t, testutil.UnmarshalResponse[ApplicationResponse](t, rr).Assignments)
	})

	t.Run("dashboard", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/dashboard/"), f.citizen, id.RoleCitizen))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[DashboardResponse](t, rr)
		assert.Equal(t, "Bienvenido, Ana", got.Welcome)
		assert.Len(t, got.Summary, len(id.Statuses))
		require.Len(t, got.Latest, 1)
		assert.Equal(t, app.Folio, got.Latest[0].Folio)
	})

	t.Run("statistics are for administrators", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/estadisticas/"), f.official, id.RoleOfficial))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	t.Run("malformed id", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/solicitudes/abc/"), f.admin, id.RoleAdministrator))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})
}

func TestTrendsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.submit(t, false)

	t.Run("daily series for the requested period", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/estadisticas/tendencias/?period=7days"), f.admin, id.RoleAdministrator))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[TrendsResponse](t, rr)
		assert.Equal(t, 7, got.Period)
		require.Len(t, got.Labels, 7)
		require.Len(t, got.Created, 7)
		assert.Len(t, got.Approved, 7)
		assert.Len(t, got.Rejected, 7)
		total := 0
		for _, n := range got.Created {
			total += n
		}
		assert.Equal(t, 1, total)
	})

	t.Run("period defaults to thirty days", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/estadisticas/tendencias/"), f.admin, id.RoleAdministrator))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Len(t, testutil.UnmarshalResponse[TrendsResponse](t, rr).Labels, 30)
	})

	t.Run("unsupported period", func(t *testing.T) {
		for _, period := range []string{"14", "semana"} {
			rr := testutil.DoRequest(f.router, testutil.WithActor(
				testutil.NewRequest(t, http.MethodGet, "/tramites/estadisticas/tendencias/?period="+period), f.admin, id.RoleAdministrator))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, string(dErrors.CodeValidation))
		}
	})

	t.Run("officials are refused", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.WithActor(
			testutil.NewRequest(t, http.MethodGet, "/tramites/estadisticas/tendencias/"), f.official, id.RoleOfficial))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})
}
