package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	authmodels "portal/internal/auth/models"
	"portal/internal/citizens/curp"
	"portal/internal/citizens/models"
	"portal/internal/citizens/service"
	"portal/internal/citizens/service/mocks"
	"portal/internal/citizens/store"
	id "portal/pkg/domain"
	"portal/pkg/testutil"
)

type fixture struct {
	router   http.Handler
	store    *store.InMemoryStore
	accounts *mocks.MockAccounts
	lookup   *mocks.MockCURPLookup
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		store:    store.New(),
		accounts: mocks.NewMockAccounts(ctrl),
		lookup:   mocks.NewMockCURPLookup(ctrl),
	}
	svc := service.New(f.store, f.accounts, mocks.NewMockLocalities(ctrl), f.lookup, service.WithLogger(logger))
	h := New(svc, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.Register(r)
	f.router = r
	return f
}

func (f *fixture) citizen(t *testing.T, curpValue, email string) *models.Citizen {
	t.Helper()
	c := &models.Citizen{
		ID:              id.CitizenID(uuid.New()),
		UserID:          id.UserID(uuid.New()),
		FirstName:       "Ana",
		PaternalSurname: "Gómez",
		BirthDate:       time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Sex:             models.SexFemale,
		CURP:            curpValue,
		Email:           email,
		Phone:           "9931234567",
		Street:          "Juárez",
		ExteriorNumber:  "12",
	}
	require.NoError(t, f.store.Create(context.Background(), c))
	return c
}

func registerBody() map[string]any {
	return map[string]any{
		"curp":             "GORA900517MTCMZN01",
		"nombre":           "Ana",
		"apellido_paterno": "Gómez",
		"apellido_materno": "Ruiz",
		"fecha_nacimiento": "1990-05-17",
		"sexo":             "F",
		"correo":           "ana@example.com",
		"telefono":         "9931234567",
		"calle":            "Juárez",
		"numero_exterior":  "12",
		"password":         "secreta123",
	}
}

func TestRegisterCreatesCitizen(t *testing.T) {
	f := newFixture(t)
	f.accounts.EXPECT().RegisterAccount(gomock.Any(), gomock.Any()).
		Return(&authmodels.User{ID: id.UserID(uuid.New()), Role: id.RoleCitizen}, nil)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/ciudadanos/registrar/", registerBody()))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	got := testutil.UnmarshalResponse[CitizenResponse](t, rr)
	assert.Equal(t, "GORA900517MTCMZN01", got.CURP)
	assert.Equal(t, "Ana Gómez Ruiz", got.FullName)
	assert.Equal(t, "1990-05-17", got.BirthDate)
}

func TestRegisterDuplicateCURPIsValidationError(t *testing.T) {
	f := newFixture(t)
	f.citizen(t, "GORA900517MTCMZN01", "otra@example.com")

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/ciudadanos/registrar/", registerBody()))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	body := testutil.UnmarshalErrorResponse(t, rr)
	assert.Equal(t, "validation_error", body["error"])
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "curp")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	f := newFixture(t)
	body := registerBody()
	body["password_confirmacion"] = "otra-cosa"

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/ciudadanos/registrar/", body))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}

func TestLookupCURPFailureIsBadRequest(t *testing.T) {
	f := newFixture(t)
	f.lookup.EXPECT().Lookup(gomock.Any(), "GORA900517MTCMZN01").
		Return(nil, &curp.LookupError{Category: curp.CategoryTimeout, Message: "deadline exceeded"})

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/ciudadanos/consultar-curp/?curp=GORA900517MTCMZN01"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestVerifyCURP(t *testing.T) {
	f := newFixture(t)
	f.citizen(t, "GORA900517MTCMZN01", "ana@example.com")

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/ciudadanos/verificar-curp/?curp=PELJ850101HTCRPN02"))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/ciudadanos/verificar-curp/?curp=GORA900517MTCMZN01"))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}

func TestProfileAndOwnership(t *testing.T) {
	f := newFixture(t)
	ana := f.citizen(t, "GORA900517MTCMZN01", "ana@example.com")
	juan := f.citizen(t, "PELJ850101HTCRPN02", "juan@example.com")

	req := testutil.WithActor(testutil.NewRequest(t, http.MethodGet, "/ciudadanos/perfil/"), ana.UserID, id.RoleCitizen)
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, ana.ID.String(), testutil.UnmarshalResponse[CitizenResponse](t, rr).ID)

	req = testutil.WithActor(testutil.NewRequest(t, http.MethodGet, "/ciudadanos/actualizar/"+ana.ID.String()+"/"), juan.UserID, id.RoleCitizen)
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")

	req = testutil.WithActor(testutil.NewRequest(t, http.MethodGet, "/ciudadanos/lista/"), ana.UserID, id.RoleCitizen)
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
}

func TestUpdateContactFields(t *testing.T) {
	f := newFixture(t)
	ana := f.citizen(t, "GORA900517MTCMZN01", "ana@example.com")

	req := testutil.NewJSONRequest(t, http.MethodPatch, "/ciudadanos/actualizar/"+ana.ID.String()+"/", map[string]any{
		"telefono": "9937654321",
		"calle":    "Reforma",
	})
	rr := testutil.DoRequest(f.router, testutil.WithActor(req, ana.UserID, id.RoleCitizen))
	testutil.AssertStatus(t, rr, http.StatusOK)
	got := testutil.UnmarshalResponse[CitizenResponse](t, rr)
	assert.Equal(t, "9937654321", got.Phone)
	assert.Equal(t, "Reforma", got.Street)
	assert.Equal(t, "ana@example.com", got.Email)
}
