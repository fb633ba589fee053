package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	authmodels "portal/internal/auth/models"
	"portal/internal/notifications/mailer"
	"portal/internal/notifications/models"
	"portal/internal/notifications/service"
	"portal/internal/notifications/service/mocks"
	"portal/internal/notifications/store"
	id "portal/pkg/domain"
	"portal/pkg/testutil"
)

type fixture struct {
	router  http.Handler
	manager *service.Manager
	user    id.UserID
	other   id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := mocks.NewMockUsers(ctrl)
	users.EXPECT().GetUser(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, userID id.UserID) (*authmodels.User, error) {
			return &authmodels.User{ID: userID, Role: id.RoleOfficial, Active: true}, nil
		}).AnyTimes()
	renderer, err := mailer.NewRenderer("https://portal.example.com")
	require.NoError(t, err)

	f := &fixture{user: id.UserID(uuid.New()), other: id.UserID(uuid.New())}
	f.manager = service.New(store.New(), users, mocks.NewMockRecipientResolver(ctrl), mocks.NewMockStaff(ctrl),
		mailer.NewLogSender(logger), renderer, service.WithLogger(logger))
	r := chi.NewRouter()
	New(f.manager, logger).Register(r)
	f.router = r
	return f
}

func (f *fixture) notify(t *testing.T, userID id.UserID, title string) *models.Notification {
	t.Helper()
	n, err := f.manager.Create(context.Background(), models.Input{UserID: userID, Type: models.TypeSystem, Title: title, Message: "m"})
	require.NoError(t, err)
	return n
}

func TestNotificationEndpoints(t *testing.T) {
	f := newFixture(t)
	first := f.notify(t, f.user, "uno")
	f.notify(t, f.user, "dos")
	foreign := f.notify(t, f.other, "ajena")

	as := func(req *http.Request) *http.Request {
		return testutil.WithActor(req, f.user, id.RoleOfficial)
	}

	t.Run("unread count", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodGet, "/notificaciones/no_leidas_count/")))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, 2, testutil.UnmarshalResponse[CountResponse](t, rr).Count)
	})

	t.Run("mark one read twice", func(t *testing.T) {
		path := "/notificaciones/" + first.ID.String() + "/marcar_como_leida/"
		rr := testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodPost, path)))
		testutil.AssertStatus(t, rr, http.StatusOK)
		got := testutil.UnmarshalResponse[NotificationResponse](t, rr)
		assert.True(t, got.Read)
		require.NotNil(t, got.ReadAt)

		rr = testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodPost, path)))
		testutil.AssertStatus(t, rr, http.StatusOK)
		again := testutil.UnmarshalResponse[NotificationResponse](t, rr)
		require.NotNil(t, again.ReadAt)
		assert.True(t, got.ReadAt.Equal(*again.ReadAt))
	})

	t.Run("foreign notification", func(t *testing.T) {
		path := "/notificaciones/" + foreign.ID.String() + "/marcar_como_leida/"
		rr := testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodPost, path)))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("bad id", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodPost, "/notificaciones/nope/marcar_como_leida/")))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("list with read filter", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodGet, "/notificaciones/?leida=false")))
		testutil.AssertStatus(t, rr, http.StatusOK)
		list := *testutil.UnmarshalResponse[[]NotificationResponse](t, rr)
		require.Len(t, list, 1)
		assert.Equal(t, "dos", list[0].Title)
	})

	t.Run("invalid read filter", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodGet, "/notificaciones/?leida=quiza")))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("mark all read", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodPost, "/notificaciones/marcar_todas_como_leidas/")))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, 1, testutil.UnmarshalResponse[UpdatedResponse](t, rr).Updated)

		rr = testutil.DoRequest(f.router, as(testutil.NewRequest(t, http.MethodGet, "/notificaciones/no_leidas_count/")))
		assert.Equal(t, 0, testutil.UnmarshalResponse[CountResponse](t, rr).Count)
	})

	t.Run("anonymous", func(t *testing.T) {
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/notificaciones/"))
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})
}
