package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apphandler "portal/internal/applications/handler"
	appmetrics "portal/internal/applications/metrics"
	appservice "portal/internal/applications/service"
	appstore "portal/internal/applications/store"
	authhandler "portal/internal/auth/handler"
	authmetrics "portal/internal/auth/metrics"
	authservice "portal/internal/auth/service"
	"portal/internal/auth/store/revocation"
	userstore "portal/internal/auth/store/user"
	cataloghandler "portal/internal/catalog/handler"
	catalogservice "portal/internal/catalog/service"
	catalogstore "portal/internal/catalog/store"
	"portal/internal/citizens/curp"
	"portal/internal/citizens/fieldcrypt"
	citizenhandler "portal/internal/citizens/handler"
	citizenservice "portal/internal/citizens/service"
	citizenstore "portal/internal/citizens/store"
	jwttoken "portal/internal/jwt_token"
	notificationhandler "portal/internal/notifications/handler"
	"portal/internal/notifications/mailer"
	notificationmetrics "portal/internal/notifications/metrics"
	notificationservice "portal/internal/notifications/service"
	notificationstore "portal/internal/notifications/store"
	"portal/internal/platform/config"
	"portal/internal/platform/database"
	"portal/internal/platform/metrics"
	"portal/internal/platform/redis"
	ratelimitmetrics "portal/internal/ratelimit/metrics"
	ratelimit "portal/internal/ratelimit/middleware"
	ratelimitmodels "portal/internal/ratelimit/models"
	"portal/internal/ratelimit/store/bucket"
	httptransport "portal/internal/transport/http"
	"portal/internal/uploads"
	id "portal/pkg/domain"
	"portal/pkg/platform/audit"
	"portal/pkg/platform/audit/publisher"
	auditmemory "portal/pkg/platform/audit/store/memory"
	auditpostgres "portal/pkg/platform/audit/store/postgres"
	"portal/pkg/platform/circuit"
	"portal/pkg/platform/tx"
)

const (
	smtpTimeout = 15 * time.Second
	auditBuffer = 256
)

// backends are the external connections a process owns. Both are optional:
// without a database every store lives in memory, and without Redis the
// blacklist falls back to the database or memory.
type backends struct {
	db    *sql.DB
	redis *redis.Client
}

type app struct {
	router http.Handler
	auth   *authservice.Service
	// purger is set when revoked tokens live in Postgres and need pruning.
	purger *revocation.PostgresBlacklist
	audit  *publisher.Publisher
}

// close flushes queued audit events.
func (a *app) close() {
	a.audit.Close()
}

type stores struct {
	users         authservice.UserStore
	catalog       catalogservice.Store
	citizens      citizenservice.Store
	notifications notificationservice.Store
	applications  appservice.Store
	audit         audit.Store
	runner        tx.Runner
}

func newStores(db *sql.DB, sealer *fieldcrypt.Sealer) stores {
	if db != nil {
		return stores{
			users:         userstore.NewPostgres(db),
			catalog:       catalogstore.NewPostgres(db),
			citizens:      citizenstore.NewPostgres(db, sealer),
			notifications: notificationstore.NewPostgres(db),
			applications:  appstore.NewPostgres(db),
			audit:         auditpostgres.New(db),
			runner:        tx.NewSQLRunner(db),
		}
	}
	// Postgres gets its localities from a migration; memory needs them here.
	catalog := catalogstore.New()
	for _, l := range catalogstore.MacuspanaLocalities() {
		catalog.AddLocality(l)
	}
	return stores{
		users:         userstore.New(),
		catalog:       catalog,
		citizens:      citizenstore.New(),
		notifications: notificationstore.New(),
		applications:  appstore.New(),
		audit:         auditmemory.NewInMemoryStore(),
		runner:        tx.NoopRunner{},
	}
}

// citizenEmails breaks the construction cycle between the notification
// manager, which needs citizen addresses, and the citizen service, which
// sends its welcome email through the manager.
type citizenEmails struct {
	citizens *citizenservice.Service
}

func (c *citizenEmails) EmailForUser(ctx context.Context, userID id.UserID) (string, error) {
	return c.citizens.EmailForUser(ctx, userID)
}

func newSender(cfg config.EmailConfig, logger *slog.Logger) (mailer.Sender, error) {
	if !cfg.Enabled {
		return mailer.NewLogSender(logger), nil
	}
	return mailer.NewSMTP(mailer.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
		TLS:      cfg.TLS,
		Timeout:  smtpTimeout,
	})
}

func newLimiter(cfg config.RateLimitConfig, logger *slog.Logger, b backends, reg prometheus.Registerer) *ratelimit.Middleware {
	var store ratelimit.Store = bucket.NewInMemoryBucketStore()
	if b.redis != nil {
		store = bucket.NewRedisBucketStore(b.redis.Client)
	}
	return ratelimit.New(store,
		ratelimit.WithLogger(logger),
		ratelimit.WithMetrics(ratelimitmetrics.NewWithRegistry(reg)),
		ratelimit.WithDisabled(cfg.Disabled),
		ratelimit.WithLimit(ratelimitmodels.ClassCURP, ratelimitmodels.Limit{Requests: cfg.CURPPerMinute, Window: time.Minute}),
		ratelimit.WithLimit(ratelimitmodels.ClassLogin, ratelimitmodels.Limit{Requests: cfg.LoginPerMinute, Window: time.Minute}),
	)
}

// buildApp wires every bounded context. reg receives all Prometheus
// collectors so tests can use a private registry.
func buildApp(cfg config.Config, logger *slog.Logger, b backends, reg prometheus.Registerer) (*app, error) {
	sealer, err := fieldcrypt.NewFromHex(cfg.Crypto.FieldEncryptionKey, cfg.Crypto.FieldHashKey)
	if err != nil {
		return nil, fmt.Errorf("field encryption: %w", err)
	}
	st := newStores(b.db, sealer)
	a := &app{}

	var blacklist authservice.Blacklist
	switch {
	case b.redis != nil:
		blacklist = revocation.NewRedis(b.redis.Client)
	case b.db != nil:
		a.purger = revocation.NewPostgres(b.db)
		blacklist = a.purger
	default:
		blacklist = revocation.NewInMemory(time.Now)
	}

	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	a.audit = publisher.NewPublisher(st.audit,
		publisher.WithAsyncBuffer(auditBuffer),
		publisher.WithLogger(logger),
	)
	a.auth = authservice.New(st.users, blacklist, tokens,
		authservice.WithLogger(logger),
		authservice.WithMetrics(authmetrics.NewWithRegistry(reg)),
		authservice.WithAuditor(a.audit),
	)

	catalog := catalogservice.New(st.catalog, a.auth, catalogservice.WithLogger(logger))

	sender, err := newSender(cfg.Email, logger)
	if err != nil {
		return nil, fmt.Errorf("smtp sender: %w", err)
	}
	renderer, err := mailer.NewRenderer(cfg.Email.PortalURL)
	if err != nil {
		return nil, fmt.Errorf("email templates: %w", err)
	}
	emails := &citizenEmails{}
	notifications := notificationservice.New(st.notifications, a.auth, emails, catalog, sender, renderer,
		notificationservice.WithLogger(logger),
		notificationservice.WithMetrics(notificationmetrics.NewWithRegistry(reg)),
	)

	lookup := curp.NewClient(cfg.CURP.BaseURL, cfg.CURP.Timeout,
		curp.WithBreaker(circuit.New("curp")),
		curp.WithLogger(logger),
	)
	citizens := citizenservice.New(st.citizens, a.auth, catalog, lookup,
		citizenservice.WithLogger(logger),
		citizenservice.WithTxRunner(st.runner),
		citizenservice.WithWelcomeMailer(notifications),
	)
	emails.citizens = citizens

	files, err := uploads.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		return nil, fmt.Errorf("upload storage: %w", err)
	}
	applications := appservice.New(st.applications, catalog, citizens, a.auth, files, notifications,
		appservice.WithLogger(logger),
		appservice.WithMetrics(appmetrics.NewWithRegistry(reg)),
		appservice.WithTxRunner(st.runner),
		appservice.WithUploadPolicy(uploads.Policy{MaxBytes: cfg.Uploads.MaxBytes}),
	)

	limiter := newLimiter(cfg.Limits, logger, b, reg)

	health := map[string]httptransport.HealthCheck{}
	if b.db != nil {
		health["database"] = func(ctx context.Context) error { return database.Health(ctx, b.db) }
	}
	if b.redis != nil {
		health["redis"] = b.redis.Health
	}

	a.router = httptransport.NewRouter(httptransport.Config{
		Logger:      logger,
		Metrics:     metrics.NewWithRegistry(reg),
		Validator:   jwttoken.NewJWTServiceAdapter(tokens),
		Revocations: blacklist,
		Health:      health,
	},
		authhandler.New(a.auth, logger).WithThrottle(limiter.Limit(ratelimitmodels.ClassLogin)),
		cataloghandler.New(catalog, logger),
		citizenhandler.New(citizens, logger).WithThrottle(limiter.Limit(ratelimitmodels.ClassCURP)),
		notificationhandler.New(notifications, logger),
		apphandler.New(applications, logger).WithBodyLimit(8*cfg.Uploads.MaxBytes),
	)
	return a, nil
}

// seedAdmin creates the configured administrator if it does not exist yet.
func (a *app) seedAdmin(ctx context.Context, cfg config.SeedConfig, logger *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	created, err := a.auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("seed administrator: %w", err)
	}
	if created {
		logger.InfoContext(ctx, "administrator created", "username", cfg.AdminUsername)
	}
	return nil
}

// purgeRevoked prunes expired blacklist rows until ctx is done.
func (a *app) purgeRevoked(ctx context.Context, every time.Duration, logger *slog.Logger) {
	if a.purger == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.purger.PurgeExpired(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "failed to purge revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				logger.InfoContext(ctx, "purged revoked tokens", "count", n)
			}
		}
	}
}
