package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/httputil"
	request "portal/pkg/platform/middleware/request"
	"portal/pkg/requestcontext"
)

// JWTValidator validates access tokens.
type JWTValidator interface {
	ValidateAccessToken(tokenString string) (*JWTClaims, error)
}

// TokenRevocationChecker reports whether a token ID was blacklisted.
type TokenRevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID   string
	Username string
	Role     string
	JTI      string
}

var errNotAuthenticated = dErrors.New(dErrors.CodeUnauthorized, "token de acceso inválido o expirado")

// RequireAuth authenticates a bearer access token and stores user id,
// username, role and token id in the request context. revocationChecker may
// be nil.
func RequireAuth(validator JWTValidator, revocationChecker TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, reason, err := authenticate(r, validator, revocationChecker)
			if err != nil {
				level := slog.LevelWarn
				if dErrors.CodeOf(err) == dErrors.CodeInternal {
					level = slog.LevelError
				}
				logger.Log(ctx, level, "request not authenticated",
					"reason", reason,
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authenticate returns the enriched context, or a short reason for the log
// together with the error written to the client.
func authenticate(r *http.Request, validator JWTValidator, revocationChecker TokenRevocationChecker) (context.Context, string, error) {
	ctx := r.Context()
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return ctx, "missing bearer token", dErrors.New(dErrors.CodeUnauthorized, "falta el encabezado Authorization")
	}

	claims, err := validator.ValidateAccessToken(token)
	if err != nil {
		return ctx, err.Error(), errNotAuthenticated
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return ctx, "invalid subject claim", errNotAuthenticated
	}
	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return ctx, "invalid role claim", errNotAuthenticated
	}

	if revocationChecker != nil && claims.JTI != "" {
		revoked, err := revocationChecker.IsRevoked(ctx, claims.JTI)
		if err != nil {
			return ctx, "revocation lookup failed: " + err.Error(), dErrors.Wrap(err, dErrors.CodeInternal, "revocation lookup")
		}
		if revoked {
			return ctx, "token revoked " + claims.JTI, dErrors.New(dErrors.CodeUnauthorized, "el token fue revocado")
		}
	}

	ctx = requestcontext.WithUserID(ctx, userID)
	ctx = requestcontext.WithUsername(ctx, claims.Username)
	ctx = requestcontext.WithRole(ctx, role)
	ctx = requestcontext.WithTokenID(ctx, claims.JTI)
	return ctx, "", nil
}

// OptionalAuth lets requests without an Authorization header through as
// anonymous. A header that is present must carry a valid token.
func OptionalAuth(validator JWTValidator, revocationChecker TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authenticated := RequireAuth(validator, revocationChecker, logger)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			authenticated.ServeHTTP(w, r)
		})
	}
}
