package handler

import (
	"context"
	"net/http"

	"github.com/ludik-gifts/backend/internal/auth"
	"github.com/ludik-gifts/backend/internal/domain"
	"github.com/ludik-gifts/backend/internal/logger"
)

// HeaderInitData carries the raw Telegram Mini App init-data string on
// every authenticated API request.
const HeaderInitData = "X-Telegram-Init-Data"

type contextKey string

const identityContextKey contextKey = "identity"

// AuthMiddleware verifies the init-data header and stores the resulting
// identity in the request context. Requests that fail verification are
// rejected before reaching any handler.
func AuthMiddleware(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := verifier.VerifyInitData(r.Header.Get(HeaderInitData))
			if err != nil {
				log := logger.FromContext(r.Context())
				log.Warn("Authentication failed",
					"path", r.URL.Path,
					"has_init_data", r.Header.Get(HeaderInitData) != "")
				respondError(w, http.StatusUnauthorized, ErrMsgAuthFailedError)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the authenticated identity placed by
// AuthMiddleware. ok is false on routes that skipped the middleware.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(domain.Identity)
	return identity, ok
}

// mustIdentity fetches the identity or writes a 401. A missing identity
// means a route was wired without AuthMiddleware, so it is also logged.
func mustIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Error("Handler reached without identity", "path", r.URL.Path)
		respondError(w, http.StatusUnauthorized, ErrMsgAuthFailedError)
		return domain.Identity{}, false
	}
	return identity, true
}
