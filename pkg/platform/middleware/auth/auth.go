// Package auth provides the bearer-token middleware guarding every protected
// route. It verifies the token, checks the revocation list, and makes the
// verified claims available to handlers through the request context.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/httputil"
	"nadra/pkg/requestcontext"
)

// TokenVerifier validates a presented token and returns the verified claims.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (domain.Claims, error)
}

// RevocationChecker reports whether a token was invalidated before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RequireAuth rejects requests without a valid bearer token. The checker may
// be nil when revocation is not configured.
func RequireAuth(verifier TokenVerifier, checker RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || raw == "" {
				logger.WarnContext(ctx, "unauthorized access, missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := verifier.Verify(ctx, raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			if checker != nil {
				if claims.TokenID == "" {
					logger.WarnContext(ctx, "unauthorized access, token missing id",
						"request_id", requestcontext.RequestID(ctx),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
					return
				}
				revoked, err := checker.IsRevoked(ctx, claims.TokenID)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
					httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate token"))
					return
				}
				if revoked {
					logger.WarnContext(ctx, "unauthorized access, token revoked",
						"token_id", claims.TokenID,
						"request_id", requestcontext.RequestID(ctx),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "token has been revoked"))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithClaims(ctx, claims)))
		})
	}
}
