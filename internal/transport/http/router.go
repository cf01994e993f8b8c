// Package httptransport wires the HTTP surface: routing, middleware order
// and the translation between wire payloads and domain services.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	citizenservice "nadra/internal/citizen/service"
	"nadra/internal/department"
	identityservice "nadra/internal/identity/service"
	"nadra/internal/token"
	requestservice "nadra/internal/updaterequest/service"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/httputil"
	"nadra/pkg/platform/middleware/auth"
	"nadra/pkg/platform/middleware/logging"
	"nadra/pkg/platform/middleware/requestid"
	"nadra/pkg/platform/middleware/requesttime"
	"nadra/pkg/requestcontext"
)

// RevocationStore invalidates issued tokens on logout.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// HealthChecker reports backing-store health for the liveness endpoint.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handlers is the thin HTTP layer. It decodes, delegates to services and
// encodes; no business rules live here.
type Handlers struct {
	tokens      *token.Service
	revocations RevocationStore
	citizens    *citizenservice.Service
	identity    *identityservice.Service
	requests    *requestservice.Service
	departments department.Store
	health      []HealthChecker
	logger      *slog.Logger
}

func NewHandlers(
	tokens *token.Service,
	revocations RevocationStore,
	citizens *citizenservice.Service,
	identity *identityservice.Service,
	requests *requestservice.Service,
	departments department.Store,
	health []HealthChecker,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		tokens:      tokens,
		revocations: revocations,
		citizens:    citizens,
		identity:    identity,
		requests:    requests,
		departments: departments,
		health:      health,
		logger:      logger,
	}
}

// NewRouter assembles the full route table. Everything under /api except
// login requires a valid bearer token; finer-grained authorization lives in
// the policy checks inside the services.
func (h *Handlers) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(logging.Middleware(h.logger))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(h.tokens, h.revocations, h.logger))

			r.Post("/auth/register", h.handleRegisterAccount)
			r.Post("/auth/logout", h.handleLogout)

			r.Get("/departments", h.handleListDepartments)

			r.Get("/citizens", h.handleListCitizens)
			r.Post("/citizens", h.handleRegisterCitizen)
			r.Get("/citizens/verify/{cnic}", h.handleVerifyCitizen)
			r.Get("/citizens/{id}", h.handleGetCitizen)
			r.Put("/citizens/{id}", h.handleUpdateCitizen)

			r.Post("/requests", h.handleCreateRequest)
			r.Get("/requests/pending", h.handleListPendingRequests)
			r.Put("/requests/{id}/approve", h.handleApproveRequest)
			r.Put("/requests/{id}/reject", h.handleRejectRequest)
		})
	})

	return r
}

// mustClaims fetches the verified claims placed by the auth middleware. A
// miss means a protected route was wired outside the middleware, which is a
// programming error, surfaced as unauthorized rather than a panic.
func (h *Handlers) mustClaims(w http.ResponseWriter, r *http.Request) (domain.Claims, bool) {
	claims, ok := requestcontext.Claims(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "protected handler reached without claims",
			"path", r.URL.Path,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return domain.Claims{}, false
	}
	return claims, true
}

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	for _, hc := range h.health {
		if hc == nil {
			continue
		}
		if err := hc.Health(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.mustClaims(w, r); !ok {
		return
	}
	depts, err := h.departments.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list departments"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, depts)
}
