package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	citizenmodels "nadra/internal/citizen/models"
	citizenservice "nadra/internal/citizen/service"
	citizenstore "nadra/internal/citizen/store"
	"nadra/internal/policy"
	"nadra/pkg/domain"
	"nadra/pkg/testutil"
)

// newCitizenRouter wires just the citizen read routes without the auth
// middleware, so claims can be injected per request.
func newCitizenRouter(t *testing.T) (*chi.Mux, domain.DepartmentID) {
	t.Helper()

	origin := domain.NewDepartmentID()
	citizens := citizenstore.NewInMemory()
	citizen, err := citizenmodels.NewCitizen(domain.NewCitizenID(), citizenmodels.RegistrationFields{
		FullName:    "Ali Khan",
		CNIC:        "12345-1234567-1",
		DateOfBirth: time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC),
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, citizens.Create(context.Background(), citizen))

	h := &Handlers{
		citizens: citizenservice.NewService(citizens, policy.New(origin), nil, slog.Default()),
		logger:   slog.Default(),
	}
	r := chi.NewRouter()
	r.Get("/api/citizens", h.handleListCitizens)
	r.Get("/api/citizens/verify/{cnic}", h.handleVerifyCitizen)
	return r, origin
}

func TestHandlerErrorEnvelopes(t *testing.T) {
	router, origin := newCitizenRouter(t)

	t.Run("missing claims yields unauthorized envelope", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/citizens/verify/12345-1234567-1")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("malformed cnic yields validation envelope", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/citizens/verify/not-a-cnic")
		rr := testutil.DoRequest(router, testutil.WithClaims(req, testutil.OfficerClaims(origin)))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation")
	})

	t.Run("unknown cnic yields not_found envelope", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/citizens/verify/99999-9999999-9")
		rr := testutil.DoRequest(router, testutil.WithClaims(req, testutil.OfficerClaims(origin)))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("officer listing yields forbidden envelope", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/citizens")
		rr := testutil.DoRequest(router, testutil.WithClaims(req, testutil.OfficerClaims(origin)))
		testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
	})

	t.Run("verify succeeds with claims", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/api/citizens/verify/12345-1234567-1")
		rr := testutil.DoRequest(router, testutil.WithClaims(req, testutil.AdminClaims()))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "full_name", "Ali Khan")
	})
}
