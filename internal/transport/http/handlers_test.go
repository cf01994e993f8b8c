package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	citizenservice "nadra/internal/citizen/service"
	citizenstore "nadra/internal/citizen/store"
	"nadra/internal/department"
	deptstore "nadra/internal/department/store"
	identityservice "nadra/internal/identity/service"
	identitystore "nadra/internal/identity/store"
	"nadra/internal/policy"
	"nadra/internal/token"
	"nadra/internal/token/revocation"
	requestservice "nadra/internal/updaterequest/service"
	requeststore "nadra/internal/updaterequest/store"
)

const (
	adminEmail    = "admin@nadra.example"
	adminPassword = "bootstrap-pass"
)

type HTTPSuite struct {
	suite.Suite
	server *httptest.Server

	adminToken   string
	officerToken string
	bankDeptID   string
}

func TestHTTPSuite(t *testing.T) {
	suite.Run(t, new(HTTPSuite))
}

func (s *HTTPSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.Default()

	citizens := citizenstore.NewInMemory()
	users := identitystore.NewInMemory()
	requests := requeststore.NewInMemory()
	departments := deptstore.NewInMemory()
	revocations := revocation.NewInMemory()

	origin, err := department.Seed(ctx, departments, logger)
	s.Require().NoError(err)
	pol := policy.New(origin)

	identitySvc := identityservice.NewService(users, departments, pol, nil, logger)
	s.Require().NoError(identitySvc.EnsureAdmin(ctx, adminEmail, adminPassword))

	tokenSvc := token.NewService(users, token.Config{
		SigningKey: []byte("test-signing-key-at-least-32-bytes"),
		Issuer:     "nadra",
		Audience:   "nadra-api",
		Expiry:     time.Hour,
	}, nil, logger)

	handlers := NewHandlers(
		tokenSvc,
		revocations,
		citizenservice.NewService(citizens, pol, nil, logger),
		identitySvc,
		requestservice.NewService(requests, citizens, departments, users, pol, nil, logger),
		departments,
		nil,
		logger,
	)
	s.server = httptest.NewServer(handlers.NewRouter())
	s.T().Cleanup(s.server.Close)

	s.adminToken = s.login(adminEmail, adminPassword)

	bank, err := departments.FindByName(ctx, "Bank")
	s.Require().NoError(err)
	s.bankDeptID = bank.ID.String()

	s.do(http.MethodPost, "/api/auth/register", s.adminToken, map[string]any{
		"email":         "officer@bank.example",
		"full_name":     "Bank Officer",
		"password":      "officer-pass",
		"role":          "DepartmentOfficer",
		"department_id": s.bankDeptID,
	}, http.StatusCreated)
	s.officerToken = s.login("officer@bank.example", "officer-pass")

	// Union Council officer for registration tests.
	uc, err := departments.FindByName(ctx, department.OriginDepartmentName)
	s.Require().NoError(err)
	s.do(http.MethodPost, "/api/auth/register", s.adminToken, map[string]any{
		"email":         "officer@uc.example",
		"full_name":     "Registry Officer",
		"password":      "officer-pass",
		"role":          "DepartmentOfficer",
		"department_id": uc.ID.String(),
	}, http.StatusCreated)
}

func (s *HTTPSuite) login(email, password string) string {
	body := s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	return body["token"].(string)
}

// do performs a request and decodes the JSON body, asserting the status.
func (s *HTTPSuite) do(method, path, bearer string, payload any, wantStatus int) map[string]any {
	s.T().Helper()

	var body *bytes.Buffer = bytes.NewBuffer(nil)
	if payload != nil {
		s.Require().NoError(json.NewEncoder(body).Encode(payload))
	}
	req, err := http.NewRequest(method, s.server.URL+path, body)
	s.Require().NoError(err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(wantStatus, resp.StatusCode, "%s %s", method, path)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// doList is do for endpoints returning a JSON array.
func (s *HTTPSuite) doList(method, path, bearer string, wantStatus int) []map[string]any {
	s.T().Helper()

	req, err := http.NewRequest(method, s.server.URL+path, nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+bearer)
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(wantStatus, resp.StatusCode, "%s %s", method, path)

	var out []map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *HTTPSuite) registerCitizen(token string, wantStatus int) map[string]any {
	return s.do(http.MethodPost, "/api/citizens", token, map[string]any{
		"full_name":     "Ali Khan",
		"cnic":          "12345-1234567-1",
		"father_name":   "Ahmed Khan",
		"date_of_birth": "1990-03-14",
		"gender":        "Male",
		"address":       "Lahore",
	}, wantStatus)
}

func (s *HTTPSuite) TestLoginFailures() {
	s.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    adminEmail,
		"password": "wrong",
	}, http.StatusUnauthorized)
}

func (s *HTTPSuite) TestProtectedRoutesRequireToken() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/citizens", nil)
	s.Require().NoError(err)
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HTTPSuite) TestCitizenLifecycle() {
	ucToken := s.login("officer@uc.example", "officer-pass")

	s.Run("bank officer cannot register citizens", func() {
		s.registerCitizen(s.officerToken, http.StatusForbidden)
	})

	created := s.registerCitizen(ucToken, http.StatusCreated)
	s.Equal("Pakistani", created["nationality"])
	s.Equal(true, created["alive"])

	s.Run("duplicate cnic conflicts", func() {
		s.registerCitizen(ucToken, http.StatusConflict)
	})

	s.Run("any officer verifies by cnic", func() {
		got := s.do(http.MethodGet, "/api/citizens/verify/12345-1234567-1", s.officerToken, nil, http.StatusOK)
		s.Equal("Ali Khan", got["full_name"])
	})

	s.Run("unknown cnic is 404", func() {
		s.do(http.MethodGet, "/api/citizens/verify/99999-9999999-9", s.officerToken, nil, http.StatusNotFound)
	})

	s.Run("listing is admin only", func() {
		s.doList(http.MethodGet, "/api/citizens", s.adminToken, http.StatusOK)
		s.do(http.MethodGet, "/api/citizens", s.officerToken, nil, http.StatusForbidden)
	})

	s.Run("admin direct edit rejects cnic change", func() {
		id := created["id"].(string)
		s.do(http.MethodPut, "/api/citizens/"+id, s.adminToken, map[string]any{
			"full_name":     "Ali Khan",
			"cnic":          "99999-9999999-9",
			"father_name":   "Ahmed Khan",
			"date_of_birth": "1990-03-14",
			"gender":        "Male",
			"address":       "Lahore",
			"nationality":   "Pakistani",
			"alive":         true,
		}, http.StatusBadRequest)
	})
}

func (s *HTTPSuite) TestChangeRequestWorkflow() {
	ucToken := s.login("officer@uc.example", "officer-pass")
	created := s.registerCitizen(ucToken, http.StatusCreated)
	citizenID := created["id"].(string)

	s.Run("immutable field is a 400 even for admin", func() {
		s.do(http.MethodPost, "/api/requests", s.adminToken, map[string]any{
			"citizen_id": citizenID,
			"field":      "CNIC",
			"new_value":  "99999-9999999-9",
		}, http.StatusBadRequest)
	})

	s.Run("admin cannot file a request for a mutable field", func() {
		s.do(http.MethodPost, "/api/requests", s.adminToken, map[string]any{
			"citizen_id": citizenID,
			"field":      "Address",
			"new_value":  "Karachi",
		}, http.StatusForbidden)
	})

	filed := s.do(http.MethodPost, "/api/requests", s.officerToken, map[string]any{
		"citizen_id": citizenID,
		"field":      "Address",
		"new_value":  "Karachi",
		"reason":     "holder moved",
	}, http.StatusCreated)
	requestID := filed["id"].(string)
	s.Equal("Pending", filed["status"])
	s.Equal("Lahore", filed["old_value"])

	s.Run("pending queue is admin only and enriched", func() {
		s.do(http.MethodGet, "/api/requests/pending", s.officerToken, nil, http.StatusForbidden)

		pending := s.doList(http.MethodGet, "/api/requests/pending", s.adminToken, http.StatusOK)
		s.Require().Len(pending, 1)
		s.Equal("Ali Khan", pending[0]["citizen_name"])
		s.Equal("Bank", pending[0]["department_name"])
	})

	s.Run("officer cannot adjudicate", func() {
		path := fmt.Sprintf("/api/requests/%s/approve", requestID)
		s.do(http.MethodPut, path, s.officerToken, nil, http.StatusForbidden)
	})

	s.Run("approval writes the field", func() {
		path := fmt.Sprintf("/api/requests/%s/approve", requestID)
		resolved := s.do(http.MethodPut, path, s.adminToken, nil, http.StatusOK)
		s.Equal("Approved", resolved["status"])

		got := s.do(http.MethodGet, "/api/citizens/verify/12345-1234567-1", s.adminToken, nil, http.StatusOK)
		s.Equal("Karachi", got["address"])
	})

	s.Run("second adjudication conflicts", func() {
		path := fmt.Sprintf("/api/requests/%s/reject", requestID)
		s.do(http.MethodPut, path, s.adminToken, nil, http.StatusConflict)
	})
}

func (s *HTTPSuite) TestLogoutRevokesToken() {
	s.do(http.MethodPost, "/api/auth/logout", s.officerToken, nil, http.StatusNoContent)
	s.do(http.MethodGet, "/api/citizens/verify/12345-1234567-1", s.officerToken, nil, http.StatusUnauthorized)
}

func (s *HTTPSuite) TestHealthz() {
	resp, err := s.server.Client().Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
