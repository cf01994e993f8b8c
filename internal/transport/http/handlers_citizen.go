package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	citizenmodels "nadra/internal/citizen/models"
	citizenservice "nadra/internal/citizen/service"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/httputil"
)

// dateFormat is the wire format for the date of birth.
const dateFormat = "2006-01-02"

type registerCitizenRequest struct {
	FullName      string `json:"full_name"`
	CNIC          string `json:"cnic"`
	FatherName    string `json:"father_name"`
	DateOfBirth   string `json:"date_of_birth"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	MaritalStatus string `json:"marital_status"`
	Nationality   string `json:"nationality,omitempty"`
	Alive         *bool  `json:"alive,omitempty"`
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "date_of_birth is required")
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "date_of_birth must be YYYY-MM-DD")
	}
	return t, nil
}

func (h *Handlers) handleRegisterCitizen(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}
	body, ok := httputil.DecodeJSON[registerCitizenRequest](w, r, h.logger, r.Context())
	if !ok {
		return
	}

	dob, err := parseDate(body.DateOfBirth)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	citizen, err := h.citizens.Register(r.Context(), claims, citizenmodels.RegistrationFields{
		FullName:      body.FullName,
		CNIC:          body.CNIC,
		FatherName:    body.FatherName,
		DateOfBirth:   dob,
		Gender:        body.Gender,
		Address:       body.Address,
		MaritalStatus: body.MaritalStatus,
		Nationality:   body.Nationality,
		Alive:         body.Alive,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, citizen)
}

func (h *Handlers) handleVerifyCitizen(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}

	citizen, err := h.citizens.VerifyByCNIC(r.Context(), claims, chi.URLParam(r, "cnic"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, citizen)
}

func (h *Handlers) handleGetCitizen(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}
	id, err := domain.ParseCitizenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	citizen, err := h.citizens.Get(r.Context(), claims, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, citizen)
}

func (h *Handlers) handleListCitizens(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}

	citizens, err := h.citizens.List(r.Context(), claims)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, citizens)
}

type updateCitizenRequest struct {
	FullName      string `json:"full_name"`
	CNIC          string `json:"cnic,omitempty"`
	FatherName    string `json:"father_name"`
	DateOfBirth   string `json:"date_of_birth"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	MaritalStatus string `json:"marital_status"`
	Nationality   string `json:"nationality"`
	Alive         bool   `json:"alive"`
}

func (h *Handlers) handleUpdateCitizen(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}
	id, err := domain.ParseCitizenID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	body, ok := httputil.DecodeJSON[updateCitizenRequest](w, r, h.logger, r.Context())
	if !ok {
		return
	}

	dob, err := parseDate(body.DateOfBirth)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	citizen, err := h.citizens.Update(r.Context(), claims, id, citizenservice.UpdateFields{
		FullName:      body.FullName,
		CNIC:          body.CNIC,
		FatherName:    body.FatherName,
		DateOfBirth:   dob,
		Gender:        body.Gender,
		Address:       body.Address,
		MaritalStatus: body.MaritalStatus,
		Nationality:   body.Nationality,
		Alive:         body.Alive,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, citizen)
}
