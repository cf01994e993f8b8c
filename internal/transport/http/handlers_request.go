package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestservice "nadra/internal/updaterequest/service"
	"nadra/pkg/domain"
	"nadra/pkg/platform/httputil"
)

type createRequestRequest struct {
	CitizenID string `json:"citizen_id"`
	Field     string `json:"field"`
	NewValue  string `json:"new_value"`
	Reason    string `json:"reason,omitempty"`
}

func (h *Handlers) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}
	body, ok := httputil.DecodeJSON[createRequestRequest](w, r, h.logger, r.Context())
	if !ok {
		return
	}

	req, err := h.requests.Create(r.Context(), claims, requestservice.CreateParams{
		CitizenID: body.CitizenID,
		Field:     body.Field,
		NewValue:  body.NewValue,
		Reason:    body.Reason,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handlers) handleListPendingRequests(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}

	pending, err := h.requests.ListPending(r.Context(), claims)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pending)
}

func (h *Handlers) adjudicate(w http.ResponseWriter, r *http.Request, approve bool) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}
	id, err := domain.ParseRequestID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resolve := h.requests.Reject
	if approve {
		resolve = h.requests.Approve
	}
	resolved, err := resolve(r.Context(), claims, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resolved)
}

func (h *Handlers) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.adjudicate(w, r, true)
}

func (h *Handlers) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	h.adjudicate(w, r, false)
}
