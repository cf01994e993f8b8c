package httptransport

import (
	"net/http"

	identityservice "nadra/internal/identity/service"
	"nadra/pkg/domain"
	"nadra/pkg/platform/httputil"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int64    `json:"expires_in"`
	FullName  string   `json:"full_name"`
	Roles     []string `json:"roles"`
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, ok := httputil.DecodeJSON[loginRequest](w, r, h.logger, r.Context())
	if !ok {
		return
	}

	raw, claims, err := h.tokens.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	roles := make([]string, len(claims.Roles))
	for i, role := range claims.Roles {
		roles[i] = role.String()
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     raw,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokens.Expiry().Seconds()),
		FullName:  claims.FullName,
		Roles:     roles,
	})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}
	if h.revocations != nil && claims.TokenID != "" {
		if err := h.revocations.Revoke(r.Context(), claims.TokenID, claims.ExpiresAt); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to revoke token", "error", err)
			httputil.WriteError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

type registerAccountRequest struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
}

type registerAccountResponse struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Roles        []string `json:"roles"`
	DepartmentID *string  `json:"department_id,omitempty"`
}

func (h *Handlers) handleRegisterAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.mustClaims(w, r)
	if !ok {
		return
	}
	body, ok := httputil.DecodeJSON[registerAccountRequest](w, r, h.logger, r.Context())
	if !ok {
		return
	}

	user, err := h.identity.Register(r.Context(), claims, identityservice.RegisterParams{
		Email:        body.Email,
		FullName:     body.FullName,
		Password:     body.Password,
		Role:         body.Role,
		DepartmentID: body.DepartmentID,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := registerAccountResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    roleStrings(user.Roles),
	}
	if user.DepartmentID != nil {
		s := user.DepartmentID.String()
		resp.DepartmentID = &s
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func roleStrings(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}
