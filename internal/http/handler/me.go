package handler

import (
	"encoding/json"
	"net/http"

	"noteswift/internal/admin"
	"noteswift/internal/auth"
	"noteswift/internal/authz"
)

type MeHandler struct {
	Identity *auth.Service
	Admin    *admin.Service
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if ident == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	acct, err := h.Identity.GetAccount(r.Context(), ident.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       acct.ID,
		"username": acct.Username,
		"email":    acct.Email,
		"role":     authz.EffectiveRole(ident.Claims).String(),
	})
}

type updateUsernameReq struct {
	Username string `json:"username"`
}

func (h *MeHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if ident == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := authz.Resolve(ident, authz.CategoryUpdateProfile, ident.AccountID); err != nil {
		writeError(w, err)
		return
	}

	var req updateUsernameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := h.Admin.UpdateUsername(r.Context(), ident.AccountID, req.Username); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordReq struct {
	NewPassword string `json:"newPassword"`
}

func (h *MeHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if ident == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := authz.Resolve(ident, authz.CategoryChangePassword, ident.AccountID); err != nil {
		writeError(w, err)
		return
	}

	var req changePasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := h.Admin.UpdateUserPassword(r.Context(), ident.AccountID, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
