package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"noteswift/internal/admin"
	"noteswift/internal/auth"
	"noteswift/internal/authz"
)

// AdminHandler resolves the caller's authorization for each operation
// category before touching anything.
type AdminHandler struct {
	Svc *admin.Service
}

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if _, err := authz.Resolve(ident, authz.CategoryCreateAccount, ""); err != nil {
		writeError(w, err)
		return
	}

	var req createUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	id, err := h.Svc.CreateUser(r.Context(), admin.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     strings.TrimSpace(strings.ToLower(req.Role)),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if _, err := authz.Resolve(ident, authz.CategoryDeleteAccount, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	if err := h.Svc.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setRoleReq struct {
	Role string `json:"role"`
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if _, err := authz.Resolve(ident, authz.CategoryChangeRole, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	var req setRoleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := h.Svc.SetUserRole(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(strings.ToLower(req.Role))); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setPasswordReq struct {
	NewPassword string `json:"newPassword"`
}

func (h *AdminHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if _, err := authz.Resolve(ident, authz.CategoryChangePassword, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	var req setPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := h.Svc.UpdateUserPassword(r.Context(), chi.URLParam(r, "id"), req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if _, err := authz.Resolve(ident, authz.CategoryUpdateProfile, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	var req updateUsernameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := h.Svc.UpdateUsername(r.Context(), chi.URLParam(r, "id"), req.Username); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserNotes serves the admin user-detail view: every note owned by one
// account, trash included.
func (h *AdminHandler) ListUserNotes(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if _, err := authz.Resolve(ident, authz.CategoryViewDashboard, ""); err != nil {
		writeError(w, err)
		return
	}

	rows, err := h.Svc.UserNotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]noteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())
	if _, err := authz.Resolve(ident, authz.CategoryViewDashboard, ""); err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
