package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"noteswift/internal/auth"
	"noteswift/internal/note"
)

type NoteHandler struct {
	Svc *note.Service
}

type noteDTO struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Tags        []string   `json:"tags"`
	Summary     string     `json:"summary"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ReminderSet bool       `json:"reminderSet"`
	ReminderAt  *time.Time `json:"reminderAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

func toDTO(n *note.Note) noteDTO {
	return noteDTO{
		ID:          n.ID,
		UserID:      n.OwnerID,
		Title:       n.Title,
		Content:     n.Content,
		Tags:        []string(n.Tags),
		Summary:     n.Summary,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
		ReminderSet: n.ReminderSet,
		ReminderAt:  n.ReminderAt,
		DeletedAt:   n.DeletedAt,
	}
}

type noteReq struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	ReminderAt *string  `json:"reminderAt"` // RFC3339 optional
}

func parseReminderAt(raw *string) (*time.Time, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	var req noteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		http.Error(w, "title required", http.StatusBadRequest)
		return
	}
	remindAt, ok := parseReminderAt(req.ReminderAt)
	if !ok {
		http.Error(w, "invalid reminderAt (RFC3339)", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.Create(r.Context(), ident.AccountID, note.CreateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		ReminderAt: remindAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(n))
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	f := note.ListFilter{
		Tag:     strings.TrimSpace(strings.ToLower(r.URL.Query().Get("tag"))),
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		Deleted: r.URL.Query().Get("deleted") == "true",
	}

	rows, err := h.Svc.List(r.Context(), ident.AccountID, f)
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

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	n, err := h.Svc.Get(r.Context(), ident.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(n))
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	var req noteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		http.Error(w, "title required", http.StatusBadRequest)
		return
	}
	remindAt, ok := parseReminderAt(req.ReminderAt)
	if !ok {
		http.Error(w, "invalid reminderAt (RFC3339)", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.Update(r.Context(), ident.AccountID, chi.URLParam(r, "id"), note.UpdateNoteInput{
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		ReminderAt: remindAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(n))
}

// Delete moves the note to the trash.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.SoftDelete(r.Context(), ident.AccountID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.Restore(r.Context(), ident.AccountID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Purge removes the document for good.
func (h *NoteHandler) Purge(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.PermanentDelete(r.Context(), ident.AccountID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reminderReq struct {
	ReminderAt string `json:"reminderAt"` // RFC3339
}

func (h *NoteHandler) SetReminder(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	var req reminderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	at, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ReminderAt))
	if err != nil {
		http.Error(w, "invalid reminderAt (RFC3339)", http.StatusBadRequest)
		return
	}

	if err := h.Svc.SetReminder(r.Context(), ident.AccountID, chi.URLParam(r, "id"), at); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoteHandler) ClearReminder(w http.ResponseWriter, r *http.Request) {
	ident, _ := auth.IdentityFromContext(r.Context())

	if err := h.Svc.ClearReminder(r.Context(), ident.AccountID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
