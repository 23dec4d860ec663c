package http

import (
	"io"
	"net/http"
	"strconv"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/logger"
	"journal-directory-backend/internal/session"
)

type rejectRequest struct {
	Reason string `json:"reason"`
}

type assignmentPatch struct {
	IsActive *bool `json:"is_active"`
}

func (h *Handler) ListPendingRegistrations(w http.ResponseWriter, r *http.Request) {
	apps, err := h.approval.ListPending(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *Handler) ApproveRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.approval.Approve(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) RejectRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	account, err := h.approval.Reject(r.Context(), session.FromContext(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (h *Handler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	var journal domain.Journal
	if err := decodeJSON(r, &journal); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.editorial.CreateJournal(r.Context(), session.FromContext(r.Context()), &journal); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, journal)
}

func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var person domain.Person
	if err := decodeJSON(r, &person); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.editorial.CreatePerson(r.Context(), session.FromContext(r.Context()), &person); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

func (h *Handler) AssignEditor(w http.ResponseWriter, r *http.Request) {
	var assignment domain.EditorialAssignment
	if err := decodeJSON(r, &assignment); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.editorial.AssignEditor(r.Context(), session.FromContext(r.Context()), &assignment); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) SetAssignmentActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req assignmentPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.IsActive == nil {
		writeError(w, r, fieldError("is_active", "is_active is required"))
		return
	}
	if err := h.editorial.SetAssignmentActive(r.Context(), session.FromContext(r.Context()), id, *req.IsActive); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DownloadDocument streams a stored CV to an operator.
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, r, fieldError("key", "Missing key parameter"))
		return
	}

	doc, err := h.documents.OpenDocument(r.Context(), session.FromContext(r.Context()), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer doc.Body.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(doc.Name))
	w.Header().Set("Cache-Control", "private, no-store")
	if _, err := io.Copy(w, doc.Body); err != nil {
		logger.Warn("Document download interrupted", "key", key, "error", err)
	}
}
