package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// activeOnly reads ?active_only=, defaulting to true for public listings.
func activeOnly(r *http.Request) bool {
	v := r.URL.Query().Get("active_only")
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, fieldError(name, "Invalid identifier")
	}
	return id, nil
}

func (h *Handler) ListJournals(w http.ResponseWriter, r *http.Request) {
	journals, err := h.editorial.ListJournals(r.Context(), activeOnly(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, journals)
}

func (h *Handler) ListEditorialTeam(w http.ResponseWriter, r *http.Request) {
	journalID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	team, err := h.editorial.ListEditorialTeam(r.Context(), journalID, activeOnly(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}
