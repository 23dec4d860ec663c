package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type RouterOptions struct {
	Metrics http.Handler
	Checks  map[string]HealthCheck
}

// NewRouter registers every route. Route names key the security levels in
// config.EndpointSecurityConfig.
func NewRouter(h *Handler, auth *AuthMiddleware, opts RouterOptions) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger, auth.Handler)

	router.HandleFunc("/healthz", healthHandler(opts.Checks)).Methods(http.MethodGet).Name("Health")
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics).Methods(http.MethodGet).Name("Metrics")
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost).Name("Register")
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost).Name("Login")
	api.HandleFunc("/logout", h.Logout).Methods(http.MethodPost).Name("Logout")
	api.HandleFunc("/forgot-password", h.ForgotPassword).Methods(http.MethodPost).Name("ForgotPassword")
	api.HandleFunc("/reset-password", h.ResetPassword).Methods(http.MethodPost).Name("ResetPassword")
	api.HandleFunc("/set-password", h.SetPassword).Methods(http.MethodPost).Name("SetPassword")
	api.HandleFunc("/journals", h.ListJournals).Methods(http.MethodGet).Name("ListJournals")
	api.HandleFunc("/journals/{id}/editorial-team", h.ListEditorialTeam).Methods(http.MethodGet).Name("ListEditorialTeam")

	adm := api.PathPrefix("/adm").Subrouter()
	adm.HandleFunc("/registrations/pending", h.ListPendingRegistrations).Methods(http.MethodGet).Name("ListPendingRegistrations")
	adm.HandleFunc("/registrations/{id}/approve", h.ApproveRegistration).Methods(http.MethodPost).Name("ApproveRegistration")
	adm.HandleFunc("/registrations/{id}/reject", h.RejectRegistration).Methods(http.MethodPost).Name("RejectRegistration")
	adm.HandleFunc("/journals", h.CreateJournal).Methods(http.MethodPost).Name("CreateJournal")
	adm.HandleFunc("/people", h.CreatePerson).Methods(http.MethodPost).Name("CreatePerson")
	adm.HandleFunc("/assignments", h.AssignEditor).Methods(http.MethodPost).Name("AssignEditor")
	adm.HandleFunc("/assignments/{id}", h.SetAssignmentActive).Methods(http.MethodPatch).Name("SetAssignmentActive")
	adm.HandleFunc("/documents", h.DownloadDocument).Methods(http.MethodGet).Name("DownloadDocument")

	return router
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}
		writeJSON(w, status, report)
	}
}
