package http

import (
	"errors"
	"net/http"
	"strconv"

	"journal-directory-backend/internal/domain"
	"journal-directory-backend/internal/service"
	"journal-directory-backend/internal/session"
	"journal-directory-backend/internal/validation"
)

// multipartOverhead is the room left for form fields next to the CV.
const multipartOverhead = 1 << 20

type Services struct {
	Registration service.RegistrationService
	Approval     service.ApprovalService
	Activation   service.ActivationService
	Auth         service.AuthService
	Editorial    service.EditorialService
	Documents    service.DocumentService
}

type Handler struct {
	registration service.RegistrationService
	approval     service.ApprovalService
	activation   service.ActivationService
	auth         service.AuthService
	editorial    service.EditorialService
	documents    service.DocumentService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		registration: s.Registration,
		approval:     s.Approval,
		activation:   s.Activation,
		auth:         s.Auth,
		editorial:    s.Editorial,
		documents:    s.Documents,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register accepts the multipart registration form with the CV under "cv".
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxCVSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, fieldError("cv", "CV must be 5 MB or smaller"))
			return
		}
		writeError(w, r, fieldError("body", "Registration must be sent as multipart/form-data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	input := domain.RegistrationInput{
		FirstName:     r.FormValue("first_name"),
		MiddleName:    r.FormValue("middle_name"),
		LastName:      r.FormValue("last_name"),
		Title:         r.FormValue("title"),
		Email:         r.FormValue("email"),
		Phone:         r.FormValue("phone"),
		Affiliation:   r.FormValue("affiliation"),
		Position:      r.FormValue("position"),
		ORCID:         r.FormValue("orcid"),
		TermsAccepted: formBool(r.FormValue("terms_accepted")),
	}

	file, header, err := r.FormFile("cv")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		writeError(w, r, fieldError("cv", "Please upload your CV"))
		return
	default:
		defer file.Close()
		input.CV = &domain.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	}

	result, err := h.registration.SubmitRegistration(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func formBool(v string) bool {
	switch v {
	case "on", "yes":
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), requestToken(r, false)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageResponse{
		Message: "If an active account exists for that address, a reset link is on its way.",
	})
}

func (h *Handler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := h.activation.SetPassword(r.Context(), session.FromContext(r.Context()), req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Your password has been set. You can now sign in."})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	err := h.auth.ResetPassword(r.Context(), session.FromContext(r.Context()), req.Password, req.ConfirmPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Your password has been updated."})
}
