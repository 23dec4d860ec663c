package service

import (
	"context"
	"errors"
	"fmt"

	"journal-directory-backend/internal/repository"
	"journal-directory-backend/internal/validation"
)

// Kind classifies a service failure. Callers branch on Kind, never on
// message text.
type Kind string

const (
	KindUnknown            Kind = "unknown"
	KindValidation         Kind = "validation"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAccountDeactivated Kind = "account_deactivated"
	KindRateLimited        Kind = "rate_limited"
	KindPermissionDenied   Kind = "permission_denied"
	KindUnauthenticated    Kind = "unauthenticated"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindInvalidTransition  Kind = "invalid_transition"
	KindUploadFailed       Kind = "upload_failed"
	KindPasswordReused     Kind = "password_reused"
	KindNotApproved        Kind = "not_approved"
	KindUnavailable        Kind = "unavailable"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  validation.Errors
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func validationError(fields validation.Errors) *Error {
	return &Error{Kind: KindValidation, Message: fields.Error(), Fields: fields}
}

// KindOf returns the kind of err, KindUnknown for foreign errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// storeError wraps a repository failure, keeping not-found and duplicate
// distinguishable.
func storeError(op string, err error) error {
	var se *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &se):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return newError(KindNotFound, op, err)
	case errors.Is(err, repository.ErrDuplicate):
		return newError(KindConflict, op, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return newError(KindUnavailable, op, err)
	default:
		return newError(KindUnknown, op, fmt.Errorf("%s: %w", op, err))
	}
}

// UserMessage returns the text shown to the end user for err.
func UserMessage(err error) string {
	switch KindOf(err) {
	case "":
		return ""
	case KindValidation:
		var se *Error
		if errors.As(err, &se) && len(se.Fields) > 0 {
			return se.Fields[0].Message
		}
		return "Please check the highlighted fields and try again."
	case KindInvalidCredentials:
		return "Invalid email or password."
	case KindAccountDeactivated:
		return "Your account is not active. If you recently registered, please wait for approval."
	case KindRateLimited:
		return "Too many attempts. Please wait a few minutes and try again."
	case KindPermissionDenied:
		return "You do not have permission to perform this action."
	case KindUnauthenticated:
		return "Your session has expired. Please sign in again."
	case KindNotFound:
		return "The requested record could not be found."
	case KindConflict:
		return "An account with this email already exists."
	case KindInvalidTransition:
		return "This application has already been decided and cannot be changed."
	case KindUploadFailed:
		return "Your CV could not be uploaded. Please try again."
	case KindPasswordReused:
		return "Please choose a password different from your current one."
	case KindNotApproved:
		return "Your registration has not been approved yet."
	case KindUnavailable:
		return "The service is temporarily unavailable. Please try again."
	case KindUnknown:
		return "Something went wrong. Please try again."
	}
	return "Something went wrong. Please try again."
}
