// Package validation holds the input checks that run before any store or
// identity call is made.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxCVSize is the largest accepted CV upload (5 MiB).
	MaxCVSize int64 = 5 * 1024 * 1024
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8
)

var AllowedCVTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
	issnPattern  = regexp.MustCompile(`^\d{4}-\d{3}[\dX]$`)
)

// FieldError is a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every field problem found in one input.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Err returns nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func Required(errs *Errors, field, value, message string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, message)
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func ValidORCID(orcid string) bool {
	return orcidPattern.MatchString(orcid)
}

func ValidISSN(issn string) bool {
	return issnPattern.MatchString(issn)
}

// AllowedCVType reports whether the MIME type is PDF, DOC or DOCX.
func AllowedCVType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, allowed := range AllowedCVTypes {
		if ct == allowed {
			return true
		}
	}
	return false
}

// CVSizeOK reports whether a CV of the given size is accepted.
func CVSizeOK(size int64) bool {
	return size > 0 && size <= MaxCVSize
}

// PasswordProblems returns one specific message per unmet password rule.
// An empty result means the pair is acceptable.
func PasswordProblems(password, confirm string) Errors {
	var errs Errors
	if len(password) < MinPasswordLength {
		errs.Add("password", "Password must be at least 8 characters long")
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		errs.Add("password", "Password must contain at least one uppercase letter")
	}
	if !lower {
		errs.Add("password", "Password must contain at least one lowercase letter")
	}
	if !digit {
		errs.Add("password", "Password must contain at least one number")
	}
	if password != confirm {
		errs.Add("confirm_password", "Passwords do not match")
	}
	return errs
}
