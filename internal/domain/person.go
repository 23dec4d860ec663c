package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Person is the professional-identity record (people). UserID is nil for
// people entered by staff without a login.
type Person struct {
	ID             uuid.UUID  `json:"id"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	FirstName      string     `json:"first_name"`
	MiddleName     string     `json:"middle_name,omitempty"`
	LastName       string     `json:"last_name"`
	FullName       string     `json:"full_name"`
	Title          string     `json:"title,omitempty"`
	Suffix         string     `json:"suffix,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Affiliation    string     `json:"affiliation,omitempty"`
	Position       string     `json:"position,omitempty"`
	Department     string     `json:"department,omitempty"`
	Specialization []string   `json:"specialization,omitempty"`
	ORCID          string     `json:"orcid,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	PhotoURL       string     `json:"photo_url,omitempty"`
	CVURL          string     `json:"cv_url,omitempty"`
	IsAdmin        bool       `json:"is_admin"`
	IsActive       bool       `json:"is_active"`
	IsVerified     bool       `json:"is_verified"`
	CreatedAt      time.Time  `json:"created_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

// BuildFullName joins title, first, middle, last and suffix with single
// spaces, dropping empty parts.
func BuildFullName(title, first, middle, last, suffix string) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{title, first, middle, last, suffix} {
		if f := strings.Join(strings.Fields(p), " "); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// ComputeFullName refreshes FullName from the name parts.
func (p *Person) ComputeFullName() {
	p.FullName = BuildFullName(p.Title, p.FirstName, p.MiddleName, p.LastName, p.Suffix)
}
