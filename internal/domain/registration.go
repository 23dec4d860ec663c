package domain

import (
	"io"

	"github.com/google/uuid"
)

// WorkflowState records how far a registration got, so a retried submission
// only runs the missing steps.
type WorkflowState string

const (
	WorkflowCreatedIdentity WorkflowState = "created_identity"
	WorkflowUploadedCV      WorkflowState = "uploaded_cv"
	WorkflowProfileWritten  WorkflowState = "profile_written"
	WorkflowPersonWritten   WorkflowState = "person_written"
	WorkflowLinked          WorkflowState = "linked"
)

var workflowOrder = map[WorkflowState]int{
	WorkflowCreatedIdentity: 1,
	WorkflowUploadedCV:      2,
	WorkflowProfileWritten:  3,
	WorkflowPersonWritten:   4,
	WorkflowLinked:          5,
}

// Reached reports whether s is at or past target.
func (s WorkflowState) Reached(target WorkflowState) bool {
	return workflowOrder[s] >= workflowOrder[target]
}

// Upload is an uploaded file as received from the client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type RegistrationInput struct {
	FirstName     string
	MiddleName    string
	LastName      string
	Title         string
	Email         string
	Phone         string
	Affiliation   string
	Position      string
	ORCID         string
	CV            *Upload
	TermsAccepted bool
}

type RegistrationResult struct {
	AccountID      uuid.UUID      `json:"account_id"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	Resumed        bool           `json:"resumed"`
	Message        string         `json:"message"`
}
