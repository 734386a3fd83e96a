// Package transport defines the request and response DTOs for candidates.
package transport

import "time"

// RegisterIdentityRequest captures the candidate's basic identity. At least
// one of email or address must be present for the identity gate to pass,
// but registration itself accepts a partial profile.
type RegisterIdentityRequest struct {
	Phone       string  `json:"phone" validate:"required,min=10,max=20"`
	Name        string  `json:"name" validate:"required,max=50"`
	Affiliation string  `json:"affiliation" validate:"required,max=100"`
	ResidentID  string  `json:"residentId" validate:"required,min=7,max=14"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	Recommender *string `json:"recommender" validate:"omitempty,max=50"`
	CareerType  *string `json:"careerType" validate:"omitempty,oneof=new career"`
}

// IssueTempIDRequest assigns the temporary employee ID.
type IssueTempIDRequest struct {
	TempID string `json:"tempId" validate:"required,max=30"`
}

// UpdateProfileRequest is an admin partial edit of identity fields.
type UpdateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=50"`
	Affiliation *string `json:"affiliation" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	Recommender *string `json:"recommender" validate:"omitempty,max=50"`
	CareerType  *string `json:"careerType" validate:"omitempty,oneof=new career"`
}

// UpdateStatusRequest overrides the cached status directly. The derivation
// remains authoritative; an inconsistent override is corrected on the next
// read.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SubmitConsentRequest records the allowance consent submission.
type SubmitConsentRequest struct {
	ConsentDate string `json:"consentDate" validate:"required,datetime=2006-01-02"`
}

// ReviewConsentRequest approves or rejects the submitted consent.
type ReviewConsentRequest struct {
	Approve bool    `json:"approve"`
	Reason  *string `json:"reason" validate:"omitempty,max=500"`
}

// SetDocsDeadlineRequest sets or clears the document deadline.
type SetDocsDeadlineRequest struct {
	Deadline *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

// Badge mirrors the stage progress projection for clients.
type Badge struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// CandidateResponse is the detail view shared by both dashboards.
type CandidateResponse struct {
	Phone               string     `json:"phone"`
	Name                string     `json:"name"`
	Affiliation         string     `json:"affiliation"`
	ResidentIDMasked    string     `json:"residentIdMasked"`
	Email               *string    `json:"email,omitempty"`
	Address             *string    `json:"address,omitempty"`
	Recommender         *string    `json:"recommender,omitempty"`
	CareerType          *string    `json:"careerType,omitempty"`
	TempID              *string    `json:"tempId,omitempty"`
	Status              string     `json:"status"`
	StatusLabel         string     `json:"statusLabel"`
	ConsentDate         *string    `json:"consentDate,omitempty"`
	ConsentRejectReason *string    `json:"consentRejectReason,omitempty"`
	DocsDeadline        *time.Time `json:"docsDeadline,omitempty"`
	Step                int        `json:"step"`
	StepLabel           string     `json:"stepLabel"`
	AdminStep           int        `json:"adminStep"`
	AdminStepLabel      string     `json:"adminStepLabel"`
	Summary             Badge      `json:"summary"`
	DocProgress         Badge      `json:"docProgress"`
	LifeProgress        Badge      `json:"lifeProgress"`
	NonlifeProgress     Badge      `json:"nonlifeProgress"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// ListResponse is the admin dashboard list.
type ListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int                 `json:"total"`
}

// StatusResponse reports a mutation outcome.
type StatusResponse struct {
	Phone           string `json:"phone"`
	ResultingStatus string `json:"resultingStatus"`
}
