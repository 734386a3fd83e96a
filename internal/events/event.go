// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/jj8127/Appointment-Process-sub000/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Candidate Domain Events
// =============================================================================

// CandidateRegistered is published when a candidate profile is first created.
type CandidateRegistered struct {
	BaseEvent
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

func (e CandidateRegistered) EventName() string { return "candidates.registered" }

// CandidateStatusChanged is published whenever the stored onboarding status
// of a candidate moves, whatever the trigger.
type CandidateStatusChanged struct {
	BaseEvent
	Phone     string `json:"phone"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

func (e CandidateStatusChanged) EventName() string { return "candidates.status.changed" }

// ConsentSubmitted is published when a candidate submits the allowance consent.
type ConsentSubmitted struct {
	BaseEvent
	Phone       string `json:"phone"`
	Name        string `json:"name"`
	ConsentDate string `json:"consentDate"`
}

func (e ConsentSubmitted) EventName() string { return "candidates.consent.submitted" }

// CandidatePurged is published after an admin removes a candidate and all
// related records.
type CandidatePurged struct {
	BaseEvent
	Phone string `json:"phone"`
}

func (e CandidatePurged) EventName() string { return "candidates.purged" }

// =============================================================================
// Documents Domain Events
// =============================================================================

// DocumentUploaded is published when a candidate uploads a document file.
type DocumentUploaded struct {
	BaseEvent
	Phone    string `json:"phone"`
	DocType  string `json:"docType"`
	FileName string `json:"fileName"`
}

func (e DocumentUploaded) EventName() string { return "documents.uploaded" }

// DocumentSetApproved is published when the last pending document is approved
// and the candidate auto-advances.
type DocumentSetApproved struct {
	BaseEvent
	Phone string `json:"phone"`
}

func (e DocumentSetApproved) EventName() string { return "documents.set.approved" }

// DocumentRejected is published when a reviewer rejects a document.
type DocumentRejected struct {
	BaseEvent
	Phone   string `json:"phone"`
	DocType string `json:"docType"`
	Reason  string `json:"reason"`
}

func (e DocumentRejected) EventName() string { return "documents.rejected" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentConfirmed is published when an admin confirms an appointment
// date on one of the two tracks.
type AppointmentConfirmed struct {
	BaseEvent
	Phone string `json:"phone"`
	Track string `json:"track"`
	Date  string `json:"date"`
}

func (e AppointmentConfirmed) EventName() string { return "appointments.confirmed" }

// AppointmentRejected is published when an admin rejects a proposed
// appointment date.
type AppointmentRejected struct {
	BaseEvent
	Phone  string `json:"phone"`
	Track  string `json:"track"`
	Reason string `json:"reason"`
}

func (e AppointmentRejected) EventName() string { return "appointments.rejected" }

// =============================================================================
// Notification Domain Events
// =============================================================================

// NotificationOutboxDue is published by the scheduler when a notification
// outbox record should be processed.
type NotificationOutboxDue struct {
	BaseEvent
	OutboxID uuid.UUID `json:"outboxId"`
}

func (e NotificationOutboxDue) EventName() string { return "notification.outbox.due" }
