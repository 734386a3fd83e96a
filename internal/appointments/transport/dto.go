// Package transport defines the request and response DTOs for appointments.
package transport

// ScheduleRequest sets the free-text schedule for one track.
type ScheduleRequest struct {
	Track    string  `json:"track" validate:"required,oneof=life nonlife"`
	Schedule *string `json:"schedule" validate:"omitempty,max=200"`
	Notify   bool    `json:"notify"`
}

// ConfirmRequest confirms the authoritative date for one track.
type ConfirmRequest struct {
	Track string `json:"track" validate:"required,oneof=life nonlife"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

// RejectRequest rejects a track's proposed date.
type RejectRequest struct {
	Track  string  `json:"track" validate:"required,oneof=life nonlife"`
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// SubmitDateRequest records the candidate's own proposed date. Advisory
// only; an admin confirmation stays authoritative.
type SubmitDateRequest struct {
	Track string `json:"track" validate:"required,oneof=life nonlife"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
}

// TrackResponse is one track's state.
type TrackResponse struct {
	Track        string `json:"track"`
	Schedule     string `json:"schedule,omitempty"`
	Confirmed    string `json:"confirmedDate,omitempty"`
	Advisory     string `json:"submittedDate,omitempty"`
	RejectReason string `json:"rejectReason,omitempty"`
	ProgressKey  string `json:"progressKey"`
	Progress     string `json:"progress"`
}

// StateResponse is the dual-track appointment view for a candidate.
type StateResponse struct {
	Status  string        `json:"status"`
	Life    TrackResponse `json:"life"`
	Nonlife TrackResponse `json:"nonlife"`
}

// OperationResponse reports a mutation outcome.
type OperationResponse struct {
	Track           string `json:"track"`
	ResultingStatus string `json:"resultingStatus"`
}
