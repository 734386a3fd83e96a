// Package transport defines the request and response DTOs for documents.
package transport

import "time"

// RequestSetRequest replaces a candidate's requested document set. An empty
// Types list clears the request entirely.
type RequestSetRequest struct {
	Types    []string `json:"types" validate:"dive,min=1,max=100"`
	Deadline *string  `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

// ReviewRequest records a review decision for one document.
type ReviewRequest struct {
	DocType string  `json:"docType" validate:"required,max=100"`
	Status  string  `json:"status" validate:"required,oneof=approved rejected pending"`
	Reason  *string `json:"reason" validate:"omitempty,max=500"`
}

// DeleteFileRequest removes an uploaded file from a requested document.
type DeleteFileRequest struct {
	DocType string `json:"docType" validate:"required,max=100"`
}

// DocumentResponse is one requested document as seen by both sides.
type DocumentResponse struct {
	Type         string     `json:"type"`
	FileName     *string    `json:"fileName,omitempty"`
	Status       string     `json:"status"`
	StatusLabel  string     `json:"statusLabel"`
	Submitted    bool       `json:"submitted"`
	ReviewerNote *string    `json:"reviewerNote,omitempty"`
	UploadedAt   *time.Time `json:"uploadedAt,omitempty"`
	DownloadURL  string     `json:"downloadUrl,omitempty"`
}

// ListResponse is the full requested set plus the candidate's document
// phase summary.
type ListResponse struct {
	Status    string             `json:"status"`
	Deadline  *time.Time         `json:"deadline,omitempty"`
	Documents []DocumentResponse `json:"documents"`
}

// ReviewResponse reports the decision outcome including whether the full
// set auto-advanced.
type ReviewResponse struct {
	Status          string `json:"status"`
	ResultingStatus string `json:"resultingStatus"`
	AllApproved     bool   `json:"allApproved"`
}

// UploadResponse reports a stored upload.
type UploadResponse struct {
	Type            string `json:"type"`
	FileName        string `json:"fileName"`
	ResultingStatus string `json:"resultingStatus"`
}
