package service

import (
	"testing"

	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"
)

func doc(path string, status stage.DocStatus) stage.Document {
	return stage.Document{Type: "생명보험 합격증", StoragePath: path, Status: status}
}

func TestStatusAfterUpload(t *testing.T) {
	tests := []struct {
		name string
		docs []stage.Document
		want stage.Status
	}{
		{
			name: "some rows still missing a file",
			docs: []stage.Document{
				doc("a.pdf", stage.DocPending),
				doc("", stage.DocPending),
			},
			want: stage.StatusDocsPending,
		},
		{
			name: "deleted sentinel counts as missing",
			docs: []stage.Document{
				doc("a.pdf", stage.DocPending),
				doc(stage.DeletedSentinel, stage.DocPending),
			},
			want: stage.StatusDocsPending,
		},
		{
			name: "every requested row uploaded",
			docs: []stage.Document{
				doc("a.pdf", stage.DocPending),
				doc("b.pdf", stage.DocRejected),
			},
			want: stage.StatusDocsSubmitted,
		},
		{
			name: "empty set never counts as submitted",
			docs: nil,
			want: stage.StatusDocsPending,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusAfterUpload(tt.docs); got != tt.want {
				t.Errorf("StatusAfterUpload() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusAfterReviewApproval(t *testing.T) {
	complete := []stage.Document{
		doc("a.pdf", stage.DocApproved),
		doc("b.pdf", stage.DocApproved),
	}
	partial := []stage.Document{
		doc("a.pdf", stage.DocApproved),
		doc("b.pdf", stage.DocPending),
	}

	got, changed := StatusAfterReview(stage.StatusDocsSubmitted, stage.DocApproved, complete)
	if got != stage.StatusDocsApproved || !changed {
		t.Errorf("full approval should advance: got %v changed %v", got, changed)
	}

	got, changed = StatusAfterReview(stage.StatusDocsSubmitted, stage.DocApproved, partial)
	if got != stage.StatusDocsSubmitted || changed {
		t.Errorf("partial approval must not change status: got %v changed %v", got, changed)
	}
}

func TestStatusAfterReviewApprovalIsIdempotent(t *testing.T) {
	complete := []stage.Document{doc("a.pdf", stage.DocApproved)}

	got, changed := StatusAfterReview(stage.StatusDocsApproved, stage.DocApproved, complete)
	if got != stage.StatusDocsApproved {
		t.Errorf("status = %v, want docs-approved", got)
	}
	if changed {
		t.Errorf("re-approving an approved set must not report a transition")
	}
}

func TestStatusAfterReviewEmptyValidSetNeverAdvances(t *testing.T) {
	// Every row was soft-deleted; approval over an empty valid set is not
	// "fully approved".
	docs := []stage.Document{
		doc(stage.DeletedSentinel, stage.DocApproved),
		doc("", stage.DocPending),
	}
	got, changed := StatusAfterReview(stage.StatusDocsPending, stage.DocApproved, docs)
	if got != stage.StatusDocsPending || changed {
		t.Errorf("empty valid set advanced: got %v changed %v", got, changed)
	}
}

func TestStatusAfterReviewRejection(t *testing.T) {
	docs := []stage.Document{
		doc("a.pdf", stage.DocRejected),
		doc("b.pdf", stage.DocApproved),
	}

	// Rejection demotes from anywhere at or past docs-pending.
	for _, from := range []stage.Status{
		stage.StatusDocsSubmitted,
		stage.StatusDocsApproved,
		stage.StatusAppointmentCompleted,
	} {
		got, changed := StatusAfterReview(from, stage.DocRejected, docs)
		if got != stage.StatusDocsPending || !changed {
			t.Errorf("rejection from %v: got %v changed %v, want docs-pending", from, got, changed)
		}
	}

	// Already at docs-pending: no transition to report.
	got, changed := StatusAfterReview(stage.StatusDocsPending, stage.DocRejected, docs)
	if got != stage.StatusDocsPending || changed {
		t.Errorf("rejection at docs-pending: got %v changed %v", got, changed)
	}

	// Before the document phase the rejection leaves status alone.
	got, changed = StatusAfterReview(stage.StatusDocsRequested, stage.DocRejected, docs)
	if got != stage.StatusDocsRequested || changed {
		t.Errorf("rejection before docs-pending: got %v changed %v", got, changed)
	}
}

func TestStatusAfterReviewPendingResetIsSilent(t *testing.T) {
	docs := []stage.Document{doc("a.pdf", stage.DocPending)}
	got, changed := StatusAfterReview(stage.StatusDocsSubmitted, stage.DocPending, docs)
	if got != stage.StatusDocsSubmitted || changed {
		t.Errorf("pending reset changed status: got %v changed %v", got, changed)
	}
}
