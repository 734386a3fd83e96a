package service

import (
	"testing"

	"github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"
)

func TestNextStatusAfterConfirm(t *testing.T) {
	tests := []struct {
		name        string
		dateLife    string
		dateNonlife string
		want        stage.Status
	}{
		{"only life confirmed", "2025-03-01", "", stage.StatusAppointmentCompleted},
		{"only nonlife confirmed", "", "2025-03-01", stage.StatusAppointmentCompleted},
		{"both confirmed", "2025-03-01", "2025-03-08", stage.StatusFinalLinkSent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStatusAfterConfirm(tt.dateLife, tt.dateNonlife); got != tt.want {
				t.Errorf("NextStatusAfterConfirm(%q, %q) = %v, want %v", tt.dateLife, tt.dateNonlife, got, tt.want)
			}
		})
	}
}

func TestNextStatusAfterRejectAlwaysRevertsToDocsApproved(t *testing.T) {
	// Rejecting either track drops the candidate back to the gate even when
	// the other track keeps its confirmed date.
	if got := NextStatusAfterReject(); got != stage.StatusDocsApproved {
		t.Errorf("NextStatusAfterReject() = %v, want docs-approved", got)
	}
}

func TestConfirmedDatesUsesJustWrittenValue(t *testing.T) {
	p := stage.Profile{DateLife: "", DateNonlife: "2025-02-20"}

	life, nonlife := confirmedDates(p, stage.TrackLife, "2025-03-01")
	if life != "2025-03-01" || nonlife != "2025-02-20" {
		t.Errorf("confirmedDates life track: got (%q, %q)", life, nonlife)
	}
	if NextStatusAfterConfirm(life, nonlife) != stage.StatusFinalLinkSent {
		t.Errorf("second confirmation should reach the terminal status")
	}

	life, nonlife = confirmedDates(stage.Profile{}, stage.TrackNonlife, "2025-03-01")
	if life != "" || nonlife != "2025-03-01" {
		t.Errorf("confirmedDates nonlife track: got (%q, %q)", life, nonlife)
	}
}

func TestCanOperate(t *testing.T) {
	allowed := []stage.Status{
		stage.StatusDocsApproved,
		stage.StatusAppointmentCompleted,
		stage.StatusFinalLinkSent,
	}
	for _, s := range allowed {
		if !CanOperate(s) {
			t.Errorf("CanOperate(%v) = false, want true", s)
		}
	}

	denied := []stage.Status{
		stage.StatusDraft,
		stage.StatusAllowanceConsented,
		stage.StatusDocsRequested,
		stage.StatusDocsSubmitted,
		stage.StatusDocsRejected,
	}
	for _, s := range denied {
		if CanOperate(s) {
			t.Errorf("CanOperate(%v) = true, want false", s)
		}
	}
}

func TestTrackState(t *testing.T) {
	p := stage.Profile{
		ScheduleLife:   "3월 1차",
		DateLife:       "2025-03-01",
		DateNonlifeSub: "2025-03-15",
	}

	life := trackState(p, stage.TrackLife)
	if life.Schedule != "3월 1차" || life.Confirmed != "2025-03-01" || life.Advisory != "" {
		t.Errorf("life state = %+v", life)
	}

	nonlife := trackState(p, stage.TrackNonlife)
	if nonlife.Schedule != "" || nonlife.Confirmed != "" || nonlife.Advisory != "2025-03-15" {
		t.Errorf("nonlife state = %+v", nonlife)
	}
}
