package service

import "github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"

// TrackLabel returns the Korean display name for a track.
func TrackLabel(track stage.Track) string {
	if track == stage.TrackLife {
		return "생명보험"
	}
	return "손해보험"
}

// NextStatusAfterConfirm recomputes the overall status once a track's
// confirmed date is written: both tracks confirmed is terminal, a single
// confirmation is the partial state.
func NextStatusAfterConfirm(dateLife, dateNonlife string) stage.Status {
	if dateLife != "" && dateNonlife != "" {
		return stage.StatusFinalLinkSent
	}
	return stage.StatusAppointmentCompleted
}

// NextStatusAfterReject is the post-rejection status. Rejecting either
// track invalidates the dual-confirmation claim, so the candidate always
// returns to the pre-appointment gate even when the other track remains
// confirmed.
func NextStatusAfterReject() stage.Status {
	return stage.StatusDocsApproved
}

// CanOperate reports whether appointment operations are valid for the
// candidate's current status. Operations on a candidate still in document
// review are invalid requests, not no-ops.
func CanOperate(status stage.Status) bool {
	return status.AtLeast(stage.StatusDocsApproved)
}

// TrackState is one track's field view after an operation.
type TrackState struct {
	Schedule     string
	Confirmed    string
	Advisory     string
	RejectReason string
}

// trackState extracts a track's fields from the profile snapshot.
func trackState(p stage.Profile, track stage.Track) TrackState {
	if track == stage.TrackLife {
		return TrackState{Schedule: p.ScheduleLife, Confirmed: p.DateLife, Advisory: p.DateLifeSub}
	}
	return TrackState{Schedule: p.ScheduleNonlife, Confirmed: p.DateNonlife, Advisory: p.DateNonlifeSub}
}
