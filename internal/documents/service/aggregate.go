package service

import "github.com/jj8127/Appointment-Process-sub000/internal/candidates/stage"

// StatusAfterUpload decides the candidate's document phase after an upload:
// docs-submitted once every requested row carries a file, docs-pending while
// any row is still missing one.
func StatusAfterUpload(docs []stage.Document) stage.Status {
	if len(docs) == 0 {
		return stage.StatusDocsPending
	}
	for _, d := range docs {
		if !d.Submitted() {
			return stage.StatusDocsPending
		}
	}
	return stage.StatusDocsSubmitted
}

// StatusAfterReview decides the candidate status following a single review
// decision, given the full document set re-read at decision time. The
// returned bool reports whether the status actually changes; the approval
// notification fires only on a real transition, so re-approving an already
// approved set stays silent.
func StatusAfterReview(current stage.Status, decision stage.DocStatus, docs []stage.Document) (stage.Status, bool) {
	switch decision {
	case stage.DocApproved:
		if stage.AllApproved(docs) {
			return stage.StatusDocsApproved, current != stage.StatusDocsApproved
		}
		return current, false
	case stage.DocRejected:
		// A rejection always drops an approved-looking profile back into
		// the document phase; a candidate not yet past docs-pending keeps
		// its current status.
		if current.AtLeast(stage.StatusDocsPending) {
			return stage.StatusDocsPending, current != stage.StatusDocsPending
		}
		return current, false
	default:
		return current, false
	}
}
