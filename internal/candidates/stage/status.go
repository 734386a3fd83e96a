// Package stage implements the pure onboarding derivation rules: the
// eleven-value status enum, the five-step derivation over persisted facts,
// and the display projections built on top of it. Nothing in this package
// touches storage; callers pass a snapshot in and get a decision out.
package stage

// Status is the fine-grained persisted onboarding status of a candidate.
// It is a cache of derived truth: every consumer must be prepared for the
// stored value to lag behind the facts and re-derive via Derive.
type Status string

const (
	StatusDraft                Status = "draft"
	StatusTempIDIssued         Status = "temp-id-issued"
	StatusAllowancePending     Status = "allowance-pending"
	StatusAllowanceConsented   Status = "allowance-consented"
	StatusDocsRequested        Status = "docs-requested"
	StatusDocsPending          Status = "docs-pending"
	StatusDocsSubmitted        Status = "docs-submitted"
	StatusDocsRejected         Status = "docs-rejected"
	StatusDocsApproved         Status = "docs-approved"
	StatusAppointmentCompleted Status = "appointment-completed"
	StatusFinalLinkSent        Status = "final-link-sent"
)

// statusOrder is the total order over statuses, earliest first.
var statusOrder = []Status{
	StatusDraft,
	StatusTempIDIssued,
	StatusAllowancePending,
	StatusAllowanceConsented,
	StatusDocsRequested,
	StatusDocsPending,
	StatusDocsSubmitted,
	StatusDocsRejected,
	StatusDocsApproved,
	StatusAppointmentCompleted,
	StatusFinalLinkSent,
}

// Rank returns the position of s in the status order. Unknown statuses
// rank below draft so that drifted or corrupted values never pass a gate.
func Rank(s Status) int {
	for i, v := range statusOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// AtLeast reports whether s has reached other in the status order.
func (s Status) AtLeast(other Status) bool {
	return Rank(s) >= Rank(other)
}

// IsValid reports whether s is one of the eleven known statuses.
func (s Status) IsValid() bool {
	return Rank(s) >= 0
}

// All returns every known status in order.
func All() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// StatusLabel returns the Korean display label for a status.
func StatusLabel(s Status) string {
	switch s {
	case StatusDraft:
		return "임시사번 미발급"
	case StatusTempIDIssued:
		return "임시사번 발급 완료"
	case StatusAllowancePending:
		return "수당동의 검토 중"
	case StatusAllowanceConsented:
		return "수당동의 승인 완료"
	case StatusDocsRequested:
		return "필수 서류 요청"
	case StatusDocsPending:
		return "서류 대기"
	case StatusDocsSubmitted:
		return "서류 제출됨"
	case StatusDocsRejected:
		return "서류 반려"
	case StatusDocsApproved:
		return "서류 승인 완료"
	case StatusAppointmentCompleted:
		return "위촉 완료(승인 대기)"
	case StatusFinalLinkSent:
		return "최종 완료"
	default:
		return string(s)
	}
}
