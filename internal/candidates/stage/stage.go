package stage

// Step is the coarse-grained derived progress bucket, 1 through 5.
type Step int

const (
	StepIdentity    Step = 1 // basic identity capture
	StepConsent     Step = 2 // allowance consent review
	StepDocuments   Step = 3 // document submission and approval
	StepAppointment Step = 4 // dual-track appointment confirmation
	StepComplete    Step = 5 // terminal
)

// DeletedSentinel marks a document row whose file was removed. A row
// carrying it is logically absent even though it still exists for audit.
const DeletedSentinel = "deleted"

// DocStatus is the review status of a single document row.
type DocStatus string

const (
	DocPending  DocStatus = "pending"
	DocApproved DocStatus = "approved"
	DocRejected DocStatus = "rejected"
)

// Profile is the candidate snapshot the derivation reads. Appointment
// fields are included because the display projections need them; Derive
// itself deliberately ignores them (a confirmed date must never promote a
// candidate past an unmet earlier gate).
type Profile struct {
	Name             string
	Affiliation      string
	ResidentIDMasked string
	Email            string
	Address          string
	TempID           string
	Status           Status

	ScheduleLife    string
	ScheduleNonlife string
	DateLife        string
	DateNonlife     string
	DateLifeSub     string
	DateNonlifeSub  string
}

// Document is the per-row view the derivation needs.
type Document struct {
	Type        string
	StoragePath string
	Status      DocStatus
}

// Submitted reports whether this row counts as an actual upload:
// storage path present and not the deleted sentinel.
func (d Document) Submitted() bool {
	return d.StoragePath != "" && d.StoragePath != DeletedSentinel
}

// ValidDocuments filters to the submitted rows.
func ValidDocuments(docs []Document) []Document {
	valid := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.Submitted() {
			valid = append(valid, d)
		}
	}
	return valid
}

// AllApproved reports whether the valid set is non-empty and every member
// is approved. An empty set is never "fully approved".
func AllApproved(docs []Document) bool {
	valid := ValidDocuments(docs)
	if len(valid) == 0 {
		return false
	}
	for _, d := range valid {
		if d.Status != DocApproved {
			return false
		}
	}
	return true
}

// hasBasicInfo mirrors the identity gate: name, affiliation and masked
// resident ID are required, plus at least one of email or address.
func hasBasicInfo(p Profile) bool {
	return p.Name != "" && p.Affiliation != "" && p.ResidentIDMasked != "" &&
		(p.Email != "" || p.Address != "")
}

// Derive computes the candidate's step from persisted facts. Pure, total,
// and evaluated in strict priority order: a later-stage fact (a confirmed
// appointment, a terminal status) never wins while an earlier gate is unmet.
func Derive(p Profile, docs []Document) Step {
	if !hasBasicInfo(p) {
		return StepIdentity
	}

	if !p.Status.AtLeast(StatusAllowanceConsented) {
		return StepConsent
	}

	if !AllApproved(docs) {
		return StepDocuments
	}

	if p.Status != StatusFinalLinkSent {
		return StepAppointment
	}

	return StepComplete
}

// AdminStep projects the derived step onto the four-step administrator
// scale. Candidates without captured identity map to step 0; the identity
// and consent steps collapse into admin step 1. Display-only reprojection
// of Derive, not a separate state machine.
func AdminStep(p Profile, docs []Document) int {
	if !hasBasicInfo(p) {
		return 0
	}
	switch Derive(p, docs) {
	case StepIdentity, StepConsent:
		return 1
	case StepDocuments:
		return 2
	case StepAppointment:
		return 3
	default:
		return 4
	}
}

// StepLabel returns the Korean display label for a candidate-facing step.
func StepLabel(s Step) string {
	switch s {
	case StepIdentity:
		return "1단계 인적사항"
	case StepConsent:
		return "2단계 수당동의"
	case StepDocuments:
		return "3단계 문서제출"
	case StepAppointment:
		return "4단계 위촉 진행"
	case StepComplete:
		return "5단계 완료"
	default:
		return ""
	}
}

// AdminStepLabel returns the Korean display label for an admin-facing step.
func AdminStepLabel(step int) string {
	switch step {
	case 0:
		return "0단계 사전등록"
	case 1:
		return "1단계 수당동의"
	case 2:
		return "2단계 문서제출"
	case 3:
		return "3단계 위촉 진행"
	case 4:
		return "4단계 완료"
	default:
		return ""
	}
}
