package gateway

// Role is the acting principal's capability class.
type Role string

const (
	// RoleAdmin has full write capability.
	RoleAdmin Role = "admin"
	// RoleFC is the candidate self-service role, limited to its own record.
	RoleFC Role = "fc"
	// RoleSupervisor is read-only: every mutating action is rejected.
	RoleSupervisor Role = "supervisor"
)

// Action classifies a mutating operation for rate limiting and the role
// capability table.
type Action string

const (
	ActionRegisterIdentity  Action = "register-identity"
	ActionIssueTempID       Action = "issue-temp-id"
	ActionUpdateProfile     Action = "update-profile"
	ActionUpdateStatus      Action = "update-status"
	ActionSubmitConsent     Action = "submit-consent"
	ActionReviewConsent     Action = "review-consent"
	ActionRequestDocs       Action = "request-docs"
	ActionSetDocsDeadline   Action = "set-docs-deadline"
	ActionUploadDocument    Action = "upload-document"
	ActionReviewDocument    Action = "review-document"
	ActionDeleteDocFile     Action = "delete-doc-file"
	ActionScheduleTrack     Action = "schedule-appointment"
	ActionConfirmTrack      Action = "confirm-appointment"
	ActionRejectTrack       Action = "reject-appointment"
	ActionSubmitTrackDate   Action = "submit-appointment-date"
	ActionPurgeCandidate    Action = "purge-candidate"
	ActionRegisterPushToken Action = "register-push-token"
)

// writePolicy is the capability table: which roles may perform which
// mutating action. Absence means rejected.
var writePolicy = map[Action]map[Role]bool{
	ActionRegisterIdentity:  {RoleAdmin: true, RoleFC: true},
	ActionIssueTempID:       {RoleAdmin: true},
	ActionUpdateProfile:     {RoleAdmin: true},
	ActionUpdateStatus:      {RoleAdmin: true},
	ActionSubmitConsent:     {RoleFC: true},
	ActionReviewConsent:     {RoleAdmin: true},
	ActionRequestDocs:       {RoleAdmin: true},
	ActionSetDocsDeadline:   {RoleAdmin: true},
	ActionUploadDocument:    {RoleFC: true},
	ActionReviewDocument:    {RoleAdmin: true},
	ActionDeleteDocFile:     {RoleAdmin: true, RoleFC: true},
	ActionScheduleTrack:     {RoleAdmin: true},
	ActionConfirmTrack:      {RoleAdmin: true},
	ActionRejectTrack:       {RoleAdmin: true},
	ActionSubmitTrackDate:   {RoleFC: true},
	ActionPurgeCandidate:    {RoleAdmin: true},
	ActionRegisterPushToken: {RoleFC: true},
}

// Allowed reports whether role may perform action.
func Allowed(role Role, action Action) bool {
	roles, ok := writePolicy[action]
	if !ok {
		return false
	}
	return roles[role]
}
