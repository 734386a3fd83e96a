package stage

// ProgressBadge is a display projection: a stable key for clients that
// switch on it plus a Korean label and a color hint.
type ProgressBadge struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Track identifies one of the two appointment sub-workflows.
type Track string

const (
	TrackLife    Track = "life"
	TrackNonlife Track = "nonlife"
)

// DocProgress summarizes the document set for dashboard lists.
func DocProgress(docs []Document) ProgressBadge {
	if len(docs) == 0 {
		return ProgressBadge{Key: "no-request", Label: "요청 안함", Color: "gray"}
	}

	for _, d := range docs {
		if d.Status == DocRejected {
			return ProgressBadge{Key: "rejected", Label: "반려", Color: "red"}
		}
	}

	valid := ValidDocuments(docs)
	if len(valid) == 0 {
		return ProgressBadge{Key: "requested", Label: "요청 완료", Color: "blue"}
	}

	if len(valid) == len(docs) && AllApproved(docs) {
		return ProgressBadge{Key: "approved", Label: "모든 서류 승인", Color: "green"}
	}

	return ProgressBadge{Key: "in-progress", Label: "제출 중", Color: "orange"}
}

// AppointmentProgress summarizes one track: a confirmed date wins, then a
// candidate-submitted advisory date, then free-text schedule.
func AppointmentProgress(p Profile, track Track) ProgressBadge {
	var schedule, confirmed, submitted string
	if track == TrackLife {
		schedule, confirmed, submitted = p.ScheduleLife, p.DateLife, p.DateLifeSub
	} else {
		schedule, confirmed, submitted = p.ScheduleNonlife, p.DateNonlife, p.DateNonlifeSub
	}

	if confirmed != "" {
		return ProgressBadge{Key: "approved", Label: "승인완료", Color: "green"}
	}
	if submitted != "" {
		return ProgressBadge{Key: "fc-done", Label: "위촉 승인 대기", Color: "orange"}
	}
	if schedule != "" {
		return ProgressBadge{Key: "in-progress", Label: "진행중", Color: "blue"}
	}
	return ProgressBadge{Key: "not-set", Label: "미입력", Color: "gray"}
}

// SummaryStatus folds the step, document progress and both appointment
// tracks into a single dashboard badge.
func SummaryStatus(p Profile, docs []Document) ProgressBadge {
	step := Derive(p, docs)
	if step <= StepConsent {
		if p.TempID == "" {
			return ProgressBadge{Key: "no-temp-id", Label: "임시사번 미발급", Color: "gray"}
		}
		switch p.Status {
		case StatusAllowanceConsented:
			return ProgressBadge{Key: "consented", Label: "수당동의 승인 완료", Color: "green"}
		case StatusAllowancePending:
			return ProgressBadge{Key: "consent-pending", Label: "수당동의 검토 중", Color: "orange"}
		default:
			return ProgressBadge{Key: "consent-waiting", Label: "수당동의 대기", Color: "gray"}
		}
	}

	doc := DocProgress(docs)
	switch doc.Key {
	case "no-request":
		return ProgressBadge{Key: "docs-no-request", Label: "서류 요청 안함", Color: "gray"}
	case "requested":
		return ProgressBadge{Key: "docs-waiting", Label: "서류 제출 대기", Color: "orange"}
	case "rejected":
		return ProgressBadge{Key: "docs-rejected", Label: "서류 반려", Color: "red"}
	case "in-progress":
		return ProgressBadge{Key: "docs-in-progress", Label: "", Color: "orange"}
	}

	life := AppointmentProgress(p, TrackLife)
	nonlife := AppointmentProgress(p, TrackNonlife)

	if life.Key == "approved" && nonlife.Key == "approved" {
		return ProgressBadge{Key: "complete", Label: "최종 완료", Color: "green"}
	}
	if life.Key == "fc-done" || nonlife.Key == "fc-done" {
		return ProgressBadge{Key: "appointment-submitted", Label: "", Color: "orange"}
	}
	if life.Key == "in-progress" || nonlife.Key == "in-progress" ||
		life.Key == "approved" || nonlife.Key == "approved" {
		return ProgressBadge{Key: "appointment-in-progress", Label: "", Color: "blue"}
	}
	return ProgressBadge{Key: "appointment-not-set", Label: "위촉 차수 미입력", Color: "gray"}
}
