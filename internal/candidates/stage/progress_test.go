package stage

import "testing"

func TestDocProgress(t *testing.T) {
	tests := []struct {
		name string
		docs []Document
		want string
	}{
		{"no rows", nil, "no-request"},
		{"any rejection wins", []Document{
			{StoragePath: "fc/a.pdf", Status: DocApproved},
			{StoragePath: "fc/b.pdf", Status: DocRejected},
		}, "rejected"},
		{"requested but nothing uploaded", []Document{
			{StoragePath: "", Status: DocPending},
		}, "requested"},
		{"all uploaded and approved", []Document{
			{StoragePath: "fc/a.pdf", Status: DocApproved},
			{StoragePath: "fc/b.pdf", Status: DocApproved},
		}, "approved"},
		{"partial upload", []Document{
			{StoragePath: "fc/a.pdf", Status: DocApproved},
			{StoragePath: "", Status: DocPending},
		}, "in-progress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DocProgress(tt.docs); got.Key != tt.want {
				t.Fatalf("DocProgress().Key = %q, want %q", got.Key, tt.want)
			}
		})
	}
}

func TestAppointmentProgressPrecedence(t *testing.T) {
	p := Profile{
		ScheduleLife: "3월 1차",
		DateLifeSub:  "2025-03-01",
		DateLife:     "2025-03-02",
	}
	if got := AppointmentProgress(p, TrackLife); got.Key != "approved" {
		t.Fatalf("confirmed date must win, got %q", got.Key)
	}

	p.DateLife = ""
	if got := AppointmentProgress(p, TrackLife); got.Key != "fc-done" {
		t.Fatalf("advisory date should rank next, got %q", got.Key)
	}

	p.DateLifeSub = ""
	if got := AppointmentProgress(p, TrackLife); got.Key != "in-progress" {
		t.Fatalf("schedule text should rank last, got %q", got.Key)
	}

	if got := AppointmentProgress(p, TrackNonlife); got.Key != "not-set" {
		t.Fatalf("untouched track should be not-set, got %q", got.Key)
	}
}

func TestSummaryStatus(t *testing.T) {
	p := completeProfile(StatusAllowancePending)
	if got := SummaryStatus(p, nil); got.Key != "consent-pending" {
		t.Fatalf("SummaryStatus().Key = %q, want consent-pending", got.Key)
	}

	p.TempID = ""
	if got := SummaryStatus(p, nil); got.Key != "no-temp-id" {
		t.Fatalf("SummaryStatus().Key = %q, want no-temp-id", got.Key)
	}

	p = completeProfile(StatusDocsApproved)
	docs := approvedDocs(2)
	p.DateLife = "2025-03-02"
	p.DateNonlife = "2025-03-05"
	if got := SummaryStatus(p, docs); got.Key != "complete" {
		t.Fatalf("SummaryStatus().Key = %q, want complete", got.Key)
	}

	p.DateNonlife = ""
	if got := SummaryStatus(p, docs); got.Key != "appointment-in-progress" {
		t.Fatalf("SummaryStatus().Key = %q, want appointment-in-progress", got.Key)
	}
}
