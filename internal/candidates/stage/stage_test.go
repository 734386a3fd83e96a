package stage

import (
	"math/rand"
	"testing"
)

func completeProfile(status Status) Profile {
	return Profile{
		Name:             "김민수",
		Affiliation:      "서울지점",
		ResidentIDMasked: "900101-1******",
		Email:            "minsu@example.com",
		TempID:           "T-1001",
		Status:           status,
	}
}

func approvedDocs(n int) []Document {
	docs := make([]Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, Document{Type: "doc", StoragePath: "fc/doc.pdf", Status: DocApproved})
	}
	return docs
}

func TestDeriveIdentityGate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		want    Step
	}{
		{"missing name", func(p *Profile) { p.Name = "" }, StepIdentity},
		{"missing affiliation", func(p *Profile) { p.Affiliation = "" }, StepIdentity},
		{"missing masked id", func(p *Profile) { p.ResidentIDMasked = "" }, StepIdentity},
		{"email or address required", func(p *Profile) { p.Email = ""; p.Address = "" }, StepIdentity},
		{"address alone suffices", func(p *Profile) { p.Email = ""; p.Address = "서울시" }, StepConsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile(StatusTempIDIssued)
			tt.mutate(&p)
			if got := Derive(p, nil); got != tt.want {
				t.Fatalf("Derive() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDeriveConsentPending(t *testing.T) {
	// Complete identity, consent still under review.
	p := completeProfile(StatusAllowancePending)
	if got := Derive(p, nil); got != StepConsent {
		t.Fatalf("Derive() = %d, want %d", got, StepConsent)
	}
}

func TestDeriveDocsRequestedNoValidDocuments(t *testing.T) {
	p := completeProfile(StatusDocsRequested)
	docs := []Document{
		{Type: "생명보험 합격증", StoragePath: "", Status: DocPending},
		{Type: "이클린", StoragePath: DeletedSentinel, Status: DocPending},
	}
	if got := Derive(p, docs); got != StepDocuments {
		t.Fatalf("Derive() = %d, want %d", got, StepDocuments)
	}
}

func TestDerivePartialApprovalStaysAtDocuments(t *testing.T) {
	p := completeProfile(StatusDocsSubmitted)
	docs := approvedDocs(2)
	docs = append(docs, Document{Type: "경력증명서", StoragePath: "fc/career.pdf", Status: DocPending})
	if got := Derive(p, docs); got != StepDocuments {
		t.Fatalf("Derive() = %d, want %d", got, StepDocuments)
	}
}

func TestDeriveAppointmentAndTerminal(t *testing.T) {
	p := completeProfile(StatusDocsApproved)
	docs := approvedDocs(3)

	if got := Derive(p, docs); got != StepAppointment {
		t.Fatalf("Derive() = %d, want %d", got, StepAppointment)
	}

	p.Status = StatusFinalLinkSent
	if got := Derive(p, docs); got != StepComplete {
		t.Fatalf("Derive() = %d, want %d", got, StepComplete)
	}
}

func TestDeriveTerminalStatusNeverSkipsEarlierGates(t *testing.T) {
	// A drifted terminal status must not promote past a failing doc gate.
	p := completeProfile(StatusFinalLinkSent)
	if got := Derive(p, nil); got != StepDocuments {
		t.Fatalf("Derive() = %d, want %d", got, StepDocuments)
	}

	p.Name = ""
	if got := Derive(p, approvedDocs(1)); got != StepIdentity {
		t.Fatalf("Derive() = %d, want %d", got, StepIdentity)
	}
}

func TestDeriveIsPure(t *testing.T) {
	p := completeProfile(StatusDocsApproved)
	docs := approvedDocs(2)
	first := Derive(p, docs)
	second := Derive(p, docs)
	if first != second {
		t.Fatalf("Derive not idempotent: %d then %d", first, second)
	}
}

func TestDeriveMonotonicGateOrdering(t *testing.T) {
	// Randomized snapshots: the derived step may never exceed an unmet gate.
	rng := rand.New(rand.NewSource(42))
	statuses := All()
	paths := []string{"", DeletedSentinel, "fc/file.pdf"}
	docStatuses := []DocStatus{DocPending, DocApproved, DocRejected}

	for i := 0; i < 2000; i++ {
		p := Profile{Status: statuses[rng.Intn(len(statuses))]}
		if rng.Intn(2) == 0 {
			p.Name = "이름"
		}
		if rng.Intn(2) == 0 {
			p.Affiliation = "소속"
		}
		if rng.Intn(2) == 0 {
			p.ResidentIDMasked = "000000-0******"
		}
		if rng.Intn(2) == 0 {
			p.Email = "a@b.c"
		}
		if rng.Intn(2) == 0 {
			p.Address = "주소"
		}

		docs := make([]Document, rng.Intn(4))
		for j := range docs {
			docs[j] = Document{
				StoragePath: paths[rng.Intn(len(paths))],
				Status:      docStatuses[rng.Intn(len(docStatuses))],
			}
		}

		step := Derive(p, docs)
		if step > StepIdentity && !hasBasicInfo(p) {
			t.Fatalf("step %d with incomplete identity: %+v", step, p)
		}
		if step > StepConsent && !p.Status.AtLeast(StatusAllowanceConsented) {
			t.Fatalf("step %d before consent: status=%s", step, p.Status)
		}
		if step > StepDocuments && !AllApproved(docs) {
			t.Fatalf("step %d with failing doc gate: %+v", step, docs)
		}
		if step == StepComplete && p.Status != StatusFinalLinkSent {
			t.Fatalf("terminal step with status %s", p.Status)
		}
	}
}

func TestAllApprovedIgnoresDeletedRows(t *testing.T) {
	docs := approvedDocs(2)
	docs = append(docs, Document{Type: "이클린", StoragePath: DeletedSentinel, Status: DocPending})
	if !AllApproved(docs) {
		t.Fatal("deleted rows must not block approval of the valid set")
	}
}

func TestAllApprovedEmptySet(t *testing.T) {
	if AllApproved(nil) {
		t.Fatal("empty set must never count as fully approved")
	}
	if AllApproved([]Document{{StoragePath: DeletedSentinel, Status: DocApproved}}) {
		t.Fatal("set with only deleted rows must never count as fully approved")
	}
}

func TestAdminStep(t *testing.T) {
	incomplete := Profile{Status: StatusDraft}
	if got := AdminStep(incomplete, nil); got != 0 {
		t.Fatalf("AdminStep() = %d, want 0", got)
	}

	p := completeProfile(StatusAllowancePending)
	if got := AdminStep(p, nil); got != 1 {
		t.Fatalf("AdminStep() = %d, want 1", got)
	}

	p.Status = StatusDocsRequested
	if got := AdminStep(p, nil); got != 2 {
		t.Fatalf("AdminStep() = %d, want 2", got)
	}

	p.Status = StatusDocsApproved
	if got := AdminStep(p, approvedDocs(1)); got != 3 {
		t.Fatalf("AdminStep() = %d, want 3", got)
	}

	p.Status = StatusFinalLinkSent
	if got := AdminStep(p, approvedDocs(1)); got != 4 {
		t.Fatalf("AdminStep() = %d, want 4", got)
	}
}

func TestRankOrdering(t *testing.T) {
	if !StatusDocsApproved.AtLeast(StatusAllowanceConsented) {
		t.Fatal("docs-approved should rank past consent")
	}
	if StatusAllowancePending.AtLeast(StatusAllowanceConsented) {
		t.Fatal("allowance-pending must rank before consent")
	}
	if Rank("bogus") != -1 {
		t.Fatal("unknown status must rank below every gate")
	}
}
