package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	if got := len(cat.Entries()); got != 11 {
		t.Fatalf("default catalog has %d entries, want 11", got)
	}
	if !cat.Contains("생명보험 합격증") {
		t.Errorf("expected exam certificate in default catalog")
	}
	if cat.Contains("기타 서류") {
		t.Errorf("unexpected custom type in default catalog")
	}
}

func TestForTrack(t *testing.T) {
	cat := Default()

	for _, e := range cat.ForTrack(TrackNew) {
		if e.Track == TrackCareer {
			t.Errorf("new-hire track includes career-only entry %q", e.Name)
		}
	}

	career := cat.ForTrack(TrackCareer)
	found := false
	for _, e := range career {
		if e.Name == "경력증명서" {
			found = true
		}
		if e.Track == TrackNew {
			t.Errorf("career track includes new-hire-only entry %q", e.Name)
		}
	}
	if !found {
		t.Errorf("career track missing 경력증명서")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.yaml")
	content := []byte(`documents:
  - name: 생명보험 합격증
    category: exam
  - name: 경력증명서
    category: screening
    track: career
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := len(cat.Entries()); got != 2 {
		t.Fatalf("loaded %d entries, want 2", got)
	}
	// Omitted track defaults to any.
	if cat.Entries()[0].Track != TrackAny {
		t.Errorf("track = %q, want any", cat.Entries()[0].Track)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if len(cat.Entries()) != 11 {
		t.Errorf("expected built-in default set")
	}
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.yaml")
	if err := os.WriteFile(path, []byte("documents: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("expected error for empty catalog")
	}
}
