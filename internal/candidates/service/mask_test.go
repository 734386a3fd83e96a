package service

import "testing"

func TestMaskResidentID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"with hyphen", "900101-1234567", "900101-1******"},
		{"digits only", "9001011234567", "900101-1******"},
		{"with spaces", " 900101 1234567 ", "900101-1******"},
		{"too short", "900101", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskResidentID(tt.input); got != tt.want {
				t.Errorf("MaskResidentID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
