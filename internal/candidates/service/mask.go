package service

import (
	"strings"
	"time"

	"github.com/jj8127/Appointment-Process-sub000/platform/apperr"
)

const dateFormat = "2006-01-02"

// MaskResidentID reduces a resident registration number to its birth date
// and gender digit. Only the masked form is ever stored.
func MaskResidentID(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 7 {
		return ""
	}
	return d[:6] + "-" + d[6:7] + "******"
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := time.Parse(dateFormat, *raw)
	if err != nil {
		return nil, apperr.Validation("date must be formatted YYYY-MM-DD")
	}
	return &d, nil
}
