package report

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/guardia/backend/internal/domain/shared"
)

const (
	// MaxCount is the upper clamp for every counter in a report.
	MaxCount = 999
	// MaxLabelLen caps pending-item labels.
	MaxLabelLen = 50
	// MaxNameLen caps the shift-lead name.
	MaxNameLen = 40
)

var (
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	validate  = validator.New()
)

// RawReport carries the untrusted request fields before normalization. List
// and counter fields are `any` on purpose: the caller submits JSON of unknown
// shape and normalization must degrade to safe defaults instead of failing.
type RawReport struct {
	Email                string
	Date                 string
	ShiftLead            string
	Tests                any
	Specialties          any
	PendingAdmissions    any
	PendingProgressNotes any
	PendingAssessments   any
	ObservationUnit      any
}

// Normalize validates and bounds every field of a raw report. Counter and
// list fields never produce errors, they fall back to zero values; only the
// required fields (email, date, shift lead) can reject the report.
func Normalize(raw RawReport) (*ShiftReport, error) {
	email := strings.TrimSpace(raw.Email)
	if email == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "email is not a valid address")
	}

	date := NormalizeDate(raw.Date)
	if date == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "fecha is required")
	}

	lead := NormalizeLabel(raw.ShiftLead, MaxNameLen)
	if lead == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "jefeGuardia is required")
	}

	return &ShiftReport{
		Email:                email,
		Date:                 date,
		ShiftLead:            lead,
		PendingTests:         NormalizeItems(raw.Tests),
		PendingSpecialties:   NormalizeItems(raw.Specialties),
		PendingAdmissions:    NormalizeCount(raw.PendingAdmissions),
		PendingProgressNotes: NormalizeCount(raw.PendingProgressNotes),
		PendingAssessments:   NormalizeCount(raw.PendingAssessments),
		ObservationUnit:      NormalizeCount(raw.ObservationUnit),
	}, nil
}

// NormalizeCount coerces an arbitrary JSON value to an integer clamped to
// [0, MaxCount]. Anything non-numeric becomes 0.
func NormalizeCount(v any) int {
	n := 0
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			n = int(x)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			n = parsed
		}
	case fmt.Stringer:
		if parsed, err := strconv.Atoi(strings.TrimSpace(x.String())); err == nil {
			n = parsed
		}
	}
	if n < 0 {
		return 0
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// NormalizeLabel coerces an arbitrary JSON value to a trimmed string of at
// most maxLen runes. Non-strings become empty.
func NormalizeLabel(v any, maxLen int) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}
	return s
}

// NormalizeItems converts an arbitrary JSON value into a labeled-count list.
// Entries with an empty label or a zero count are dropped; a value that is
// not a list yields an empty list.
func NormalizeItems(v any) []LabeledCount {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]LabeledCount, 0, len(list))
	for _, raw := range list {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		item := LabeledCount{
			Label: NormalizeLabel(entry["tipo"], MaxLabelLen),
			Count: NormalizeCount(entry["cantidad"]),
		}
		if item.Label == "" || item.Count == 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}

// NormalizeDate rewrites an ISO YYYY-MM-DD date to DD/MM/YYYY display form.
// Any other input passes through trimmed, unchanged.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return m[3] + "/" + m[2] + "/" + m[1]
	}
	return s
}
