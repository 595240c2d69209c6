package report

import "github.com/guardia/backend/internal/domain/report"

// GenerateReportRequest is the JSON payload for one shift report submission.
// List and counter fields are deliberately untyped so that malformed values
// degrade to safe defaults during normalization instead of failing the bind.
type GenerateReportRequest struct {
	Email       string `json:"email"`
	Date        string `json:"fecha"`
	ShiftLead   string `json:"jefeGuardia"`
	Tests       any    `json:"pruebas"`
	Specialties any    `json:"especialidades"`

	PendingAdmissions    any `json:"pendienteIngreso"`
	PendingProgressNotes any `json:"pendienteEvolutivo"`
	PendingAssessments   any `json:"pendienteValoracion"`
	ObservationUnit      any `json:"observacion"`

	// IncidentsHTML carries the rich-text editor markup; Incidents is the
	// plain-text fallback from older clients.
	Incidents     string `json:"incidencias"`
	IncidentsHTML string `json:"incidenciasHtml"`
}

func (r *GenerateReportRequest) toRaw() report.RawReport {
	return report.RawReport{
		Email:                r.Email,
		Date:                 r.Date,
		ShiftLead:            r.ShiftLead,
		Tests:                r.Tests,
		Specialties:          r.Specialties,
		PendingAdmissions:    r.PendingAdmissions,
		PendingProgressNotes: r.PendingProgressNotes,
		PendingAssessments:   r.PendingAssessments,
		ObservationUnit:      r.ObservationUnit,
	}
}

// GenerateReportResult is returned after the report has been rendered and
// handed to the mail transport.
type GenerateReportResult struct {
	MessageID string `json:"messageId"`
	PageCount int    `json:"pageCount"`
}
