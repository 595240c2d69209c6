package printing

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"

	"github.com/guardia/backend/internal/domain/report"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// documentTitle is the fixed title band of every shift report
const documentTitle = "Informe de Guardia"

// Composer renders a normalized shift report into the one fixed printable
// layout. It performs no I/O and, by construction, cannot embed unsanitized
// input: every field except the already-sanitized incidents markup goes
// through html/template escaping.
type Composer struct {
	tmpl *template.Template
}

// NewComposer parses the embedded document template
func NewComposer() (*Composer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/shift_report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w", err)
	}
	return &Composer{tmpl: tmpl}, nil
}

// documentData is the template payload for one composed document
type documentData struct {
	Title       string
	LogoDataURI template.URL
	Email       string
	Date        string
	ShiftLead   string

	PendingAdmissions    int
	PendingTests         string
	PendingSpecialties   string
	PendingProgressNotes int
	PendingAssessments   int
	ObservationUnit      int

	Incidents template.HTML
}

// Compose builds the complete, self-contained document for one report.
// logoDataURI may be empty, in which case the header image is omitted.
func (c *Composer) Compose(r *report.ShiftReport, logoDataURI string) (string, error) {
	data := documentData{
		Title:                documentTitle,
		LogoDataURI:          template.URL(logoDataURI),
		Email:                r.Email,
		Date:                 r.Date,
		ShiftLead:            r.ShiftLead,
		PendingAdmissions:    r.PendingAdmissions,
		PendingTests:         joinItems(r.PendingTests),
		PendingSpecialties:   joinItems(r.PendingSpecialties),
		PendingProgressNotes: r.PendingProgressNotes,
		PendingAssessments:   r.PendingAssessments,
		ObservationUnit:      r.ObservationUnit,
		Incidents:            template.HTML(r.Incidents),
	}

	var b strings.Builder
	if err := c.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to compose document: %w", err)
	}
	return b.String(), nil
}

// joinItems renders a labeled-count list as a "label: count" sequence
func joinItems(items []report.LabeledCount) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s: %d", item.Label, item.Count)
	}
	return strings.Join(parts, "; ")
}

// LoadLogoDataURI reads the logo asset at path and returns it as a data URI
// for inline embedding. A missing or unreadable logo is non-fatal and yields
// an empty string, which omits the header image.
func LoadLogoDataURI(path string, logger *zap.Logger) string {
	if path == "" {
		return ""
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("logo asset not available", zap.String("path", path), zap.Error(err))
		return ""
	}
	contentType := http.DetectContentType(data)
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
