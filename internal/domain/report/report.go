package report

// LabeledCount is a single pending-work line item: a short free-text label
// with how many of that item are outstanding.
type LabeledCount struct {
	Label string `json:"tipo"`
	Count int    `json:"cantidad"`
}

// ShiftReport is the fully normalized input for one shift report. Every field
// has already been clamped, trimmed and validated; Incidents has already been
// sanitized. A ShiftReport lives for a single request only.
type ShiftReport struct {
	// Email is the submitter address the rendered report is delivered to.
	Email string
	// Date is the report date in DD/MM/YYYY display form.
	Date string
	// ShiftLead is the name of the physician leading the shift.
	ShiftLead string

	// PendingTests are imaging studies still waiting for a result.
	PendingTests []LabeledCount
	// PendingSpecialties are specialist reviews still outstanding.
	PendingSpecialties []LabeledCount

	PendingAdmissions    int
	PendingProgressNotes int
	PendingAssessments   int
	ObservationUnit      int

	// Incidents is clinician-authored rich text, restricted to the markup
	// allowlist. It is inserted into the composed document verbatim.
	Incidents string
}
