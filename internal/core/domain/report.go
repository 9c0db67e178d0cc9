package domain

// KeySummaryEntry is one line of the UI-facing per-type projection of an
// extraction result.
type KeySummaryEntry struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// DocumentData is everything a consumer needs to render one document: the
// key summary, the full extraction, and the owner's current reconciliation
// findings.
type DocumentData struct {
	DocumentID string            `json:"document_id"`
	Summary    []KeySummaryEntry `json:"summary"`
	Extraction *ExtractionResult `json:"extraction"`
	Findings   []Finding         `json:"findings"`
}

// DocumentStatusView is the polling answer for an in-flight document.
type DocumentStatusView struct {
	Status DocumentStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}
