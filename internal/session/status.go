package session

// Status is the workflow state owned exclusively by the session. Exactly one
// value holds at any time and it drives which actions the UI enables.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusAnalyzing  Status = "analyzing_location"
	StatusReady      Status = "ready_to_generate"
	StatusGenerating Status = "generating_image"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)
