package tracklog

import "time"

// Event is the shape of a structured log event. Nothing in this module
// builds or writes one; the zap cores are the write path.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Service   string         `json:"service"`
	Component string         `json:"component,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}
