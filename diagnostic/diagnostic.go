// Copyright © 2024 The ELPS authors

// Package diagnostic renders a located error as annotated source text for
// terminals. It shows the same window of source lines the HTML error page
// shows, with 1-based line numbers.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies the source line a diagnostic points at.
type Span struct {
	File  string // path for reading source; display name if unreadable
	Line  int    // 1-based line number
	Label string // text shown after the location
}

// Diagnostic is a message with optional source annotations and trailing
// notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines (trace frames, hints)
}
