package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevError is a problem that stops compilation.
	SevError Severity = iota
	// SevWarning does not stop compilation.
	SevWarning
	// SevNote is informational.
	SevNote
	// SevHelp carries a suggestion.
	SevHelp
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	case SevNote:
		return "note"
	case SevHelp:
		return "help"
	}
	return "unknown"
}
