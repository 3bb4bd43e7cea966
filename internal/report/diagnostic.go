package report

import (
	"fmt"
	"strings"
)

// Kind categorizes a diagnostic
type Kind int

const (
	KindOutOfDate Kind = iota
	KindNotFound
	KindError
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindOutOfDate:
		return "out-of-date"
	case KindNotFound:
		return "not-found"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one problem found while checking a Containerfile
type Diagnostic struct {
	Kind Kind

	Package string
	Pinned  string
	Latest  string

	File string
	Line int // Zero indexed

	// Detail carries the error text for KindError
	Detail string
}

// String renders the diagnostic as written to the error stream
func (d Diagnostic) String() string {
	switch d.Kind {
	case KindOutOfDate:
		return fmt.Sprintf(
			"Package '%s' with version %s starting at line %d in file '%s' is not up to date. The latest version is '%s'.",
			d.Package, d.Pinned, d.Line+1, d.File, d.Latest,
		)
	case KindNotFound:
		return fmt.Sprintf(
			"Failed to find version of package '%s' starting at line %d in file '%s'",
			d.Package, d.Line+1, d.File,
		)
	default:
		return strings.TrimRight(d.Detail, "\n")
	}
}
