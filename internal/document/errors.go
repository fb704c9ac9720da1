package document

import (
	"errors"
	"fmt"
)

// Sentinel errors for template parsing and validation.
var (
	// ErrUnknownKind indicates a kind other than capability or enabler.
	ErrUnknownKind = errors.New("unknown document kind")
	// ErrMissingTitle indicates the file does not begin with an H1 title.
	ErrMissingTitle = errors.New("missing top-level title heading")
	// ErrMissingMetadata indicates no "## Metadata" section was found.
	ErrMissingMetadata = errors.New("missing Metadata section")
	// ErrBadMetadataLine indicates a Metadata entry that is not a
	// "- **Key**: value" bullet.
	ErrBadMetadataLine = errors.New("malformed metadata entry")
	// ErrBadTable indicates a table without a header or separator row.
	ErrBadTable = errors.New("malformed table")
	// ErrBadTableRow indicates a table row whose cell count does not match
	// the header.
	ErrBadTableRow = errors.New("malformed table row")
	// ErrBadID indicates a document id that does not match the pattern for
	// its kind.
	ErrBadID = errors.New("identifier does not match expected format")
	// ErrKindMismatch indicates the metadata Type disagrees with the kind
	// the caller asked to parse.
	ErrKindMismatch = errors.New("document type does not match expected kind")
)

// ParseError records where in the source a template violation occurred.
// It wraps one of the sentinel errors above.
type ParseError struct {
	Line   int    // 1-based source line, 0 when not tied to a line
	Detail string // the offending text or a short explanation
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Detail != "":
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Err, e.Detail)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Err, e.Detail)
	}
	return e.Err.Error()
}

// Unwrap returns the sentinel for use with errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Err
}
