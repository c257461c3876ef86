package extraction

import "fmt"

// AllModelsFailedError reports that every model in the fallback list
// failed for a document. LastErr is the error from the final attempt.
type AllModelsFailedError struct {
	Attempts int
	LastErr  error
}

func (e *AllModelsFailedError) Error() string {
	return fmt.Sprintf("all %d vision models failed: %v", e.Attempts, e.LastErr)
}

func (e *AllModelsFailedError) Unwrap() error {
	return e.LastErr
}

// MalformedExtractionError reports that a model responded but its
// output could not be parsed into the expected structure. RawText keeps
// the original response for diagnostics.
type MalformedExtractionError struct {
	RawText string
	Cause   error
}

func (e *MalformedExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed extraction response: %v", e.Cause)
	}
	return "malformed extraction response: missing parameters array"
}

func (e *MalformedExtractionError) Unwrap() error {
	return e.Cause
}

// DocumentError reports a document rejected before any model call
// (unsupported type, unreadable PDF, too many pages).
type DocumentError struct {
	Reason string
}

func (e *DocumentError) Error() string {
	return "invalid document: " + e.Reason
}
