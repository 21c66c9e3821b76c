package menudoc

// Export failure reasons
const (
	ReasonNotFound        = "document not found"
	ReasonNoDocument      = "no document to export"
	ReasonStoreFailed     = "document could not be loaded"
	ReasonInvalidGeometry = "invalid geometry"
	ReasonCancelled       = "export cancelled"
	ReasonRenderFailed    = "document could not be rendered"
)

// ExportError is returned when an export cannot produce an artifact.
// Reason is one of the Reason constants and is safe to show to users.
type ExportError struct {
	DocumentID string
	Reason     string
	Err        error
}

func (e *ExportError) Error() string {
	msg := "export"
	if e.DocumentID != "" {
		msg += " " + e.DocumentID
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func exportError(id, reason string, err error) *ExportError {
	return &ExportError{DocumentID: id, Reason: reason, Err: err}
}
