package errors

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success bool   `json:"success"` // always false
	Error   string `json:"error"`   // stable label clients branch on (e.g. "Validation error")
	Message string `json:"message"` // user-facing message, safe to display
}

// classifies an error for the HTTP layer
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindInternal       Kind = "internal"
)

// Error is an expected, typed failure returned by services.
// Message is safe to show to the caller; Err carries the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}

	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type ErrorInfo struct {
	category  string
	sanitized string
}
