package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
	ErrAccessDenied     = errors.New("access denied")
	ErrUnsupportedMedia = errors.New("unsupported media")
	ErrUpstream         = errors.New("upstream failure")
	ErrInternal         = errors.New("internal error")
)

// Error carries a user-facing message tagged with one of the sentinel kinds.
// errors.Is(err, ErrNotFound) matches an *Error whose Kind is ErrNotFound.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func Validation(msg string) error {
	return newError(ErrValidation, msg, nil)
}

func NotFound(msg string) error {
	return newError(ErrNotFound, msg, nil)
}

func AccessDenied(msg string) error {
	return newError(ErrAccessDenied, msg, nil)
}

func UnsupportedMedia(msg string) error {
	return newError(ErrUnsupportedMedia, msg, nil)
}

func Conflict(msg string) error {
	return newError(ErrConflict, msg, nil)
}

func Upstream(msg string, cause error) error {
	return newError(ErrUpstream, msg, cause)
}

func Internal(msg string, cause error) error {
	return newError(ErrInternal, msg, cause)
}

// Message returns the user-facing message of an *Error in err's chain,
// or fallback when there is none.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
