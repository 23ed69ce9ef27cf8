package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a client-visible failure. Anything that is not one of
// these kinds is an opaque internal fault at the routing boundary.
type Kind string

const (
	KindNotFound       Kind = "NotFound"
	KindUnauthorized   Kind = "Unauthorized"
	KindConflict       Kind = "Conflict"
	KindPageOutOfRange Kind = "PageOutOfRange"
	KindBadInput       Kind = "BadInput"
	KindUpstream       Kind = "UpstreamUnavailable"
)

// Error is a kind-tagged application error with a stable name and message.
type Error struct {
	Kind    Kind
	Name    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors by kind and stable name, so wrapped copies of the
// package-level errors still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind && e.Name == t.Name
}

// New builds a kind-tagged error.
func New(kind Kind, name, message string) *Error {
	return &Error{Kind: kind, Name: name, Message: message}
}

// Wrap returns a copy of base carrying err as its cause.
func Wrap(base *Error, err error) *Error {
	return &Error{Kind: base.Kind, Name: base.Name, Message: base.Message, Err: err}
}

// Stable client-facing errors. Names and messages are part of the API
// surface and must not drift.
var (
	ErrNoteNotFound    = New(KindNotFound, "NoteNotFound", "Note not found!")
	ErrUserNotFound    = New(KindNotFound, "UserNotFound", "User not found!")
	ErrPageNotFound    = New(KindPageOutOfRange, "PageNotFound", "Page not found!")
	ErrProblemNotFound = New(KindNotFound, "ProblemNotFound", "Requested problem does not exist!")
	ErrContestNotFound = New(KindNotFound, "ContestNotFound", "Requested contest does not exist!")
	ErrCommentNotFound = New(KindNotFound, "CommentNotFound", "Comment not found!")
	ErrCommentDeleted  = New(KindConflict, "CommentDeleted", "Comment was deleted!")
	ErrNotLoggedIn     = New(KindUnauthorized, "NotLoggedIn", "Not logged in as the requested user!")
	ErrBadFileType     = New(KindBadInput, "BadFileType", "That file type is unsupported!")
	ErrBadUsername     = New(KindBadInput, "BadUsername", "Username contains invalid characters!")
	ErrPlatformDown    = New(KindUpstream, "PlatformDown", "Platform lookup is unavailable!")
)

// KindOf extracts the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NameOf extracts the stable name of err, or "" for internal faults.
func NameOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Name
	}
	return ""
}

// HTTPStatus maps an error to the status code the routing layer should
// emit. Unrecognized errors are internal faults.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindPageOutOfRange:
		return http.StatusNotFound
	case KindBadInput:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Internal wraps an unexpected fault with context for logs. It stays
// outside the client taxonomy on purpose.
func Internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
