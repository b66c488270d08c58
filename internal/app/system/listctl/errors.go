package listctl

import "errors"

var (
	// ErrSuperseded is returned to a fetch whose response arrived after a
	// newer fetch on the same controller was issued. Its result was discarded.
	ErrSuperseded = errors.New("listctl: superseded by a newer fetch")

	// ErrPageOutOfRange rejects ChangePage outside [1, TotalPages].
	ErrPageOutOfRange error = &stateError{"listctl: page out of range", "That page does not exist."}

	// ErrBusy rejects a second mutation on an action that is still in flight.
	ErrBusy error = &stateError{"listctl: action already in progress", "That action is already in progress. Please wait."}

	// ErrNotFound means the id is not in the loaded collection.
	ErrNotFound error = &stateError{"listctl: item not in the current page", "That record is no longer on this page. Refresh and try again."}

	// ErrUnsupported means the resource has no status toggle.
	ErrUnsupported error = &stateError{"listctl: operation not supported for this resource", "This action is not available here."}
)

// stateError is a sentinel that also carries the text shown to the user.
type stateError struct{ msg, user string }

func (e *stateError) Error() string       { return e.msg }
func (e *stateError) UserMessage() string { return e.user }

// ValidationError is a local, pre-network failure. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UserMessage is the text shown to the user.
func (e *ValidationError) UserMessage() string { return e.Message }

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
