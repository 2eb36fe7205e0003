package skyway

import "errors"

var (
	// ErrAuthExpired is any 401 from the backend. Handlers map it to a
	// single redirect to the login route.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAlreadyPaid is the 409 from the payment confirmation step. It
	// means the booking already completed and is a success path, not a
	// failure to surface.
	ErrAlreadyPaid = errors.New("booking already paid")
)

// FetchError is any transport or server failure other than the sentinels
// above. The caller surfaces a non-fatal message and keeps its prior state.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err}
}
