package block

import "errors"

var (
	errNotMined  = errors.New("header not mined")
	errCancelled = errors.New("mining cancelled")
)

// CancelledError is returned by Mine when the supplied cancellation signal
// fires before a valid nonce is found. No partial state is left mined or
// signed in that case.
type CancelledError struct{}

func (*CancelledError) Error() string { return errCancelled.Error() }
