package subscription

import "errors"

// Error taxonomy shared by the store gateway and both HTTP surfaces.
// Anything not wrapping one of these is treated as an internal fault.
var (
	// ErrConflict: the (email, newsletterCampaign) unique index rejected
	// an insert.
	ErrConflict = errors.New("duplicate entry for email, newsletterCampaign")

	// ErrNotFound: an empty read result or a zero-row delete. Surfaced as
	// "no content", not as a transport failure.
	ErrNotFound = errors.New("no subscriptions found")

	// ErrUnavailable: a downstream dependency could not be reached. The
	// cause is logged internally and never leaks to external callers.
	ErrUnavailable = errors.New("service not available")
)

// ValidationError carries a rejection message for the caller. It is safe
// to surface and is never logged as a server fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

