package domain

import "errors"

// ErrUnavailable is returned when a collaborator (RPC node or metrics
// endpoint) could not be reached or answered with something unusable.
var ErrUnavailable = errors.New("unavailable")
