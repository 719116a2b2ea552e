package service

import "errors"

// Sentinel errors shared by every service. Handlers map these onto HTTP
// status codes; services wrap them with detail via fmt.Errorf("%w: ...").
var (
	// ErrInvalidCredentials is returned for every login failure — wrong
	// email, wrong password or deactivated account — so responses never
	// reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUpstream        = errors.New("upstream unavailable")
)
