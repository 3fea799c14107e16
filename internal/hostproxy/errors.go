package hostproxy

import "fmt"

// AuthError means a request's (network, version, key) has no live consumer.
// Server.handle answers that case with 401 directly; it does not construct
// an AuthError.
type AuthError struct {
	HashKey string
}

func (e *AuthError) Error() string { return fmt.Sprintf("hostproxy: no consumer for %s", e.HashKey) }

// RouteError means the backend target could not be reached. Mapped to a 5xx.
type RouteError struct {
	Target string
	Err    error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("hostproxy: route to %s failed: %v", e.Target, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }
