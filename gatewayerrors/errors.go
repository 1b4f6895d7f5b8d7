// Package gatewayerrors defines the sentinel error kinds from which the
// proxy's outer HTTP handler derives response status codes.
package gatewayerrors

import "errors"

var (
	// ErrConfiguration marks a route-compilation failure: a missing
	// factory or an invalid textual shortcut form. The offending route
	// is not served.
	ErrConfiguration = errors.New("gateway: configuration error")

	// ErrNoRoute marks that no route's predicate matched the request.
	ErrNoRoute = errors.New("gateway: no matching route")

	// ErrTimeout marks that the configured response timeout elapsed
	// while waiting for the upstream.
	ErrTimeout = errors.New("gateway: upstream timeout")

	// ErrBadGateway marks a transport-level failure talking to the
	// upstream (connection refused, reset, DNS failure, ...).
	ErrBadGateway = errors.New("gateway: bad gateway")
)
