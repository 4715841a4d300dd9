// Package delivery defines the contract every transport entrypoint satisfies,
// so the application can start HTTP servers and background runners uniformly.
package delivery

import "context"

// Delivery is a long-running entrypoint such as an HTTP server or a periodic
// worker. Serve blocks until the delivery stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
