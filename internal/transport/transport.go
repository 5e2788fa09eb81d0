// Package transport provides abstractions for outbound connection
// establishment.  Both session kinds go through a Dialer — traffic
// generation to open its short-lived streams, monitoring to classify
// port status — so tests can substitute controlled dial behaviour.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer.
	// Stateless dialers return nil.
	Close() error
}

// DialFunc adapts a plain function to the Dialer interface.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Dial calls f.
func (f DialFunc) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	return f(ctx, network, address)
}

// Close is a no-op.
func (f DialFunc) Close() error { return nil }
