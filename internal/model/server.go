package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a server accepts connections on,
// either plain or TLS terminated.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running listener: the public HTTP API or the admin gRPC server.
// Start blocks until the server stops and returns nil after a Stop.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
