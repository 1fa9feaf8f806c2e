// Package transport is the byte-level side of the responder: listen, accept,
// framed reads with timeouts, writes and close.
package transport

import (
	"errors"
	"net"
	"time"
)

var (
	ErrBind             = errors.New("transport: listen failed")
	ErrAcceptTimeout    = errors.New("transport: accept timeout")
	ErrListenerClosed   = errors.New("transport: listener closed")
	ErrReadTimeout      = errors.New("transport: read timeout")
	ErrConnectionClosed = errors.New("transport: connection closed")
	ErrWrite            = errors.New("transport: write failed")
)

type Transport interface {
	// Listen fails with ErrBind.
	Listen(port int) (Listener, error)
}

type Listener interface {
	// Accept fails with ErrAcceptTimeout or ErrListenerClosed. A timeout <= 0
	// only takes an already queued connection. Close may be called from any
	// goroutine and releases a pending Accept.
	Accept(timeout time.Duration) (Conn, error)
	Addr() string
	Close() error
}

// Conn carries whole SMPP frames.
type Conn interface {
	// Read returns exactly one frame; fails with ErrReadTimeout or ErrConnectionClosed.
	Read(timeout time.Duration) ([]byte, error)
	// Write fails with ErrWrite.
	Write(frame []byte) error
	Close() error
	RemoteAddr() net.Addr
}
