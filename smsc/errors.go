package smsc

import "errors"

var (
	ErrConnectionRejected = errors.New("smsc: connection rejected")
	ErrNoActiveSession    = errors.New("smsc: no active session")
	ErrMessageTooLong     = errors.New("smsc: message too long")
	ErrInvalidMessage     = errors.New("smsc: invalid deliver message")
	ErrInvalidConfig      = errors.New("smsc: invalid config")
)
