package domain

import (
	"errors"
	"fmt"
)

// ErrCodeAlreadyClosed is the server error code returned when closing a
// position that is no longer open. The trade orchestrator treats it as a
// successful idempotent close, not a rejection.
const ErrCodeAlreadyClosed = "BE51"

// RequestStatusAccepted is the tradeTransactionStatus requestStatus value
// for an accepted transaction. Every other value is a rejection.
const RequestStatusAccepted = 3

// ErrInsufficientHistory is returned when the chart look-back window has been
// widened up to the attempt cap and the server still holds fewer candles than
// the caller asked for.
var ErrInsufficientHistory = errors.New("insufficient candle history")

// ErrNotConnected is returned for command exchanges attempted before a
// connection has been established.
var ErrNotConnected = errors.New("session not connected")

// TransportError wraps a socket or wire-protocol level failure.
// The dispatcher recovers from it once by re-running login with the stored
// credentials; a second occurrence is fatal for the call.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// CommandFailedError means the server explicitly rejected a well-formed
// command (response status=false). It is never retried automatically.
type CommandFailedError struct {
	Command string
	Code    string
	Descr   string
}

func (e *CommandFailedError) Error() string {
	if e.Descr != "" {
		return fmt.Sprintf("%s failed: %s (%s)", e.Command, e.Code, e.Descr)
	}
	return fmt.Sprintf("%s failed: %s", e.Command, e.Code)
}

// InvalidArgumentError means the caller supplied a value outside the
// protocol's accepted domain. Raised before any network call.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

func invalidArgf(format string, args ...any) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// TransactionRejectedError means a submitted trade transaction did not reach
// the accepted state. It is distinct from CommandFailedError: the request was
// valid, the business operation was declined.
type TransactionRejectedError struct {
	Status int
}

func (e *TransactionRejectedError) Error() string {
	return fmt.Sprintf("transaction rejected with status %d", e.Status)
}

// UnknownPositionError means the caller referenced an order id absent from
// the most recent position refresh.
type UnknownPositionError struct {
	Order int
}

func (e *UnknownPositionError) Error() string {
	return fmt.Sprintf("unknown position: order %d", e.Order)
}
