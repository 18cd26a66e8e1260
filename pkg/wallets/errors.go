package wallets

import (
	"errors"
	"fmt"
)

// Every backend translates its native failures into one of the error kinds in
// this file at the adapter boundary; no backend-specific error type crosses
// into the orchestrator.

// AvailabilityError is returned when a backend is not installed or reachable.
// Not retryable without user action.
type AvailabilityError struct {
	Wallet string
	Reason string
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("%s is not available: %s", e.Wallet, e.Reason)
}

// WrongNetworkError is returned when a backend is configured for a different
// network than the attempt requires. Not retryable until the user switches
// network in the backend.
type WrongNetworkError struct {
	Wallet string
	Want   string
	Got    string
}

func (e *WrongNetworkError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s is not set to %s", e.Wallet, e.Want)
	}
	return fmt.Sprintf("%s is set to %s, expected %s", e.Wallet, e.Got, e.Want)
}

// UserRejectedError is returned when the user declined a prompt. Terminal for
// the attempt; not an application error.
type UserRejectedError struct {
	Wallet string
}

func (e *UserRejectedError) Error() string {
	return fmt.Sprintf("request rejected by the user in %s", e.Wallet)
}

// DeviceLockedError is returned by hardware backends when the device requires
// a PIN unlock before it can be used.
type DeviceLockedError struct {
	Wallet string
}

func (e *DeviceLockedError) Error() string {
	return fmt.Sprintf("%s device is locked, unlock it with your PIN", e.Wallet)
}

// ParamsError is returned when the transaction parameter service could not
// provide fresh network parameters. The whole attempt may be re-issued; it is
// never partially retried mid-flow.
type ParamsError struct {
	Err error
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("transaction parameters unavailable: %v", e.Err)
}

func (e *ParamsError) Unwrap() error {
	return e.Err
}

// EngineError is returned when the network rejected a submitted payload with a
// transaction engine result code. Terminal for this payload: a new attempt
// with fresh params may be issued, but the old payload is never resubmitted.
type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("transaction rejected by the network: %s (%s)", e.Code, e.Message)
}

// TransportError is returned when the parameter or broadcast service, a relay,
// or a device transport gave no usable response. Nothing was applied, so the
// caller may retry the whole attempt.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUserRejected reports whether the error chain contains a user rejection.
func IsUserRejected(err error) bool {
	var rejected *UserRejectedError
	return errors.As(err, &rejected)
}

// Recoverable reports whether re-issuing the whole attempt can succeed without
// prior user action: true only for parameter and transport failures, where
// nothing was applied.
func Recoverable(err error) bool {
	var (
		params    *ParamsError
		transport *TransportError
	)
	return errors.As(err, &params) || errors.As(err, &transport)
}
