package printclient

import (
	"errors"
	"fmt"
)

var (
	// ErrRunInFlight is returned by Submit when another run holds the slot.
	ErrRunInFlight = errors.New("print submission already in flight")

	// ErrUnknownOperation means no URL is configured for an operation.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrMalformedIdentity means the lookup answered without a usable address.
	ErrMalformedIdentity = errors.New("malformed identity response")
)

// StatusError reports a non-2xx answer from a remote service.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "unexpected status " + e.Status
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// IdentityResolutionError wraps any failure of the address lookup.
type IdentityResolutionError struct{ Err error }

func (e *IdentityResolutionError) Error() string {
	return "identity resolution failed: " + e.Err.Error()
}

func (e *IdentityResolutionError) Unwrap() error {
	return e.Err
}

// PrintDispatchError wraps any failure of the print request.
type PrintDispatchError struct{ Err error }

func (e *PrintDispatchError) Error() string {
	return "print dispatch failed: " + e.Err.Error()
}

func (e *PrintDispatchError) Unwrap() error {
	return e.Err
}

// LeaderboardInsertError wraps any failure of the leaderboard insert.
type LeaderboardInsertError struct{ Err error }

func (e *LeaderboardInsertError) Error() string {
	return "leaderboard insert failed: " + e.Err.Error()
}

func (e *LeaderboardInsertError) Unwrap() error {
	return e.Err
}

func wrapStepError(step Step, err error) error {
	switch step {
	case StepResolveIdentity:
		return &IdentityResolutionError{Err: err}
	case StepDispatchPrint:
		return &PrintDispatchError{Err: err}
	case StepInsertEntry:
		return &LeaderboardInsertError{Err: err}
	default:
		return err
	}
}
