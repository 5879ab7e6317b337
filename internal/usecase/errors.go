package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrInsufficientMembers is a precondition-not-met result: fewer than
	// the required active members exist for the requested transition.
	// Callers log and continue; the regular season simply goes on.
	ErrInsufficientMembers = errors.New("not enough active members")

	// ErrLeagueFull rejects a join against a league at roster capacity.
	ErrLeagueFull = errors.New("league roster is full")

	// ErrLeagueNotStarted rejects operations that need a running season.
	ErrLeagueNotStarted = errors.New("league has not started")
)
