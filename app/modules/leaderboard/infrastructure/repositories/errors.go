package leaderboarddb

import "errors"

var (
	// ErrNotFound is returned when no entry matches the given name.
	ErrNotFound = errors.New("leaderboard entry not found")

	// ErrNoRowsAffected is returned when an update touched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
