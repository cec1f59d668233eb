// Package printclient is the client side of the print board.
//
// A Workflow performs one print submission per Submit call: it resolves the
// caller's public address, asks the board server to print, then records a
// leaderboard entry named after that address. The three calls run in strict
// order and the first failure stops the run. Every outcome is returned as a
// Result together with a typed error, and is also logged.
//
// Client exposes the individual remote operations, including the leaderboard
// read used by RenderLeaderboard and the preview image lookup.
package printclient
