package printclient

import (
	"fmt"
	"sort"
	"strings"
)

// Operation names a remote call the client knows how to reach.
type Operation string

const (
	OpLeaderboard       Operation = "leaderboard"
	OpLeaderboardRead   Operation = "leaderboardRead"
	OpSendPrint         Operation = "sendPrint"
	OpInsertLeaderboard Operation = "insertLeaderboard"
	OpGetImage          Operation = "getImage"
	OpIdentity          Operation = "identity"
)

const (
	DefaultBaseURL     = "http://localhost:8676"
	DefaultIdentityURL = "https://api.ipify.org?format=json"
)

// Endpoints maps operations to absolute URLs. It is immutable once built and
// safe for concurrent use.
type Endpoints struct {
	urls map[Operation]string
}

// NewEndpoints derives every board operation from baseURL and uses identityURL
// for the address lookup. Empty arguments select the defaults.
func NewEndpoints(baseURL, identityURL string) Endpoints {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if identityURL == "" {
		identityURL = DefaultIdentityURL
	}
	base := strings.TrimRight(baseURL, "/")

	return Endpoints{urls: map[Operation]string{
		OpLeaderboard:       base + "/leaderboard",
		OpLeaderboardRead:   base + "/leaderboardRead",
		OpSendPrint:         base + "/sendPrint",
		OpInsertLeaderboard: base + "/leaderboardInsert",
		OpGetImage:          base + "/getImage",
		OpIdentity:          identityURL,
	}}
}

// EndpointsFromMap builds Endpoints from an explicit mapping. The map is copied.
func EndpointsFromMap(m map[Operation]string) Endpoints {
	urls := make(map[Operation]string, len(m))
	for op, u := range m {
		urls[op] = u
	}
	return Endpoints{urls: urls}
}

// Resolve returns the URL for op, or ErrUnknownOperation when none is configured.
func (e Endpoints) Resolve(op Operation) (string, error) {
	u, ok := e.urls[op]
	if !ok || u == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	return u, nil
}

// Operations lists the configured operations in name order.
func (e Endpoints) Operations() []Operation {
	ops := make([]Operation, 0, len(e.urls))
	for op := range e.urls {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
