package leaderboardservice

import "errors"

// Row is one ranked participant as served to clients.
type Row struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Cost  int    `json:"cost"`
}

// EntryFilter selects the entry an update applies to.
type EntryFilter struct {
	Name string `json:"name"`
}

// EntryUpdate carries the fields to overwrite. Nil fields are unchanged.
type EntryUpdate struct {
	Score *int `json:"score,omitempty"`
	Cost  *int `json:"cost,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u EntryUpdate) IsEmpty() bool { return u.Score == nil && u.Cost == nil }

// RecordOutcome describes what RecordEntry did.
type RecordOutcome struct {
	Name    string
	Created bool
}

var (
	ErrEmptyName   = errors.New("name is required")
	ErrEmptyFilter = errors.New("filter is required")
	ErrEmptyUpdate = errors.New("update is required")
)
