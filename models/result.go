package models

import "time"

// RankedWinner is one placement inside a MatchResult. IGN and Region are
// denormalized from the lobby's frozen member list at report time.
type RankedWinner struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IGN      string `json:"ign"`
	Region   string `json:"region,omitempty"`
	LobbyNum int    `json:"lobbyNum"`
	Round    int    `json:"round"`
}

// MatchResult holds the reported placements of one lobby. ID is the
// lobby's MatchID rendered as a string; at most one result exists per id,
// re-reporting overwrites in place.
type MatchResult struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Region    string         `json:"region"`
	LobbyNum  int            `json:"lobbyNum"`
	Count     int            `json:"count"`
	Map       string         `json:"map"`
	Winners   []RankedWinner `json:"winners"`
	Round     int            `json:"round"`
	Timestamp time.Time      `json:"timestamp"`
}
