package models

import "time"

type LobbyType string

const (
	LobbyTypeSpin   LobbyType = "spin"   // round 1, filled by wheel draws
	LobbyTypeMerged LobbyType = "merged" // round >= 2, built from two results
)

// LobbyCapacity is the fixed number of seats in a round-1 lobby.
const LobbyCapacity = 8

// LobbyMember is a frozen seat in a lobby. UserID is empty when the drawn
// winner never registered. Origin carries lineage for merged lobbies
// ("R1 L#2 EU"), empty for round-1 members.
type LobbyMember struct {
	UserID string `json:"userId"`
	IGN    string `json:"ign"`
	Region string `json:"region,omitempty"`
	Origin string `json:"origin,omitempty"`
}

// ActiveLobby is the in-progress lobby of one region. It is transient:
// once archived to the history its number advances and the members clear.
type ActiveLobby struct {
	LobbyNum  int           `json:"lobbyNum"`
	Members   []LobbyMember `json:"members"`
	MessageID string        `json:"messageId,omitempty"`
}

// LobbyRecord is an archived lobby. MatchID is the single global identity:
// monotonic across the whole history, never reused, and the join key to a
// MatchResult. Records are immutable except for Map and the message/thread
// handles.
type LobbyRecord struct {
	MatchID       int           `json:"matchId"`
	Name          string        `json:"name"`
	Round         int           `json:"round"`
	Region        string        `json:"region,omitempty"`
	LobbyNum      int           `json:"lobbyNum"`
	Players       []LobbyMember `json:"players"`
	Map           *string       `json:"map"`
	MapAssignedAt *time.Time    `json:"mapAssignedTimestamp,omitempty"`
	MessageID     string        `json:"messageId,omitempty"`
	ThreadID      string        `json:"threadId,omitempty"`
	Type          LobbyType     `json:"type"`
	SourceResults []string      `json:"sourceResults,omitempty"`
}

// Full reports whether every seat is taken.
func (l *LobbyRecord) Full() bool {
	return len(l.Players) == LobbyCapacity
}
