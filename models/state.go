package models

import "time"

// SpinLog is an audit entry for a single wheel draw.
type SpinLog struct {
	WinnerIGN string    `json:"winnerIGN"`
	Region    string    `json:"currentRegion"`
	Timestamp time.Time `json:"timestamp"`
}

// BotConfig holds the mirroring destinations set up by /setup. Empty ids
// mean not configured yet.
type BotConfig struct {
	LobbyChannelID    string `json:"lobbyChannelId"`
	ResultsChannelID  string `json:"resultsChannelId"`
	ParticipantRoleID string `json:"participantRoleId"`
}

// TournamentState is the whole persisted document. It is loaded wholesale
// at start and saved wholesale after every mutation.
type TournamentState struct {
	Registrations []Registration          `json:"registrations"`
	SpinLogs      []SpinLog               `json:"spinLogs"`
	Config        BotConfig               `json:"config"`
	ActiveLobbies map[string]*ActiveLobby `json:"activeLobbies"`
	LobbyHistory  []*LobbyRecord          `json:"matchLobbyHistory"`
	Results       []*MatchResult          `json:"matchResults"`
}

// NewTournamentState returns the empty document every load falls back to.
func NewTournamentState() *TournamentState {
	return &TournamentState{
		Registrations: []Registration{},
		SpinLogs:      []SpinLog{},
		ActiveLobbies: map[string]*ActiveLobby{},
		LobbyHistory:  []*LobbyRecord{},
		Results:       []*MatchResult{},
	}
}

// Normalize fills in any top-level key missing from an older or partial
// document so the rest of the code never sees nil collections.
func (t *TournamentState) Normalize() {
	if t.Registrations == nil {
		t.Registrations = []Registration{}
	}
	if t.SpinLogs == nil {
		t.SpinLogs = []SpinLog{}
	}
	if t.ActiveLobbies == nil {
		t.ActiveLobbies = map[string]*ActiveLobby{}
	}
	if t.LobbyHistory == nil {
		t.LobbyHistory = []*LobbyRecord{}
	}
	if t.Results == nil {
		t.Results = []*MatchResult{}
	}
}
