package services

import (
	"testing"

	"github.com/aditotot/Spinner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededState(lobbies []*models.LobbyRecord, results []*models.MatchResult) *State {
	data := models.NewTournamentState()
	data.LobbyHistory = lobbies
	data.Results = results
	return NewState(data)
}

func strptr(s string) *string { return &s }

func fullPlayers() []models.LobbyMember {
	players := make([]models.LobbyMember, models.LobbyCapacity)
	for i := range players {
		players[i] = models.LobbyMember{IGN: "p"}
	}
	return players
}

func TestListUnmappedFullLobbies(t *testing.T) {
	state := seededState([]*models.LobbyRecord{
		{MatchID: 1, Name: "R1 | EU Lobby #1", Type: models.LobbyTypeSpin, Players: fullPlayers()},
		{MatchID: 2, Name: "R1 | EU Lobby #2", Type: models.LobbyTypeSpin, Players: fullPlayers(), Map: strptr("Erangel")},
		{MatchID: 3, Name: "R1 | AU Lobby #1", Type: models.LobbyTypeSpin, Players: []models.LobbyMember{{IGN: "solo"}}},
		{MatchID: 4, Name: "R2 | LOBBY #1", Type: models.LobbyTypeMerged, Players: fullPlayers()},
	}, nil)

	options := state.ListUnmappedFullLobbies()
	require.Len(t, options, 1, "mapped, short, and merged lobbies are excluded")
	assert.Equal(t, Option{ID: "1", Name: "R1 | EU Lobby #1"}, options[0])
}

func TestListUnresultedLobbies(t *testing.T) {
	state := seededState([]*models.LobbyRecord{
		{MatchID: 1, Name: "R1 | EU Lobby #1", Type: models.LobbyTypeSpin, Map: strptr("Erangel")},
		{MatchID: 2, Name: "R1 | AU Lobby #1", Type: models.LobbyTypeSpin},
		{MatchID: 3, Name: "R1 | EU Lobby #2", Type: models.LobbyTypeSpin},
	}, []*models.MatchResult{
		{ID: "2", Name: "R1 | AU Lobby #1"},
	})

	options := state.ListUnresultedLobbies("")
	require.Len(t, options, 2)
	assert.Equal(t, "3", options[0].ID, "newest lobby first")
	assert.Equal(t, "R1 | EU Lobby #1 (Map: Erangel)", options[1].Name)

	options = state.ListUnresultedLobbies("erangel")
	require.Len(t, options, 1)
	assert.Equal(t, "1", options[0].ID)
}

func TestListMergeableResultsKeepsEverything(t *testing.T) {
	state := seededState(nil, []*models.MatchResult{
		{ID: "1", Name: "R1 | EU Lobby #1", Round: 1},
		{ID: "3", Name: "R2 | LOBBY #1", Round: 2},
	})

	options := state.ListMergeableResults()
	require.Len(t, options, 2)
	assert.Equal(t, "R1 | EU Lobby #1 - R1", options[0].Name)
	assert.Equal(t, "R2 | LOBBY #1 - R2", options[1].Name)
}

func TestListUnthreadedMappedLobbies(t *testing.T) {
	state := seededState([]*models.LobbyRecord{
		{MatchID: 1, Name: "mapped", Type: models.LobbyTypeSpin, Map: strptr("Erangel")},
		{MatchID: 2, Name: "threaded", Type: models.LobbyTypeSpin, Map: strptr("Miramar"), ThreadID: "t-1"},
		{MatchID: 3, Name: "unmapped", Type: models.LobbyTypeSpin},
	}, nil)

	options := state.ListUnthreadedMappedLobbies()
	require.Len(t, options, 1)
	assert.Equal(t, "1", options[0].ID)
}

func TestNextMatchIDNeverReuses(t *testing.T) {
	data := models.NewTournamentState()
	assert.Equal(t, 1, nextMatchID(data))

	// Gaps in the history never cause reuse; the allocator tracks the
	// highest identity ever assigned.
	data.LobbyHistory = []*models.LobbyRecord{{MatchID: 2}, {MatchID: 7}, {MatchID: 4}}
	assert.Equal(t, 8, nextMatchID(data))
}
