package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aditotot/Spinner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(path, nil, logger), path
}

func TestLoadCreatesMissingFile(t *testing.T) {
	st, path := newTestStore(t)

	state := st.Load()
	require.NotNil(t, state)
	assert.Empty(t, state.Registrations)
	assert.Empty(t, state.LobbyHistory)
	assert.FileExists(t, path)
}

func TestLoadCorruptFileStartsEmpty(t *testing.T) {
	st, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	state := st.Load()
	require.NotNil(t, state)
	assert.Empty(t, state.Registrations)
	assert.NotNil(t, state.ActiveLobbies)
}

func TestLoadNormalizesPartialDocument(t *testing.T) {
	st, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"registrations":[{"userId":"u1","ign":"Alpha","region":"EU"}]}`), 0o644))

	state := st.Load()
	require.Len(t, state.Registrations, 1)
	assert.Equal(t, "Alpha", state.Registrations[0].IGN)
	assert.NotNil(t, state.SpinLogs)
	assert.NotNil(t, state.ActiveLobbies)
	assert.NotNil(t, state.LobbyHistory)
	assert.NotNil(t, state.Results)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	st, _ := newTestStore(t)

	state := models.NewTournamentState()
	state.Config = models.BotConfig{LobbyChannelID: "c1", ResultsChannelID: "c2", ParticipantRoleID: "r1"}
	state.Registrations = append(state.Registrations, models.Registration{
		UserID: "u1", Username: "alpha", IGN: "Alpha", Region: "EU",
	})
	state.ActiveLobbies["EU"] = &models.ActiveLobby{
		LobbyNum: 2,
		Members:  []models.LobbyMember{{UserID: "u1", IGN: "Alpha", Region: "EU"}},
	}
	mapName := "Erangel"
	state.LobbyHistory = append(state.LobbyHistory, &models.LobbyRecord{
		MatchID:  1,
		Name:     "R1 | EU Lobby #1",
		Round:    1,
		Region:   "EU",
		LobbyNum: 1,
		Players:  []models.LobbyMember{{UserID: "u1", IGN: "Alpha"}},
		Map:      &mapName,
		Type:     models.LobbyTypeSpin,
	})
	state.Results = append(state.Results, &models.MatchResult{
		ID: "1", Name: "R1 | EU Lobby #1", Region: "EU", LobbyNum: 1, Count: 1, Map: "Erangel", Round: 1,
		Winners: []models.RankedWinner{{Rank: 1, UserID: "u1", IGN: "Alpha", Region: "EU", LobbyNum: 1, Round: 1}},
	})

	require.NoError(t, st.Save(state))

	loaded := st.Load()
	assert.Equal(t, state.Config, loaded.Config)
	assert.Equal(t, state.Registrations, loaded.Registrations)
	require.Contains(t, loaded.ActiveLobbies, "EU")
	assert.Equal(t, state.ActiveLobbies["EU"], loaded.ActiveLobbies["EU"])
	require.Len(t, loaded.LobbyHistory, 1)
	assert.Equal(t, state.LobbyHistory[0], loaded.LobbyHistory[0])
	require.Len(t, loaded.Results, 1)
	assert.Equal(t, "1", loaded.Results[0].ID)
	assert.Equal(t, 1, loaded.Results[0].Winners[0].Rank)
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	st, path := newTestStore(t)
	require.NoError(t, st.Save(models.NewTournamentState()))

	assert.NoFileExists(t, path+".tmp")
	assert.FileExists(t, path)
}
