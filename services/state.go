package services

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/aditotot/Spinner/models"
)

// State owns the in-memory ledgers. Every handler runs to completion under
// one lock, so ledger reads and writes never interleave mid-operation; the
// progression and registration services are the only writers, read-side
// callers get copies.
type State struct {
	mu   sync.Mutex
	data *models.TournamentState
}

func NewState(data *models.TournamentState) *State {
	data.Normalize()
	return &State{data: data}
}

func (s *State) lock() *models.TournamentState {
	s.mu.Lock()
	return s.data
}

func (s *State) unlock() {
	s.mu.Unlock()
}

// nextMatchID allocates the next global lobby identity: one past the
// highest ever assigned, so ids are strictly increasing and never reused.
func nextMatchID(data *models.TournamentState) int {
	maxID := 0
	for _, l := range data.LobbyHistory {
		if l.MatchID > maxID {
			maxID = l.MatchID
		}
	}
	return maxID + 1
}

func findLobby(data *models.TournamentState, matchID int) *models.LobbyRecord {
	for _, l := range data.LobbyHistory {
		if l.MatchID == matchID {
			return l
		}
	}
	return nil
}

func findResult(data *models.TournamentState, id string) *models.MatchResult {
	for _, r := range data.Results {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func findRegistrationByIGN(data *models.TournamentState, ign string) *models.Registration {
	for i := range data.Registrations {
		if data.Registrations[i].IGN == ign {
			return &data.Registrations[i]
		}
	}
	return nil
}

func countRoundLobbies(data *models.TournamentState, round int) int {
	n := 0
	for _, l := range data.LobbyHistory {
		if l.Round == round {
			n++
		}
	}
	return n
}

// Option is a read-side (id, label) pair for dropdowns and autocomplete.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListUnmappedFullLobbies returns archived round-1 lobbies that are full
// but have no map assigned yet. Drives the map-assignment wheel.
func (s *State) ListUnmappedFullLobbies() []Option {
	data := s.lock()
	defer s.unlock()

	options := []Option{}
	for _, l := range data.LobbyHistory {
		if l.Type == models.LobbyTypeSpin && l.Map == nil && l.Full() {
			options = append(options, Option{ID: strconv.Itoa(l.MatchID), Name: l.Name})
		}
	}
	return options
}

// ListMergeableResults returns every reported result, whether or not it was
// merged before. Re-merging is a deliberate operator choice (bracket
// repair), so nothing is filtered out here.
func (s *State) ListMergeableResults() []Option {
	data := s.lock()
	defer s.unlock()

	options := []Option{}
	for _, r := range data.Results {
		options = append(options, Option{
			ID:   r.ID,
			Name: fmt.Sprintf("%s - R%d", r.Name, r.Round),
		})
	}
	return options
}

// ListUnresultedLobbies returns archived lobbies with no reported result,
// newest first, filtered by a case-insensitive substring of the display
// name.
func (s *State) ListUnresultedLobbies(input string) []Option {
	data := s.lock()
	defer s.unlock()

	input = strings.ToLower(input)
	options := []Option{}
	for i := len(data.LobbyHistory) - 1; i >= 0; i-- {
		l := data.LobbyHistory[i]
		if findResult(data, strconv.Itoa(l.MatchID)) != nil {
			continue
		}
		name := l.Name
		if l.Map != nil {
			name += fmt.Sprintf(" (Map: %s)", *l.Map)
		}
		if input != "" && !strings.Contains(strings.ToLower(name), input) {
			continue
		}
		options = append(options, Option{ID: strconv.Itoa(l.MatchID), Name: name})
	}
	return options
}

// ListUnthreadedMappedLobbies returns round-1 lobbies that have a map but
// no discussion thread yet.
func (s *State) ListUnthreadedMappedLobbies() []Option {
	data := s.lock()
	defer s.unlock()

	options := []Option{}
	for _, l := range data.LobbyHistory {
		if l.Type == models.LobbyTypeSpin && l.ThreadID == "" && l.Map != nil {
			options = append(options, Option{ID: strconv.Itoa(l.MatchID), Name: l.Name})
		}
	}
	return options
}

// Registrations returns a copy of the registration ledger.
func (s *State) Registrations() []models.Registration {
	data := s.lock()
	defer s.unlock()

	out := make([]models.Registration, len(data.Registrations))
	copy(out, data.Registrations)
	return out
}
