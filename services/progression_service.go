package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aditotot/Spinner/live"
	"github.com/aditotot/Spinner/models"
	"github.com/aditotot/Spinner/notify"
	"github.com/aditotot/Spinner/store"
)

// MaxRankedWinners is the deepest placement a result can carry.
const MaxRankedWinners = 5

// ProgressionService is the round-progression engine: it is the only
// writer of the lobby and result ledgers. Draws grow per-region lobbies and
// archive them under a fresh global matchId; merges fold two results into a
// new-round lobby. Ledger mutations are persisted before any mirroring, so
// a mirror failure can never roll state back.
type ProgressionService struct {
	state         *State
	store         *store.Store
	notifier      notify.Notifier
	hub           *live.Hub
	refereeRoleID string
	logger        *slog.Logger
}

func NewProgressionService(
	state *State,
	st *store.Store,
	notifier notify.Notifier,
	hub *live.Hub,
	refereeRoleID string,
	logger *slog.Logger,
) *ProgressionService {
	return &ProgressionService{
		state:         state,
		store:         st,
		notifier:      notifier,
		hub:           hub,
		refereeRoleID: refereeRoleID,
		logger:        logger,
	}
}

// persist flushes the whole document. Persistence failures are logged and
// swallowed: the in-memory ledgers stay authoritative for the process.
func (s *ProgressionService) persist(data *models.TournamentState) {
	if err := s.store.Save(data); err != nil {
		s.logger.Error("failed to persist tournament state", slog.Any("error", err))
	}
}

// Configure records the mirroring destinations created by /setup.
func (s *ProgressionService) Configure(lobbyChannelID, resultsChannelID, participantRoleID string) {
	data := s.state.lock()
	defer s.state.unlock()

	data.Config = models.BotConfig{
		LobbyChannelID:    lobbyChannelID,
		ResultsChannelID:  resultsChannelID,
		ParticipantRoleID: participantRoleID,
	}
	s.persist(data)
}

type DrawOutcome struct {
	LobbyNum int  `json:"lobbyNum"`
	Count    int  `json:"count"`
	Archived bool `json:"archived"`
	MatchID  int  `json:"matchId,omitempty"`
}

// archiveActive freezes the region's in-progress lobby into the history
// under the next global matchId and resets the transient state for the
// next lobby.
func archiveActive(data *models.TournamentState, region string, lobby *models.ActiveLobby) *models.LobbyRecord {
	players := make([]models.LobbyMember, len(lobby.Members))
	copy(players, lobby.Members)

	rec := &models.LobbyRecord{
		MatchID:   nextMatchID(data),
		Name:      spinLobbyName(region, lobby.LobbyNum),
		Round:     1,
		Region:    region,
		LobbyNum:  lobby.LobbyNum,
		Players:   players,
		MessageID: lobby.MessageID,
		Type:      models.LobbyTypeSpin,
	}
	data.LobbyHistory = append(data.LobbyHistory, rec)

	lobby.LobbyNum++
	lobby.Members = nil
	lobby.MessageID = ""
	return rec
}

// AdvanceDraw seats one drawn winner in their region's in-progress lobby.
// The lobby is archived the moment it fills, and also when the region's
// pool runs out with seats to spare, so the last lobby of a region never
// stays stranded in transient state.
func (s *ProgressionService) AdvanceDraw(ctx context.Context, winnerIGN, region string, namesRemaining int) (*DrawOutcome, error) {
	winnerIGN = strings.TrimSpace(winnerIGN)
	if winnerIGN == "" {
		return nil, ErrWinnerRequired
	}
	region = models.NormalizeRegion(region)
	if region == "" {
		return nil, ErrRegionRequired
	}

	data := s.state.lock()
	defer s.state.unlock()

	if data.Config.LobbyChannelID == "" {
		return nil, ErrChannelNotConfigured
	}

	member := models.LobbyMember{IGN: winnerIGN, Region: region}
	if reg := findRegistrationByIGN(data, winnerIGN); reg != nil {
		member.UserID = reg.UserID
	}

	data.SpinLogs = append(data.SpinLogs, models.SpinLog{
		WinnerIGN: winnerIGN,
		Region:    region,
		Timestamp: time.Now().UTC(),
	})

	lobby := data.ActiveLobbies[region]
	if lobby == nil {
		lobby = &models.ActiveLobby{LobbyNum: 1}
		data.ActiveLobbies[region] = lobby
	}

	// Rollover guard before seating: an older document may have left a
	// full lobby in transient state.
	var staleRec *models.LobbyRecord
	if len(lobby.Members) >= models.LobbyCapacity {
		staleRec = archiveActive(data, region, lobby)
	}

	lobby.Members = append(lobby.Members, member)

	var archivedRec *models.LobbyRecord
	if len(lobby.Members) == models.LobbyCapacity || namesRemaining == 0 {
		archivedRec = archiveActive(data, region, lobby)
	}

	// Ledger first, mirroring second.
	s.persist(data)

	if staleRec != nil {
		s.mirrorLobbyRecord(ctx, data, staleRec)
	}

	if member.UserID != "" && data.Config.ParticipantRoleID != "" {
		if err := s.notifier.AssignRole(ctx, member.UserID, data.Config.ParticipantRoleID); err != nil {
			s.logger.Warn("failed to assign participant role",
				slog.String("user_id", member.UserID), slog.Any("error", err))
		}
	}

	outcome := &DrawOutcome{}
	if archivedRec != nil {
		outcome.LobbyNum = archivedRec.LobbyNum
		outcome.Count = len(archivedRec.Players)
		outcome.Archived = true
		outcome.MatchID = archivedRec.MatchID
		s.mirrorLobbyRecord(ctx, data, archivedRec)
	} else {
		outcome.LobbyNum = lobby.LobbyNum
		outcome.Count = len(lobby.Members)
		messageID, err := s.notifier.PublishLobby(ctx, data.Config.LobbyChannelID, lobby.MessageID, renderActiveLobby(region, lobby))
		if err != nil {
			s.logger.Error("failed to mirror lobby message",
				slog.String("region", region), slog.Any("error", err))
		} else if messageID != lobby.MessageID {
			lobby.MessageID = messageID
			s.persist(data)
		}
	}

	s.broadcastLobby(region, lobby, archivedRec)
	return outcome, nil
}

// mirrorLobbyRecord re-renders an archived lobby's message from the record
// and edits it in place (or posts it fresh). Failures are logged only.
func (s *ProgressionService) mirrorLobbyRecord(ctx context.Context, data *models.TournamentState, rec *models.LobbyRecord) {
	if data.Config.LobbyChannelID == "" {
		return
	}
	content := renderSpinLobbyRecord(rec)
	if rec.Type == models.LobbyTypeMerged {
		content = renderMergedLobbyRecord(rec)
	}
	messageID, err := s.notifier.PublishLobby(ctx, data.Config.LobbyChannelID, rec.MessageID, content)
	if err != nil {
		s.logger.Error("failed to mirror archived lobby message",
			slog.Int("match_id", rec.MatchID), slog.Any("error", err))
		return
	}
	if messageID != rec.MessageID {
		rec.MessageID = messageID
		s.persist(data)
	}
}

// LobbySnapshot is the live view pushed to connected wheel clients.
type LobbySnapshot struct {
	Region   string               `json:"region"`
	LobbyNum int                  `json:"lobbyNum"`
	Count    int                  `json:"count"`
	Members  []models.LobbyMember `json:"members"`
	Archived *models.LobbyRecord  `json:"archived,omitempty"`
}

func (s *ProgressionService) broadcastLobby(region string, lobby *models.ActiveLobby, archived *models.LobbyRecord) {
	if s.hub == nil {
		return
	}
	members := make([]models.LobbyMember, len(lobby.Members))
	copy(members, lobby.Members)
	s.hub.BroadcastJSON(live.Message{
		Type: "LOBBY_UPDATED",
		Payload: LobbySnapshot{
			Region:   region,
			LobbyNum: lobby.LobbyNum,
			Count:    len(members),
			Members:  members,
			Archived: archived,
		},
	})
}

// AssignMap sets the map of an archived lobby. Last write wins; the
// mirrored message is re-rendered from the record. Returns the lobby name.
func (s *ProgressionService) AssignMap(ctx context.Context, matchID int, mapName string) (string, error) {
	mapName = strings.TrimSpace(mapName)
	if mapName == "" {
		return "", ErrMapNameRequired
	}

	data := s.state.lock()
	defer s.state.unlock()

	rec := findLobby(data, matchID)
	if rec == nil {
		return "", ErrLobbyNotFound
	}

	now := time.Now().UTC()
	rec.Map = &mapName
	rec.MapAssignedAt = &now
	s.persist(data)

	if rec.MessageID != "" {
		s.mirrorLobbyRecord(ctx, data, rec)
	}
	return rec.Name, nil
}

type MergeOutcome struct {
	MatchID  int
	Round    int
	LobbyNum int
	Name     string
	ThreadID string
}

// MergeResults folds the winners of two reported results into a new-round
// lobby: r1's winners first, then r2's, each tagged with its origin. A
// public announcement and a detached private thread mirror the new lobby.
// Results are never consumed: the same result may feed another merge, and
// every merge mints a fresh matchId.
func (s *ProgressionService) MergeResults(ctx context.Context, round int, resultID1, resultID2 string) (*MergeOutcome, error) {
	if round < 2 {
		return nil, ErrRoundTooLow
	}

	data := s.state.lock()
	defer s.state.unlock()

	if data.Config.LobbyChannelID == "" {
		return nil, ErrChannelNotConfigured
	}

	r1 := findResult(data, resultID1)
	r2 := findResult(data, resultID2)
	if r1 == nil || r2 == nil {
		return nil, ErrResultNotFound
	}

	players := make([]models.LobbyMember, 0, len(r1.Winners)+len(r2.Winners))
	for _, src := range []*models.MatchResult{r1, r2} {
		origin := fmt.Sprintf("R%d L#%d %s", src.Round, src.LobbyNum, src.Region)
		for _, w := range src.Winners {
			players = append(players, models.LobbyMember{
				UserID: w.UserID,
				IGN:    w.IGN,
				Region: w.Region,
				Origin: origin,
			})
		}
	}

	lobbyNum := countRoundLobbies(data, round) + 1
	rec := &models.LobbyRecord{
		MatchID:       nextMatchID(data),
		Name:          mergedLobbyName(round, lobbyNum),
		Round:         round,
		LobbyNum:      lobbyNum,
		Players:       players,
		Type:          models.LobbyTypeMerged,
		SourceResults: []string{r1.ID, r2.ID},
	}
	data.LobbyHistory = append(data.LobbyHistory, rec)
	s.persist(data)

	messageID, err := s.notifier.PublishLobby(ctx, data.Config.LobbyChannelID, "", renderMergedLobbyRecord(rec))
	if err != nil {
		s.logger.Error("failed to announce merged lobby",
			slog.Int("match_id", rec.MatchID), slog.Any("error", err))
	} else {
		rec.MessageID = messageID
	}

	threadID, err := s.notifier.CreateThread(ctx, data.Config.LobbyChannelID, rec.Name, renderMergeThreadSeed(rec, r1, r2, s.refereeRoleID))
	if err != nil {
		s.logger.Error("failed to create merged lobby thread",
			slog.Int("match_id", rec.MatchID), slog.Any("error", err))
	}
	if threadID != "" {
		rec.ThreadID = threadID
		s.addThreadMembers(ctx, threadID, rec.Players)
	}
	s.persist(data)

	return &MergeOutcome{
		MatchID:  rec.MatchID,
		Round:    rec.Round,
		LobbyNum: rec.LobbyNum,
		Name:     rec.Name,
		ThreadID: rec.ThreadID,
	}, nil
}

func (s *ProgressionService) addThreadMembers(ctx context.Context, threadID string, players []models.LobbyMember) {
	for _, m := range players {
		if m.UserID == "" {
			continue
		}
		if err := s.notifier.AddThreadMember(ctx, threadID, m.UserID); err != nil {
			s.logger.Warn("could not add player to private thread",
				slog.String("user_id", m.UserID), slog.Any("error", err))
		}
	}
}

// ReportedWinner is one placement handed in by the operator, in rank
// order.
type ReportedWinner struct {
	UserID   string
	Username string
}

// ReportResult upserts the ranked placements of an archived lobby: at most
// one result exists per matchId and the latest report wins. Display names
// resolve from the lobby's frozen member list, with a placeholder for late
// substitutions.
func (s *ProgressionService) ReportResult(ctx context.Context, matchID int, winners []ReportedWinner) (*models.MatchResult, error) {
	if len(winners) == 0 {
		return nil, ErrNoWinners
	}
	if len(winners) > MaxRankedWinners {
		return nil, fmt.Errorf("%w: at most %d placements", ErrValidationFailed, MaxRankedWinners)
	}

	data := s.state.lock()
	defer s.state.unlock()

	rec := findLobby(data, matchID)
	if rec == nil {
		return nil, ErrLobbyNotFound
	}

	mapName := "N/A (Merged Lobbies)"
	if rec.Map != nil {
		mapName = *rec.Map
	}

	ranked := make([]models.RankedWinner, 0, len(winners))
	for i, w := range winners {
		ign := "N/A"
		region := rec.Region
		for _, p := range rec.Players {
			if p.UserID != "" && p.UserID == w.UserID {
				ign = p.IGN
				if p.Region != "" {
					region = p.Region
				}
				break
			}
		}
		ranked = append(ranked, models.RankedWinner{
			Rank:     i + 1,
			UserID:   w.UserID,
			Username: w.Username,
			IGN:      ign,
			Region:   region,
			LobbyNum: rec.LobbyNum,
			Round:    rec.Round,
		})
	}

	resultRegion := rec.Region
	if resultRegion == "" {
		resultRegion = "MERGED"
	}

	result := &models.MatchResult{
		ID:        strconv.Itoa(matchID),
		Name:      rec.Name,
		Region:    resultRegion,
		LobbyNum:  rec.LobbyNum,
		Count:     len(ranked),
		Map:       mapName,
		Winners:   ranked,
		Round:     rec.Round,
		Timestamp: time.Now().UTC(),
	}

	replaced := false
	for i, r := range data.Results {
		if r.ID == result.ID {
			data.Results[i] = result
			replaced = true
			break
		}
	}
	if !replaced {
		data.Results = append(data.Results, result)
	}
	s.persist(data)

	if data.Config.ResultsChannelID != "" {
		if err := s.notifier.PublishResult(ctx, data.Config.ResultsChannelID, renderResultSummary(result)); err != nil {
			s.logger.Error("failed to publish result summary",
				slog.Int("match_id", matchID), slog.Any("error", err))
		}
	}
	return result, nil
}

// CreateLobbyThread starts the discussion thread of an archived round-1
// lobby, attached to its mirrored message when one exists. Unlike the
// mirroring above, the thread is the whole point of this operation, so a
// creation failure fails the call.
func (s *ProgressionService) CreateLobbyThread(ctx context.Context, matchID int) (string, error) {
	data := s.state.lock()
	defer s.state.unlock()

	if data.Config.LobbyChannelID == "" {
		return "", ErrChannelNotConfigured
	}
	rec := findLobby(data, matchID)
	if rec == nil {
		return "", ErrLobbyNotFound
	}
	if rec.ThreadID != "" {
		return "", ErrThreadExists
	}

	name := rec.Name
	if rec.Map != nil {
		name += " | " + *rec.Map
	}
	welcome := renderLobbyThreadWelcome(rec, s.refereeRoleID)

	var threadID string
	var err error
	if rec.MessageID != "" {
		threadID, err = s.notifier.CreateMessageThread(ctx, data.Config.LobbyChannelID, rec.MessageID, name, welcome)
	} else {
		threadID, err = s.notifier.CreateThread(ctx, data.Config.LobbyChannelID, name, welcome)
	}
	if err != nil && threadID == "" {
		return "", err
	}
	if err != nil {
		// Thread exists but seeding failed; keep it and move on.
		s.logger.Warn("thread created but seeding failed",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}

	rec.ThreadID = threadID
	s.addThreadMembers(ctx, threadID, rec.Players)
	s.persist(data)
	return threadID, nil
}
