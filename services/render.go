package services

import (
	"fmt"
	"strings"

	"github.com/aditotot/Spinner/models"
)

// Message rendering. Every mirrored message is rendered in full from the
// ledger records, never patched in place, so an edit after any mutation
// always produces the current truth.

func mention(m models.LobbyMember) string {
	if m.UserID != "" {
		return fmt.Sprintf("<@%s>", m.UserID)
	}
	return fmt.Sprintf("**%s**", m.IGN)
}

func spinLobbyName(region string, lobbyNum int) string {
	return fmt.Sprintf("R1 | %s Lobby #%d", region, lobbyNum)
}

func mergedLobbyName(round, lobbyNum int) string {
	return fmt.Sprintf("R%d | LOBBY #%d", round, lobbyNum)
}

// renderActiveLobby renders the in-progress lobby message of a region.
func renderActiveLobby(region string, lobby *models.ActiveLobby) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s, Lobby %d**\n", region, lobby.LobbyNum)
	fmt.Fprintf(&b, "**Players (%d/%d):**\n", len(lobby.Members), models.LobbyCapacity)
	for _, m := range lobby.Members {
		fmt.Fprintf(&b, "• %s\n", mention(m))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSpinLobbyRecord renders an archived round-1 lobby. Records are
// archived either full or because the region's pool ran out, so the title
// reflects exactly those two states. The map line appears once a map is
// assigned.
func renderSpinLobbyRecord(rec *models.LobbyRecord) string {
	title := fmt.Sprintf("%s, Lobby %d", rec.Region, rec.LobbyNum)
	if rec.Full() {
		title = fmt.Sprintf("🟢 LOBBY FULL (%s)", title)
	} else {
		title = fmt.Sprintf("🔴 INCOMPLETE LOBBY (%s)", title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", title)
	if rec.Map != nil {
		fmt.Fprintf(&b, "🗺️ Map: **%s**\n", *rec.Map)
	}
	fmt.Fprintf(&b, "**Players (%d/%d):**\n", len(rec.Players), models.LobbyCapacity)
	for _, m := range rec.Players {
		fmt.Fprintf(&b, "• %s\n", mention(m))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMergedLobbyRecord renders the public announcement of a merged
// lobby.
func renderMergedLobbyRecord(rec *models.LobbyRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", rec.Name)
	fmt.Fprintf(&b, "👑 **Match Participants (%d total):**\n", len(rec.Players))
	for _, m := range rec.Players {
		fmt.Fprintf(&b, "• %s\n", mention(m))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMergeThreadSeed renders the first post of a merged lobby's private
// thread, with full per-player origin detail and the referee mention.
func renderMergeThreadSeed(rec *models.LobbyRecord, r1, r2 *models.MatchResult, refereeRoleID string) string {
	referee := "**[REFEREE ROLE NOT SET]**"
	if refereeRoleID != "" {
		referee = fmt.Sprintf("<@&%s>", refereeRoleID)
	}

	var b strings.Builder
	b.WriteString("**LOBBY Match!** 🏆\n")
	fmt.Fprintf(&b, "**Round:** **%d** | **Lobby:** **#%d**\n\n", rec.Round, rec.LobbyNum)
	fmt.Fprintf(&b, "**Matchup:** R%d L#%d vs R%d L#%d\n\n", r1.Round, r1.LobbyNum, r2.Round, r2.LobbyNum)
	fmt.Fprintf(&b, "**Qualified Players (%d total):**\n", len(rec.Players))
	for _, m := range rec.Players {
		fmt.Fprintf(&b, "• %s (**%s**) - Origin: %s\n", mention(m), m.IGN, m.Origin)
	}
	fmt.Fprintf(&b, "\n**Referee:** %s\n\n", referee)
	b.WriteString("Please coordinate your next match here.")
	return b.String()
}

// renderLobbyThreadWelcome renders the first post of a round-1 lobby's
// discussion thread.
func renderLobbyThreadWelcome(rec *models.LobbyRecord, refereeRoleID string) string {
	referee := "**[REFEREE ROLE NOT SET]**"
	if refereeRoleID != "" {
		referee = fmt.Sprintf("<@&%s>", refereeRoleID)
	}
	mapName := "Unmapped"
	if rec.Map != nil {
		mapName = *rec.Map
	}

	pings := make([]string, 0, len(rec.Players))
	for _, m := range rec.Players {
		pings = append(pings, mention(m))
	}

	var b strings.Builder
	b.WriteString("**Welcome to your Lobby Thread!** 🎉\n")
	fmt.Fprintf(&b, "**Match:** **%s**\n", rec.Name)
	fmt.Fprintf(&b, "**Map:** **%s**\n\n", mapName)
	fmt.Fprintf(&b, "**Players:** %s\n", strings.Join(pings, " "))
	fmt.Fprintf(&b, "**Referee:** %s\n\n", referee)
	b.WriteString("Please use this thread for communication regarding your match, reporting results, and scheduling. Good luck!")
	return b.String()
}

// renderResultSummary renders the public results-channel post for a
// reported match.
func renderResultSummary(result *models.MatchResult) string {
	pings := make([]string, 0, len(result.Winners))
	for _, w := range result.Winners {
		pings = append(pings, fmt.Sprintf("<@%s>", w.UserID))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "__**%s**__\n", result.Name)
	fmt.Fprintf(&b, "**Map:** %s\n\n", result.Map)
	fmt.Fprintf(&b, "👑 %s\n", strings.Join(pings, "\n"))
	fmt.Fprintf(&b, "Topped the lobby **%s** in **Round %d**", result.Name, result.Round)
	return b.String()
}
