// Package bot exposes the operator surface as Discord slash commands.
package bot

import (
	"fmt"
	"log/slog"

	"github.com/aditotot/Spinner/services"
	"github.com/bwmarrin/discordgo"
)

// ParticipantRoleName is the role handed to every registered participant.
const ParticipantRoleName = "PARTICIPANT"

const maxAutocompleteChoices = 25

type Bot struct {
	session      *discordgo.Session
	guildID      string
	progression  *services.ProgressionService
	registration *services.RegistrationService
	state        *services.State
	logger       *slog.Logger
}

func New(
	session *discordgo.Session,
	guildID string,
	progression *services.ProgressionService,
	registration *services.RegistrationService,
	state *services.State,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		session:      session,
		guildID:      guildID,
		progression:  progression,
		registration: registration,
		state:        state,
		logger:       logger,
	}
}

// Start registers gateway handlers and opens the session. Slash commands
// are (re)registered once the gateway reports ready.
func (b *Bot) Start() error {
	b.session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsGuildMembers
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in to Discord", slog.String("user", r.User.Username))
	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.guildID, commandDefinitions()); err != nil {
		b.logger.Error("failed to register slash commands", slog.Any("error", err))
		return
	}
	b.logger.Info("registered slash commands")
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case "setup":
			b.handleSetup(s, i)
		case "register":
			b.handleRegister(s, i)
		case "manual_register":
			b.handleManualRegister(s, i)
		case "list_registrations":
			b.handleListRegistrations(s, i)
		case "winner":
			b.handleWinner(s, i)
		case "merge_lobby_threads":
			b.handleMerge(s, i)
		case "thread":
			b.handleThread(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	}
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	minRound := float64(2)

	regionChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(regionNames()))
	for _, r := range regionNames() {
		regionChoices = append(regionChoices, &discordgo.ApplicationCommandOptionChoice{Name: r, Value: r})
	}

	winnerOptions := []*discordgo.ApplicationCommandOption{
		{
			Name:         "lobby",
			Description:  "The match lobby to report results for.",
			Type:         discordgo.ApplicationCommandOptionString,
			Required:     true,
			Autocomplete: true,
		},
	}
	for rank := 1; rank <= services.MaxRankedWinners; rank++ {
		winnerOptions = append(winnerOptions, &discordgo.ApplicationCommandOption{
			Name:        fmt.Sprintf("winner%d", rank),
			Description: fmt.Sprintf("The place %d winner.", rank),
			Type:        discordgo.ApplicationCommandOptionUser,
			Required:    rank == 1,
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "setup",
			Description: "Sets up tournament channels and the participant role.",
		},
		{
			Name:        "register",
			Description: "Registers your IGN and region for the spin wheel.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "ign",
					Description: "Your In-Game Name (IGN).",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "region",
					Description: "Your region.",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices:     regionChoices,
				},
			},
		},
		{
			Name:        "manual_register",
			Description: "Manually registers a user by ping, IGN, and region (staff only).",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "The user to register (ping).",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "ign",
					Description: "The In-Game Name (IGN) of the user.",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "region",
					Description: "The region of the user.",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices:     regionChoices,
				},
			},
		},
		{
			Name:        "list_registrations",
			Description: "Lists all registered participants and regional totals.",
		},
		{
			Name:        "winner",
			Description: "Logs the winners of a completed lobby match.",
			Options:     winnerOptions,
		},
		{
			Name:        "merge_lobby_threads",
			Description: "Merges top winners from two results into a new round bracket.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "round_number",
					Description: "The number of the NEW bracket round being created (e.g. 2).",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Required:    true,
					MinValue:    &minRound,
				},
				{
					Name:         "lobby_result_1",
					Description:  "The first match result to merge.",
					Type:         discordgo.ApplicationCommandOptionString,
					Required:     true,
					Autocomplete: true,
				},
				{
					Name:         "lobby_result_2",
					Description:  "The second match result to merge.",
					Type:         discordgo.ApplicationCommandOptionString,
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		{
			Name:        "thread",
			Description: "Creates a dedicated private thread for a completed lobby.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:         "lobby",
					Description:  "The mapped lobby to open a thread for.",
					Type:         discordgo.ApplicationCommandOptionString,
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}
