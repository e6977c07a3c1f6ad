package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aditotot/Spinner/models"
	"github.com/aditotot/Spinner/services"
	"github.com/bwmarrin/discordgo"
)

func regionNames() []string {
	return models.Regions
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

func hasPermission(i *discordgo.InteractionCreate, perm int64) bool {
	return i.Member != nil && i.Member.Permissions&perm != 0
}

func optionMap(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		opts[opt.Name] = opt
	}
	return opts
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: flags},
	})
	if err != nil {
		b.logger.Error("failed to respond to interaction", slog.Any("error", err))
	}
}

func (b *Bot) deferReply(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags},
	})
	if err != nil {
		b.logger.Error("failed to defer interaction", slog.Any("error", err))
	}
}

func (b *Bot) editReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		b.logger.Error("failed to edit interaction reply", slog.Any("error", err))
	}
}

// handleSetup creates the tournament category, the lobbies and results
// channels, and the participant role, then records them as the mirroring
// destinations.
func (b *Bot) handleSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasPermission(i, discordgo.PermissionAdministrator) {
		b.respond(s, i, "You need administrator permission to run this command.", true)
		return
	}
	b.deferReply(s, i, true)

	category, err := s.GuildChannelCreateComplex(b.guildID, discordgo.GuildChannelCreateData{
		Name: "TOURNAMENT",
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		b.logger.Error("setup failed to create category", slog.Any("error", err))
		b.editReply(s, i, "❌ Setup failed! Check bot permissions (Manage Channels/Roles).")
		return
	}

	lobbiesChannel, err := s.GuildChannelCreateComplex(b.guildID, discordgo.GuildChannelCreateData{
		Name:     "lobbies",
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: category.ID,
	})
	if err != nil {
		b.logger.Error("setup failed to create lobbies channel", slog.Any("error", err))
		b.editReply(s, i, "❌ Setup failed! Check bot permissions (Manage Channels/Roles).")
		return
	}
	resultsChannel, err := s.GuildChannelCreateComplex(b.guildID, discordgo.GuildChannelCreateData{
		Name:     "results",
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: category.ID,
	})
	if err != nil {
		b.logger.Error("setup failed to create results channel", slog.Any("error", err))
		b.editReply(s, i, "❌ Setup failed! Check bot permissions (Manage Channels/Roles).")
		return
	}

	roleID, err := b.ensureParticipantRole(s)
	if err != nil {
		b.logger.Error("setup failed to create participant role", slog.Any("error", err))
		b.editReply(s, i, "❌ Setup failed! Check bot permissions (Manage Channels/Roles).")
		return
	}

	b.progression.Configure(lobbiesChannel.ID, resultsChannel.ID, roleID)
	b.editReply(s, i, fmt.Sprintf(
		"✅ Setup complete! Created category **TOURNAMENT**, channels, and the **@%s** role.",
		ParticipantRoleName))
}

func (b *Bot) ensureParticipantRole(s *discordgo.Session) (string, error) {
	roles, err := s.GuildRoles(b.guildID)
	if err != nil {
		return "", err
	}
	for _, role := range roles {
		if role.Name == ParticipantRoleName {
			return role.ID, nil
		}
	}
	gold := 0xFFD700
	role, err := s.GuildRoleCreate(b.guildID, &discordgo.RoleParams{
		Name:  ParticipantRoleName,
		Color: &gold,
	})
	if err != nil {
		return "", err
	}
	return role.ID, nil
}

func (b *Bot) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := optionMap(i.ApplicationCommandData())
	user := interactionUser(i)

	reg, err := b.registration.Register(context.Background(), user.ID, user.Username,
		opts["ign"].StringValue(), opts["region"].StringValue())
	if err != nil {
		b.respond(s, i, "❌ "+err.Error(), true)
		return
	}
	b.respond(s, i, fmt.Sprintf("✅ Registration successful! IGN: **%s**, Region: **%s**", reg.IGN, reg.Region), true)
}

func (b *Bot) handleManualRegister(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasPermission(i, discordgo.PermissionKickMembers) {
		b.respond(s, i, "You need permission to manually register users.", true)
		return
	}
	opts := optionMap(i.ApplicationCommandData())
	user := opts["user"].UserValue(s)

	reg, err := b.registration.Register(context.Background(), user.ID, user.Username,
		opts["ign"].StringValue(), opts["region"].StringValue())
	if err != nil {
		b.respond(s, i, "❌ "+err.Error(), true)
		return
	}
	b.respond(s, i, fmt.Sprintf("✅ Manual registration updated for %s! IGN: **%s**, Region: **%s**",
		user.Username, reg.IGN, reg.Region), true)
}

func (b *Bot) handleListRegistrations(s *discordgo.Session, i *discordgo.InteractionCreate) {
	groups, total := b.registration.GroupedRegistrations()

	embed := &discordgo.MessageEmbed{
		Color:       0xFFA500,
		Title:       "👑 Tournament Registrations",
		Description: fmt.Sprintf("Total Registered Participants: **%d**", total),
	}

	var summary strings.Builder
	for _, groupName := range []string{models.RegionGroup1, models.RegionGroup2} {
		regs := groups[groupName]
		var list strings.Builder
		for _, reg := range regs {
			fmt.Fprintf(&list, "• <@%s> (IGN: **%s**)\n", reg.UserID, reg.IGN)
		}
		value := strings.TrimRight(list.String(), "\n")
		if len(value) > 1024 {
			value = value[:1024]
		}
		if value == "" {
			value = "No registered participants."
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("__%s (%d)__", groupName, len(regs)),
			Value: value,
		})
		fmt.Fprintf(&summary, "**%s**: %d\n", groupName, len(regs))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "​",
		Value: "**TOTAL REGION BREAKDOWN**\n" + summary.String(),
	})

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
	if err != nil {
		b.logger.Error("failed to respond with registration list", slog.Any("error", err))
	}
}

func (b *Bot) handleWinner(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.deferReply(s, i, false)
	opts := optionMap(i.ApplicationCommandData())

	matchID, err := strconv.Atoi(opts["lobby"].StringValue())
	if err != nil {
		b.editReply(s, i, "❌ Lobby not found. Please select an available lobby from the dropdown.")
		return
	}

	var winners []services.ReportedWinner
	for rank := 1; rank <= services.MaxRankedWinners; rank++ {
		opt, ok := opts[fmt.Sprintf("winner%d", rank)]
		if !ok {
			continue
		}
		user := opt.UserValue(s)
		winners = append(winners, services.ReportedWinner{UserID: user.ID, Username: user.Username})
	}

	result, err := b.progression.ReportResult(context.Background(), matchID, winners)
	if err != nil {
		b.editReply(s, i, "❌ "+err.Error())
		return
	}

	var list strings.Builder
	for _, w := range result.Winners {
		fmt.Fprintf(&list, "• <@%s> (**%s**) - Top %d\n", w.UserID, w.IGN, w.Rank)
	}
	b.editReply(s, i, fmt.Sprintf("✅ Match winners logged for **%s** (Top %d).\n\nWinners:\n%s",
		result.Name, result.Count, strings.TrimRight(list.String(), "\n")))
}

func (b *Bot) handleMerge(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !hasPermission(i, discordgo.PermissionKickMembers) {
		b.respond(s, i, "You need staff permission to run this command.", true)
		return
	}
	b.deferReply(s, i, true)
	opts := optionMap(i.ApplicationCommandData())

	outcome, err := b.progression.MergeResults(context.Background(),
		int(opts["round_number"].IntValue()),
		opts["lobby_result_1"].StringValue(),
		opts["lobby_result_2"].StringValue())
	if err != nil {
		b.editReply(s, i, "❌ "+err.Error())
		return
	}

	reply := fmt.Sprintf("✅ **Round %d Lobby #%d** successfully created and merged!", outcome.Round, outcome.LobbyNum)
	if outcome.ThreadID != "" {
		reply += fmt.Sprintf(" Private thread: <#%s>", outcome.ThreadID)
	} else {
		reply += " ⚠️ Thread creation failed, check bot permissions (Manage Threads)."
	}
	b.editReply(s, i, reply)
}

func (b *Bot) handleThread(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.deferReply(s, i, false)
	opts := optionMap(i.ApplicationCommandData())

	matchID, err := strconv.Atoi(opts["lobby"].StringValue())
	if err != nil {
		b.editReply(s, i, "❌ Lobby not found. Please select an available lobby from the dropdown.")
		return
	}

	threadID, err := b.progression.CreateLobbyThread(context.Background(), matchID)
	if err != nil {
		b.editReply(s, i, "❌ Failed to create thread: "+err.Error())
		return
	}
	b.editReply(s, i, fmt.Sprintf("✅ **Private Thread** created successfully! <#%s>", threadID))
}

func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	var focused *discordgo.ApplicationCommandInteractionDataOption
	for _, opt := range data.Options {
		if opt.Focused {
			focused = opt
			break
		}
	}
	if focused == nil {
		return
	}
	input := strings.ToLower(focused.StringValue())

	var options []services.Option
	switch data.Name {
	case "winner":
		options = b.state.ListUnresultedLobbies(input)
	case "merge_lobby_threads":
		options = filterOptions(b.state.ListMergeableResults(), input)
	case "thread":
		options = filterOptions(b.state.ListUnthreadedMappedLobbies(), input)
	default:
		return
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxAutocompleteChoices)
	for _, opt := range options {
		if len(choices) == maxAutocompleteChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: opt.Name, Value: opt.ID})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		b.logger.Error("failed to respond to autocomplete", slog.Any("error", err))
	}
}

func filterOptions(options []services.Option, input string) []services.Option {
	if input == "" {
		return options
	}
	filtered := options[:0:0]
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Name), input) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}
