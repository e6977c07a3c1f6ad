package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const threadAutoArchiveMinutes = 60

type discordNotifier struct {
	session *discordgo.Session
	guildID string
}

// NewDiscordNotifier wraps a connected discordgo session. The session's
// own transport imposes the timeouts; ctx is accepted for the port contract
// but not threaded through discordgo.
func NewDiscordNotifier(session *discordgo.Session, guildID string) Notifier {
	return &discordNotifier{
		session: session,
		guildID: guildID,
	}
}

func (n *discordNotifier) PublishLobby(ctx context.Context, channelID, messageID, content string) (string, error) {
	if messageID != "" {
		msg, err := n.session.ChannelMessageEdit(channelID, messageID, content)
		if err == nil {
			return msg.ID, nil
		}
		// The message may have been deleted by a moderator; fall through
		// and post a fresh one.
	}
	msg, err := n.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to publish lobby message: %w", err)
	}
	return msg.ID, nil
}

func (n *discordNotifier) PublishResult(ctx context.Context, channelID, content string) error {
	if _, err := n.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("failed to publish result message: %w", err)
	}
	return nil
}

func (n *discordNotifier) CreateThread(ctx context.Context, channelID, name, seed string) (string, error) {
	thread, err := n.session.ThreadStartComplex(channelID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: threadAutoArchiveMinutes,
		Type:                discordgo.ChannelTypeGuildPrivateThread,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create private thread %q: %w", name, err)
	}
	if _, err := n.session.ChannelMessageSend(thread.ID, seed); err != nil {
		return thread.ID, fmt.Errorf("failed to seed thread %q: %w", name, err)
	}
	return thread.ID, nil
}

func (n *discordNotifier) CreateMessageThread(ctx context.Context, channelID, messageID, name, seed string) (string, error) {
	thread, err := n.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: threadAutoArchiveMinutes,
		Type:                discordgo.ChannelTypeGuildPrivateThread,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create thread %q on message: %w", name, err)
	}
	if _, err := n.session.ChannelMessageSend(thread.ID, seed); err != nil {
		return thread.ID, fmt.Errorf("failed to seed thread %q: %w", name, err)
	}
	return thread.ID, nil
}

func (n *discordNotifier) AddThreadMember(ctx context.Context, threadID, userID string) error {
	if err := n.session.ThreadMemberAdd(threadID, userID); err != nil {
		return fmt.Errorf("failed to add user %s to thread: %w", userID, err)
	}
	return nil
}

func (n *discordNotifier) AssignRole(ctx context.Context, userID, roleID string) error {
	if err := n.session.GuildMemberRoleAdd(n.guildID, userID, roleID); err != nil {
		return fmt.Errorf("failed to assign role to user %s: %w", userID, err)
	}
	return nil
}
