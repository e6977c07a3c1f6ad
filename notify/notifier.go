// Package notify is the port to the chat platform. The engine only uses it
// to mirror ledger state into human-readable messages; no operation depends
// on it for correctness.
package notify

import "context"

type Notifier interface {
	// PublishLobby creates the lobby message when messageID is empty,
	// otherwise edits it in place. Returns the id of the message written.
	PublishLobby(ctx context.Context, channelID, messageID, content string) (string, error)

	// PublishResult posts a results summary.
	PublishResult(ctx context.Context, channelID, content string) error

	// CreateThread starts a private thread detached from any message and
	// seeds it with an opening post. Returns the thread id.
	CreateThread(ctx context.Context, channelID, name, seed string) (string, error)

	// CreateMessageThread starts a private thread attached to an existing
	// message and seeds it. Returns the thread id.
	CreateMessageThread(ctx context.Context, channelID, messageID, name, seed string) (string, error)

	AddThreadMember(ctx context.Context, threadID, userID string) error

	AssignRole(ctx context.Context, userID, roleID string) error
}
