package adapter

import "context"

// BotAdapter is a domain-level port for sending chat messages.
// Keep it minimal so other layers can implement it.
type BotAdapter interface {
	// SendMessage sends a plain text message to the given chat.
	SendMessage(ctx context.Context, chatID int64, text string) error
	// SendMarkdown sends a MarkdownV2-formatted message to the given chat.
	// Callers are responsible for escaping characters the format reserves.
	SendMarkdown(ctx context.Context, chatID int64, text string) error
}
