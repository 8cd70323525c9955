package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain/ports/adapter"
)

var _ adapter.BotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.BotAdapter for local/dev testing.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	logger *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{logger: logger}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.logger.Info().Int64("chat_id", chatID).Str("text", text).Msg("noop-telegram send")
	return nil
}

func (b *NoopBotAdapter) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.logger.Info().Int64("chat_id", chatID).Str("text", text).Msg("noop-telegram send markdown")
	return nil
}
