package telegram

import (
	"context"
	"errors"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/application"
	"telegram-kargo-bot/internal/config"
	"telegram-kargo-bot/internal/domain/ports/adapter"
	"telegram-kargo-bot/internal/infra/logging"
	"telegram-kargo-bot/internal/infra/metrics"
)

var _ adapter.BotAdapter = (*RealBotAdapter)(nil)

// RealBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealBotAdapter struct {
	bot    *tgbotapi.BotAPI
	cfg    *config.BotConfig
	facade *application.BotFacade
	logger *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, logger *zerolog.Logger) (*RealBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		logger:        logger,
		updateWorkers: workers,
	}, nil
}

func (r *RealBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.logger.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// SendMessage sends a plain text message to the given chat.
func (r *RealBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendMarkdown sends a MarkdownV2-formatted message to the given chat.
func (r *RealBotAdapter) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil
	}

	chatID := msg.Chat.ID
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithChatID(ctx, chatID)

	private := msg.Chat.IsPrivate()
	title := chatTitle(msg.Chat)
	sender := msg.From.UserName

	if msg.IsCommand() {
		metrics.IncCommand(msg.Command())
	}

	switch {
	case msg.IsCommand() && msg.Command() == "start":
		if private {
			return r.SendMessage(ctx, chatID, r.facade.HandleDM())
		}
		return r.SendMessage(ctx, chatID, r.facade.HandleStartGroup())

	case msg.IsCommand() && msg.Command() == "kargo":
		if private {
			return r.SendMessage(ctx, chatID, r.facade.HandleDM())
		}
		return r.SendMessage(ctx, chatID, r.facade.HandleSubmission(ctx, chatID, title, msg.Text))

	case msg.IsCommand() && msg.Command() == "kalanhak":
		if private {
			return r.SendMessage(ctx, chatID, r.facade.HandleGroupOnly())
		}
		return r.SendMessage(ctx, chatID, r.facade.HandleStatus(ctx, chatID, title))

	case msg.IsCommand() && msg.Command() == "hakver":
		if !r.requireAdmin(ctx, sender, "hakver") {
			return nil
		}
		return r.SendMessage(ctx, chatID, r.facade.HandleGrant(ctx, chatID, title, msg.CommandArguments()))

	case msg.IsCommand() && msg.Command() == "bitir":
		if !r.requireAdmin(ctx, sender, "bitir") {
			return nil
		}
		return r.SendMessage(ctx, chatID, r.facade.HandleClose(ctx, chatID, title))

	case msg.IsCommand() && msg.Command() == "rapor":
		if !r.requireAdmin(ctx, sender, "rapor") {
			return nil
		}
		text, markdown := r.facade.HandleReport(ctx)
		if markdown {
			return r.SendMarkdown(ctx, chatID, text)
		}
		return r.SendMessage(ctx, chatID, text)

	default:
		// Anything else in a DM gets the support redirect; group noise is
		// left alone.
		if private {
			return r.SendMessage(ctx, chatID, r.facade.HandleDM())
		}
		return nil
	}
}

// requireAdmin enforces the silent-denial rule for admin-only commands:
// non-admins get no reply at all, so the command stays invisible to them.
func (r *RealBotAdapter) requireAdmin(ctx context.Context, sender, command string) bool {
	if r.facade.IsAdmin(sender) {
		return true
	}
	metrics.IncAdminDenied()
	logging.With(ctx, r.logger).Debug().
		Str("command", command).
		Str("sender", sender).
		Msg("admin command ignored for non-admin")
	return false
}

func chatTitle(chat *tgbotapi.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return strconv.FormatInt(chat.ID, 10)
}
