package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/infra/i18n"
	"telegram-kargo-bot/internal/infra/logging"
	"telegram-kargo-bot/internal/usecase"
)

// BotFacade maps chat commands onto use cases and renders the replies.
// Every Handle method returns ready-to-send text; the transport adapter only
// routes and sends.
type BotFacade struct {
	SubmissionUC *usecase.SubmissionUseCase
	QuotaUC      *usecase.QuotaUseCase
	ReportUC     *usecase.ReportUseCase

	tr          *i18n.Translator
	adminHandle string
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewBotFacade(
	submissionUC *usecase.SubmissionUseCase,
	quotaUC *usecase.QuotaUseCase,
	reportUC *usecase.ReportUseCase,
	tr *i18n.Translator,
	adminHandle string,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		SubmissionUC: submissionUC,
		QuotaUC:      quotaUC,
		ReportUC:     reportUC,
		tr:           tr,
		adminHandle:  strings.TrimPrefix(adminHandle, "@"),
		logger:       logger,
		now:          time.Now,
	}
}

// IsAdmin compares the sender's handle case-insensitively against the single
// configured administrator handle.
func (f *BotFacade) IsAdmin(username string) bool {
	u := strings.TrimPrefix(username, "@")
	return u != "" && strings.EqualFold(u, f.adminHandle)
}

// HandleStartGroup answers /start inside a group.
func (f *BotFacade) HandleStartGroup() string {
	return f.tr.T("start_help")
}

// HandleDM answers anything arriving in a direct message.
func (f *BotFacade) HandleDM() string {
	return f.tr.T("dm_redirect", f.adminHandle)
}

// HandleGroupOnly answers a group-only command used in a direct message.
func (f *BotFacade) HandleGroupOnly() string {
	return f.tr.T("group_only")
}

// HandleSubmission processes one /kargo message and renders the confirmation
// or the matching failure text. State is only mutated on success.
func (f *BotFacade) HandleSubmission(ctx context.Context, chatID int64, chatTitle, rawText string) string {
	res, err := f.SubmissionUC.Submit(ctx, chatID, chatTitle, rawText)
	switch {
	case err == nil:
		return f.tr.T("submission_reply",
			res.URL, res.Remaining, res.FullName, res.ItemID, res.URL, res.ETAText)
	case errors.Is(err, domain.ErrBadFormat):
		return f.tr.T("format_help")
	case errors.Is(err, domain.ErrGroupClosed):
		return f.tr.T("group_closed", f.adminHandle)
	case errors.Is(err, domain.ErrQuotaExhausted):
		return f.tr.T("quota_exhausted", f.adminHandle)
	default:
		// ErrAPIUnavailable and anything unexpected get the same generic
		// reply; the cause is already logged where it happened.
		logging.With(ctx, f.logger).Error().Err(err).Msg("submission failed")
		return f.tr.T("api_unavailable")
	}
}

// HandleStatus answers /kalanhak with title, open/closed state, and quota.
// The read works while the group is disabled.
func (f *BotFacade) HandleStatus(ctx context.Context, chatID int64, chatTitle string) string {
	g, err := f.QuotaUC.Status(ctx, chatID, chatTitle)
	if err != nil {
		logging.With(ctx, f.logger).Error().Err(err).Msg("status failed")
		return f.tr.T("api_unavailable")
	}
	state := f.tr.T("status_open")
	if g.Disabled {
		state = f.tr.T("status_closed")
	}
	return f.tr.T("status", g.Title, state, g.Quota)
}

// HandleGrant answers /hakver <n>. Malformed arguments get a usage hint.
func (f *BotFacade) HandleGrant(ctx context.Context, chatID int64, chatTitle, args string) string {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return f.tr.T("grant_usage")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return f.tr.T("grant_usage")
	}
	if err := f.QuotaUC.Grant(ctx, chatID, chatTitle, n); err != nil {
		logging.With(ctx, f.logger).Error().Err(err).Msg("grant failed")
		return f.tr.T("api_unavailable")
	}
	return f.tr.T("grant_done", n)
}

// HandleClose answers /bitir.
func (f *BotFacade) HandleClose(ctx context.Context, chatID int64, chatTitle string) string {
	if err := f.QuotaUC.Close(ctx, chatID, chatTitle); err != nil {
		logging.With(ctx, f.logger).Error().Err(err).Msg("close failed")
		return f.tr.T("api_unavailable")
	}
	return f.tr.T("close_done")
}

// HandleReport renders today's per-group, per-partner breakdown. The second
// return value says whether the text is MarkdownV2; the empty-day message is
// plain text.
func (f *BotFacade) HandleReport(ctx context.Context) (string, bool) {
	rep, err := f.ReportUC.Today(ctx, f.now())
	if err != nil {
		logging.With(ctx, f.logger).Error().Err(err).Msg("report failed")
		return f.tr.T("api_unavailable"), false
	}
	if rep.Empty() {
		return f.tr.T("report_empty"), false
	}
	return renderDailyReport(f.tr, rep), true
}

// renderDailyReport builds the MarkdownV2 report: one bold line per group with
// its total, then a bullet per partner company. Blank companies show as a
// placeholder dash.
func renderDailyReport(tr *i18n.Translator, rep *usecase.DailyReport) string {
	totals := make(map[int64]int, len(rep.Totals))
	for _, t := range rep.Totals {
		totals[t.ChatID] = t.Count
	}

	var parts []string
	var currentChat int64
	seen := false
	for _, r := range rep.Rows {
		if !seen || r.ChatID != currentChat {
			currentChat = r.ChatID
			seen = true
			parts = append(parts, fmt.Sprintf("\n *%s* — Toplam: *%d*", r.ChatTitle, totals[r.ChatID]))
		}
		comp := r.Company
		if comp == "" {
			comp = "—"
		}
		parts = append(parts, fmt.Sprintf("   • %s: *%d*", comp, r.Count))
	}

	return "*" + tr.T("report_title") + "*\n" + escapeMarkdown(strings.Join(parts, "\n"))
}

// escapeMarkdown escapes the characters MarkdownV2 would otherwise read as
// formatting syntax in the report body.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "-", "\\-")
	s = strings.ReplaceAll(s, ".", "\\.")
	return s
}
