package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/domain/ports/adapter"
	"telegram-kargo-bot/internal/domain/ports/repository"
	"telegram-kargo-bot/internal/infra/logging"
	"telegram-kargo-bot/internal/infra/metrics"
)

// etaLayout accepts day.month.year with or without zero padding.
const etaLayout = "2.1.2006"

// SubmissionResult is what a successful /kargo submission yields for the
// reply: tracking id and URL, remaining quota, and the fields echoed back to
// the operator. ETAText is the operator's original date string, never the
// normalized form.
type SubmissionResult struct {
	ItemID    string
	URL       string
	Remaining int
	FullName  string
	ETAText   string
}

// SubmissionUseCase implements the submit pipeline: parse, gate, remote call,
// decrement + log, reply data.
type SubmissionUseCase struct {
	groups    repository.GroupRepository
	submitter repository.Submitter
	gateway   adapter.TrackingGateway
	shortener adapter.URLShortener
	logger    *zerolog.Logger
}

func NewSubmissionUseCase(
	groups repository.GroupRepository,
	submitter repository.Submitter,
	gateway adapter.TrackingGateway,
	shortener adapter.URLShortener,
	logger *zerolog.Logger,
) *SubmissionUseCase {
	return &SubmissionUseCase{
		groups:    groups,
		submitter: submitter,
		gateway:   gateway,
		shortener: shortener,
		logger:    logger,
	}
}

// Submit handles one /kargo message. rawText is the full message text
// including the command line. Sentinel errors map to user-facing replies:
// domain.ErrBadFormat, domain.ErrGroupClosed, domain.ErrQuotaExhausted,
// domain.ErrAPIUnavailable.
func (uc *SubmissionUseCase) Submit(ctx context.Context, chatID int64, chatTitle, rawText string) (*SubmissionResult, error) {
	log := logging.With(ctx, uc.logger)

	fullName, address, etaText, company, err := parseFields(rawText)
	if err != nil {
		metrics.IncSubmission("rejected")
		return nil, err
	}

	if err := uc.groups.Upsert(ctx, chatID, chatTitle); err != nil {
		return nil, err
	}
	g, err := uc.groups.Find(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if g.Disabled {
		metrics.IncSubmission("rejected")
		return nil, domain.ErrGroupClosed
	}
	if g.Depleted() {
		metrics.IncSubmission("rejected")
		return nil, domain.ErrQuotaExhausted
	}

	apiETA := normalizeETA(etaText)
	if apiETA == etaText {
		log.Warn().Str("eta", etaText).Msg("eta not parseable, sending original text")
	} else {
		log.Info().Str("eta", etaText).Str("normalized", apiETA).Msg("eta normalized")
	}

	tr, err := uc.gateway.Create(ctx, adapter.Submission{
		FullName: fullName,
		Address:  address,
		ETA:      apiETA,
		Company:  company,
		Carrier:  "yurtici",
	})
	if err != nil {
		metrics.IncSubmission("api_error")
		return nil, err
	}

	remaining, err := uc.submitter.Submit(ctx, chatID, chatTitle, tr.ID, company)
	if err != nil {
		metrics.IncSubmission("rejected")
		return nil, err
	}
	metrics.IncSubmission("ok")

	return &SubmissionResult{
		ItemID:    tr.ID,
		URL:       uc.shortener.Shorten(ctx, tr.URL),
		Remaining: remaining,
		FullName:  fullName,
		ETAText:   etaText,
	}, nil
}

// parseFields takes the lines after the command line, drops blanks, and
// requires at least recipient name, address, arrival text, and company.
func parseFields(rawText string) (fullName, address, etaText, company string, err error) {
	all := strings.Split(rawText, "\n")
	if len(all) > 0 {
		all = all[1:]
	}
	fields := make([]string, 0, 4)
	for _, l := range all {
		if t := strings.TrimSpace(l); t != "" {
			fields = append(fields, t)
		}
	}
	if len(fields) < 4 {
		return "", "", "", "", domain.ErrBadFormat
	}
	return fields[0], fields[1], fields[2], fields[3], nil
}

// normalizeETA converts day.month.year (either . or / separated) to the
// canonical year-month-day form the API expects. Unparseable input passes
// through unchanged; this is best-effort normalization, not validation.
func normalizeETA(etaText string) string {
	parsed, err := time.Parse(etaLayout, strings.ReplaceAll(etaText, "/", "."))
	if err != nil {
		return etaText
	}
	return parsed.Format("2006-01-02")
}
