package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/domain/model"
	"telegram-kargo-bot/internal/domain/ports/repository"
	"telegram-kargo-bot/internal/infra/logging"
	"telegram-kargo-bot/internal/infra/metrics"
)

// QuotaUseCase implements the admin quota operations and the read-only
// allowance check.
type QuotaUseCase struct {
	groups repository.GroupRepository
	logger *zerolog.Logger
}

func NewQuotaUseCase(groups repository.GroupRepository, logger *zerolog.Logger) *QuotaUseCase {
	return &QuotaUseCase{groups: groups, logger: logger}
}

// Grant sets the group's quota to n and re-enables it regardless of prior state.
func (uc *QuotaUseCase) Grant(ctx context.Context, chatID int64, title string, n int) error {
	if n < 0 {
		return domain.ErrInvalidArgument
	}
	if err := uc.groups.SetQuota(ctx, chatID, title, n); err != nil {
		return err
	}
	metrics.AddQuotaGranted(n)
	logging.With(ctx, uc.logger).Info().Int("quota", n).Msg("quota granted")
	return nil
}

// Close disables the group; quota is untouched so a later grant restores it.
func (uc *QuotaUseCase) Close(ctx context.Context, chatID int64, title string) error {
	if err := uc.groups.SetDisabled(ctx, chatID, title, true); err != nil {
		return err
	}
	logging.With(ctx, uc.logger).Info().Msg("group closed")
	return nil
}

// Status upserts the group and returns its current record. The read is
// allowed even while the group is disabled.
func (uc *QuotaUseCase) Status(ctx context.Context, chatID int64, title string) (*model.Group, error) {
	if err := uc.groups.Upsert(ctx, chatID, title); err != nil {
		return nil, err
	}
	return uc.groups.Find(ctx, chatID)
}
