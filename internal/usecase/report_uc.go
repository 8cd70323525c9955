package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-kargo-bot/internal/domain/model"
	"telegram-kargo-bot/internal/domain/ports/repository"
)

// DailyReport carries today's aggregates for rendering.
type DailyReport struct {
	Rows   []model.CompanyCount
	Totals []model.GroupTotal
}

// Empty reports whether the window had no submissions.
func (r *DailyReport) Empty() bool { return len(r.Rows) == 0 }

// ReportUseCase aggregates the activity log for the admin daily report.
type ReportUseCase struct {
	logs   repository.DeliveryLogRepository
	logger *zerolog.Logger
}

func NewReportUseCase(logs repository.DeliveryLogRepository, logger *zerolog.Logger) *ReportUseCase {
	return &ReportUseCase{logs: logs, logger: logger}
}

// Today queries the [start-of-today, start-of-tomorrow) window in now's
// location.
func (uc *ReportUseCase) Today(ctx context.Context, now time.Time) (*DailyReport, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	rows, totals, err := uc.logs.Daily(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &DailyReport{Rows: rows, Totals: totals}, nil
}
