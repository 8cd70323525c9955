package repository

import (
	"context"
	"time"

	"telegram-kargo-bot/internal/domain/model"
)

// DeliveryLogRepository is the persistence port for the append-only activity log.
type DeliveryLogRepository interface {
	// Append inserts one immutable row.
	Append(ctx context.Context, chatID int64, chatTitle, itemID, company string) error
	// Daily returns rows whose created_at falls within [from, to), grouped
	// per chat+company and per chat, both ordered by chat title
	// case-insensitively.
	Daily(ctx context.Context, from, to time.Time) ([]model.CompanyCount, []model.GroupTotal, error)
}
