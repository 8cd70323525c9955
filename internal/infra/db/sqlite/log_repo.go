package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"telegram-kargo-bot/internal/domain/model"
	"telegram-kargo-bot/internal/domain/ports/repository"
)

var _ repository.DeliveryLogRepository = (*DeliveryLogRepo)(nil)

// DeliveryLogRepo implements the append-only activity log on SQLite.
type DeliveryLogRepo struct {
	db *gorm.DB
}

func NewDeliveryLogRepo(db *gorm.DB) *DeliveryLogRepo {
	return &DeliveryLogRepo{db: db}
}

func (r *DeliveryLogRepo) Append(ctx context.Context, chatID int64, chatTitle, itemID, company string) error {
	row := model.DeliveryLog{
		ChatID:    chatID,
		ChatTitle: chatTitle,
		ItemID:    itemID,
		Company:   company,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// Daily aggregates the [from, to) window two ways: per chat+company and per
// chat. Both orderings are case-insensitive on the denormalized chat title so
// the report lists groups stably regardless of renames during the day.
func (r *DeliveryLogRepo) Daily(ctx context.Context, from, to time.Time) ([]model.CompanyCount, []model.GroupTotal, error) {
	var rows []model.CompanyCount
	err := r.db.WithContext(ctx).Raw(`
SELECT chat_id, chat_title, company, COUNT(*) AS count
  FROM delivery_logs
 WHERE created_at >= ? AND created_at < ?
 GROUP BY chat_id, chat_title, company
 ORDER BY chat_title COLLATE NOCASE`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var totals []model.GroupTotal
	err = r.db.WithContext(ctx).Raw(`
SELECT chat_id, chat_title, COUNT(*) AS count
  FROM delivery_logs
 WHERE created_at >= ? AND created_at < ?
 GROUP BY chat_id, chat_title
 ORDER BY chat_title COLLATE NOCASE`, from, to).Scan(&totals).Error
	if err != nil {
		return nil, nil, err
	}
	return rows, totals, nil
}
