package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/domain/model"
	"telegram-kargo-bot/internal/domain/ports/repository"
)

var _ repository.Submitter = (*Submitter)(nil)

// Submitter runs the quota decrement and the log append in one transaction.
// Either both rows change or neither does; the remaining quota is read back
// inside the same transaction so the caller reports a consistent value.
type Submitter struct {
	db *gorm.DB
}

func NewSubmitter(db *gorm.DB) *Submitter {
	return &Submitter{db: db}
}

func (s *Submitter) Submit(ctx context.Context, chatID int64, chatTitle, itemID, company string) (int, error) {
	var remaining int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		res := tx.Model(&model.Group{}).
			Where("chat_id = ? AND quota > 0", chatID).
			Updates(map[string]any{
				"quota":      gorm.Expr("quota - 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrQuotaExhausted
		}

		row := model.DeliveryLog{
			ChatID:    chatID,
			ChatTitle: chatTitle,
			ItemID:    itemID,
			Company:   company,
			CreatedAt: now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		var g model.Group
		if err := tx.First(&g, "chat_id = ?", chatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		remaining = g.Quota
		return nil
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}
