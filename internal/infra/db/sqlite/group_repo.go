package sqlite

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"telegram-kargo-bot/internal/domain"
	"telegram-kargo-bot/internal/domain/model"
	"telegram-kargo-bot/internal/domain/ports/repository"
)

var _ repository.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implements repository.GroupRepository on SQLite via GORM.
type GroupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

func (r *GroupRepo) Upsert(ctx context.Context, chatID int64, title string) error {
	g := model.Group{
		ChatID:    chatID,
		Title:     title,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "updated_at"}),
	}).Create(&g).Error
}

func (r *GroupRepo) Find(ctx context.Context, chatID int64) (*model.Group, error) {
	var g model.Group
	err := r.db.WithContext(ctx).First(&g, "chat_id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// SetQuota creates-or-replaces the quota and always re-enables the group.
func (r *GroupRepo) SetQuota(ctx context.Context, chatID int64, title string, quota int) error {
	g := model.Group{
		ChatID:    chatID,
		Title:     title,
		Quota:     quota,
		Disabled:  false,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "quota", "disabled", "updated_at"}),
	}).Create(&g).Error
}

func (r *GroupRepo) SetDisabled(ctx context.Context, chatID int64, title string, disabled bool) error {
	g := model.Group{
		ChatID:    chatID,
		Title:     title,
		Disabled:  disabled,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "disabled", "updated_at"}),
	}).Create(&g).Error
}

// Decrement subtracts one from quota only while quota > 0. A zero row count
// means the allowance ran out between the gate check and this write.
func (r *GroupRepo) Decrement(ctx context.Context, chatID int64) error {
	res := r.db.WithContext(ctx).Model(&model.Group{}).
		Where("chat_id = ? AND quota > 0", chatID).
		Updates(map[string]any{
			"quota":      gorm.Expr("quota - 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrQuotaExhausted
	}
	return nil
}
