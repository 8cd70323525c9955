package repository

import (
	"context"

	"telegram-kargo-bot/internal/domain/model"
)

// GroupRepository is the persistence port for per-chat quota records.
// Every decision re-reads current state; implementations must not cache.
type GroupRepository interface {
	// Upsert creates the record with quota 0 and disabled false if absent,
	// otherwise refreshes only title and updated_at.
	Upsert(ctx context.Context, chatID int64, title string) error
	// Find returns the record or domain.ErrNotFound.
	Find(ctx context.Context, chatID int64) (*model.Group, error)
	// SetQuota creates-or-replaces the quota and always re-enables the group.
	SetQuota(ctx context.Context, chatID int64, title string, quota int) error
	// SetDisabled creates-or-updates the disabled flag and title; quota untouched.
	SetDisabled(ctx context.Context, chatID int64, title string, disabled bool) error
	// Decrement subtracts one from quota only while quota > 0. It returns
	// domain.ErrQuotaExhausted when no row qualified, which closes the
	// gate-then-decrement race across the remote call.
	Decrement(ctx context.Context, chatID int64) error
}
