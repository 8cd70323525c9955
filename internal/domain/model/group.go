package model

import "time"

// Group is the per-chat quota record. One row per group chat the bot has
// interacted with; created on first quota-consuming command, never deleted.
//
// Quota is signed: the conditional decrement keeps it at zero or above, but a
// negative value read back is still treated as depleted rather than invalid.
type Group struct {
	ChatID    int64     `gorm:"column:chat_id;primaryKey"`
	Title     string    `gorm:"column:title;type:text"`
	Quota     int       `gorm:"column:quota;not null;default:0"`
	Disabled  bool      `gorm:"column:disabled;not null;default:false"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName returns the database table name for Group.
func (Group) TableName() string { return "groups" }

// Depleted reports whether the group has no remaining allowance.
func (g *Group) Depleted() bool { return g.Quota <= 0 }
