package model

import "time"

// DeliveryLog is one append-only row per successful tracking submission.
// ChatTitle is a snapshot taken at submission time so the daily report stays
// stable even if the group is later renamed. Rows are never updated or deleted.
type DeliveryLog struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ChatID    int64     `gorm:"column:chat_id;not null;index"`
	ChatTitle string    `gorm:"column:chat_title;type:text"`
	ItemID    string    `gorm:"column:item_id;type:text"`
	Company   string    `gorm:"column:company;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

// TableName returns the database table name for DeliveryLog.
func (DeliveryLog) TableName() string { return "delivery_logs" }

// CompanyCount is a per-group, per-partner aggregate for the daily report.
type CompanyCount struct {
	ChatID    int64
	ChatTitle string
	Company   string
	Count     int
}

// GroupTotal is a per-group aggregate for the daily report.
type GroupTotal struct {
	ChatID    int64
	ChatTitle string
	Count     int
}
