package model

import "time"

// MaxActionLength bounds LogEntry.Action, counted in characters.
const MaxActionLength = 500

// LogEntry is one audit record. Rows are never updated.
// UserID is NULL only for entries that record a user deleting their own account.
type LogEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"type:varchar(500);not null" json:"action"`
	CreatedAt time.Time `gorm:"not null;index" json:"created"`
}

// TableName specifies the table name for GORM
func (LogEntry) TableName() string {
	return "logs"
}

// LogStatistics summarizes the audit trail.
type LogStatistics struct {
	TotalLogs int64 `json:"total_logs"`
}
