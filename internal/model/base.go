package model

import "time"

// BaseModel holds the numeric ID and timestamps shared by users and products.
// UpdatedAt stays NULL until the first update and is set by the services, not by GORM.
type BaseModel struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time  `gorm:"not null" json:"created"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated"`
}

// Touch stamps UpdatedAt with now.
func (b *BaseModel) Touch(now time.Time) {
	b.UpdatedAt = &now
}

// All lists the models managed by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{&User{}, &Product{}, &LogEntry{}}
}
