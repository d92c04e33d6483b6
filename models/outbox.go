package models

import (
	"time"
)

// ActivityOutboxRecord is written in the same transaction as its Activity
// row. A background processor claims unprocessed rows, publishes them as
// ActivityEventMessages, and marks them processed, so ledger events reach
// downstream consumers at least once without coupling request handling to
// Pub/Sub availability.
type ActivityOutboxRecord struct {
	ID          int        `gorm:"primary_key" json:"id"`
	TenantId    string     `gorm:"index;not null" json:"tenant_id"`
	ActivityId  int        `gorm:"index;not null" json:"activity_id"`
	Payload     string     `gorm:"type:text;not null" json:"payload"`
	IsProcessed bool       `gorm:"index;not null;default:false" json:"is_processed"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	LastError   string     `gorm:"type:text" json:"last_error"`
	LockedAt    *time.Time `gorm:"default:null" json:"locked_at,omitempty"`
	ProcessedAt *time.Time `gorm:"default:null" json:"processed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
