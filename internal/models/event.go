package models

import (
	"time"
)

// Event is an outbox row recorded in the same transaction as the ledger
// mutation it describes. The dispatcher drains undispatched rows after
// commit; delivery failure never touches the ledger.
type Event struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Type         string     `gorm:"size:40;not null;index" json:"type"`
	AccountID    int64      `gorm:"not null;index" json:"account_id"`
	Payload      string     `gorm:"type:text" json:"payload"` // JSON
	Attempts     int        `gorm:"not null;default:0" json:"attempts"`
	DispatchedAt *time.Time `gorm:"index" json:"dispatched_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Event) TableName() string { return "events" }
