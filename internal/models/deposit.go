package models

import (
	"time"
)

// Deposit is a proof-of-payment request. It starts PENDING and moves to
// exactly one terminal state; only the PENDING -> APPROVED transition credits
// the wallet, and it does so at most once.
type Deposit struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	OrderID          string     `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	AccountID        int64      `gorm:"not null;index" json:"account_id"`
	AmountPaise      int64      `gorm:"not null" json:"amount_paise"`
	UTRNumber        string     `gorm:"size:64" json:"utr_number"`
	PayerHandle      string     `gorm:"size:128" json:"payer_handle"`      // UPI the user claims to have paid from
	CollectionHandle string     `gorm:"size:128" json:"collection_handle"` // UPI the user was told to pay into
	ScreenshotURL    string     `gorm:"size:512" json:"screenshot_url"`
	Status           string     `gorm:"size:20;not null;index" json:"status"` // PENDING, APPROVED, REJECTED
	AdminNotes       string     `gorm:"size:255" json:"admin_notes"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

func (Deposit) TableName() string { return "deposits" }
