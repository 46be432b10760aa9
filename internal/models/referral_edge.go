package models

import (
	"time"
)

// ReferralEdge records that one account invited another. An account can be
// referred at most once (unique index on ReferredID) but can refer many.
// HasInvested flips on the referred user's first investment only; later
// investments accumulate InvestedAmountPaise without re-counting toward the
// referrer's cycle.
type ReferralEdge struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	ReferrerID          int64     `gorm:"not null;index" json:"referrer_id"`
	ReferredID          int64     `gorm:"uniqueIndex;not null" json:"referred_id"`
	HasInvested         bool      `gorm:"not null;default:false" json:"has_invested"`
	InvestedAmountPaise int64     `gorm:"not null;default:0" json:"invested_amount_paise"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Referrer Account `gorm:"foreignKey:ReferrerID" json:"-"`
	Referred Account `gorm:"foreignKey:ReferredID" json:"referred,omitempty"`
}

func (ReferralEdge) TableName() string { return "referral_edges" }
