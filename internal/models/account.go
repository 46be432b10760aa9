package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is a per-user ledger record. The ID is the opaque chat user id
// supplied by the transport; accounts are never hard-deleted, only
// deactivated.
type Account struct {
	ID                    int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name                  string         `gorm:"size:128" json:"name"`
	Username              string         `gorm:"size:64" json:"username"`
	WalletBalancePaise    int64          `gorm:"not null;default:0" json:"wallet_balance_paise"`
	ReferralCode          string         `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	ReferredBy            *int64         `gorm:"index" json:"referred_by,omitempty"`
	TotalReferrals        int            `gorm:"not null;default:0" json:"total_referrals"`
	CycleProgress         int            `gorm:"not null;default:0" json:"cycle_progress"` // investing referrals since last grant
	WithdrawalPermissions int            `gorm:"not null;default:0" json:"withdrawal_permissions"`
	IsActive              bool           `gorm:"default:true" json:"is_active"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "accounts" }
