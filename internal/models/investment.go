package models

import (
	"time"

	"rossx/internal/domain"
)

// Investment is committed principal under a plan. Immutable once created
// except for the ACTIVE -> WITHDRAWN transition; maturity is a fact derived
// from the maturity date, not a stored transition.
type Investment struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	AccountID           int64      `gorm:"not null;index" json:"account_id"`
	PlanID              string     `gorm:"size:20;not null" json:"plan_id"`
	PrincipalPaise      int64      `gorm:"not null" json:"principal_paise"`
	ExpectedReturnPaise int64      `gorm:"not null" json:"expected_return_paise"`
	StartDate           time.Time  `gorm:"not null" json:"start_date"`
	MaturityDate        time.Time  `gorm:"not null" json:"maturity_date"`
	Status              string     `gorm:"size:20;not null;index" json:"status"` // ACTIVE, WITHDRAWN
	WithdrawnAt         *time.Time `json:"withdrawn_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

func (Investment) TableName() string { return "investments" }

// MaturedAt reports whether the investment has reached maturity at t.
func (i *Investment) MaturedAt(t time.Time) bool {
	return !t.Before(i.MaturityDate)
}

// StatusAt resolves the derived MATURED state for display.
func (i *Investment) StatusAt(t time.Time) string {
	if i.Status == domain.InvestmentActive && i.MaturedAt(t) {
		return domain.InvestmentMatured
	}
	return i.Status
}

// MaturityAmountPaise is principal plus the flat return.
func (i *Investment) MaturityAmountPaise() int64 {
	return i.PrincipalPaise + i.ExpectedReturnPaise
}
