package repository

import (
	"errors"
	"fmt"

	"rossx/internal/domain"
	"rossx/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) WithTx(tx *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: tx}
}

// CreateEdge persists a referrer -> referred edge. The unique index on
// referred_id enforces the single-referrer invariant; a duplicate is an
// integrity error, not a user error.
func (r *ReferralRepository) CreateEdge(edge *models.ReferralEdge) error {
	err := r.db.Create(edge).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: duplicate referral edge for account %d", domain.ErrIntegrity, edge.ReferredID)
	}
	return err
}

func (r *ReferralRepository) GetByReferredID(referredID int64) (*models.ReferralEdge, error) {
	var e models.ReferralEdge
	err := r.db.Where("referred_id = ?", referredID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("referral edge for account %d: %w", referredID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ReferralRepository) ListByReferrerID(referrerID int64) ([]models.ReferralEdge, error) {
	var list []models.ReferralEdge
	err := r.db.Where("referrer_id = ?", referrerID).
		Preload("Referred").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// CountInvesting returns the lifetime count of edges whose referred user has
// invested at least once.
func (r *ReferralRepository) CountInvesting(referrerID int64) (int64, error) {
	var n int64
	err := r.db.Model(&models.ReferralEdge{}).
		Where("referrer_id = ? AND has_invested = ?", referrerID, true).
		Count(&n).Error
	return n, err
}

// AccumulateInvestment flips has_invested and adds to the running invested
// amount in one UPDATE. Idempotent with respect to the flag: re-flipping an
// already-invested edge only accumulates.
func (r *ReferralRepository) AccumulateInvestment(edgeID uint, amountPaise int64) error {
	return r.db.Model(&models.ReferralEdge{}).
		Where("id = ?", edgeID).
		UpdateColumns(map[string]interface{}{
			"has_invested":          true,
			"invested_amount_paise": gorm.Expr("invested_amount_paise + ?", amountPaise),
		}).Error
}
