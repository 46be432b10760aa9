package repository

import (
	"errors"
	"fmt"
	"time"

	"rossx/internal/domain"
	"rossx/internal/models"

	"gorm.io/gorm"
)

type InvestmentRepository struct {
	db *gorm.DB
}

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) WithTx(tx *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: tx}
}

func (r *InvestmentRepository) Create(inv *models.Investment) error {
	return r.db.Create(inv).Error
}

func (r *InvestmentRepository) GetByID(id uint) (*models.Investment, error) {
	var inv models.Investment
	err := r.db.First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("investment %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvestmentRepository) ListByAccount(accountID int64) ([]models.Investment, error) {
	var list []models.Investment
	err := r.db.Where("account_id = ?", accountID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// MarkWithdrawn guards the ACTIVE -> WITHDRAWN transition so an investment
// can only be paid out once.
func (r *InvestmentRepository) MarkWithdrawn(id uint, at time.Time) error {
	res := r.db.Model(&models.Investment{}).
		Where("id = ? AND status = ?", id, domain.InvestmentActive).
		Updates(map[string]interface{}{
			"status":       domain.InvestmentWithdrawn,
			"withdrawn_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("investment %d: %w", id, domain.ErrAlreadyResolved)
	}
	return nil
}

func (r *InvestmentRepository) CountActive() (int64, error) {
	var n int64
	err := r.db.Model(&models.Investment{}).Where("status = ?", domain.InvestmentActive).Count(&n).Error
	return n, err
}

func (r *InvestmentRepository) SumActivePrincipal() (int64, error) {
	var total int64
	err := r.db.Model(&models.Investment{}).
		Where("status = ?", domain.InvestmentActive).
		Select("COALESCE(SUM(principal_paise), 0)").Scan(&total).Error
	return total, err
}
