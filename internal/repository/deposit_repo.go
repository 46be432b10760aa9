package repository

import (
	"errors"
	"fmt"
	"time"

	"rossx/internal/domain"
	"rossx/internal/models"

	"gorm.io/gorm"
)

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

func (r *DepositRepository) WithTx(tx *gorm.DB) *DepositRepository {
	return &DepositRepository{db: tx}
}

func (r *DepositRepository) Create(d *models.Deposit) error {
	return r.db.Create(d).Error
}

func (r *DepositRepository) GetByID(id uint) (*models.Deposit, error) {
	var d models.Deposit
	err := r.db.First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("deposit %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepositRepository) ListPending() ([]models.Deposit, error) {
	var list []models.Deposit
	err := r.db.Where("status = ?", domain.DepositPending).
		Preload("Account").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *DepositRepository) CountPending() (int64, error) {
	var n int64
	err := r.db.Model(&models.Deposit{}).Where("status = ?", domain.DepositPending).Count(&n).Error
	return n, err
}

// MarkResolved is the exactly-once boundary: the UPDATE only matches while
// the row is still PENDING, so of two racing resolutions exactly one sees
// RowsAffected == 1. The loser gets ErrAlreadyResolved and must not credit.
func (r *DepositRepository) MarkResolved(id uint, status, notes string, at time.Time) error {
	res := r.db.Model(&models.Deposit{}).
		Where("id = ? AND status = ?", id, domain.DepositPending).
		Updates(map[string]interface{}{
			"status":      status,
			"admin_notes": notes,
			"resolved_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deposit %d: %w", id, domain.ErrAlreadyResolved)
	}
	return nil
}

// SetScreenshot attaches proof media to a deposit that is still pending.
func (r *DepositRepository) SetScreenshot(id uint, url string) error {
	res := r.db.Model(&models.Deposit{}).
		Where("id = ? AND status = ?", id, domain.DepositPending).
		UpdateColumn("screenshot_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deposit %d: %w", id, domain.ErrAlreadyResolved)
	}
	return nil
}

func (r *DepositRepository) ListByAccount(accountID int64) ([]models.Deposit, error) {
	var list []models.Deposit
	err := r.db.Where("account_id = ?", accountID).Order("created_at DESC").Find(&list).Error
	return list, err
}
