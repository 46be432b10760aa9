package repository

import (
	"errors"
	"fmt"

	"rossx/internal/domain"
	"rossx/internal/models"

	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *AccountRepository) WithTx(tx *gorm.DB) *AccountRepository {
	return &AccountRepository{db: tx}
}

func (r *AccountRepository) Create(a *models.Account) error {
	return r.db.Create(a).Error
}

func (r *AccountRepository) GetByID(id int64) (*models.Account, error) {
	var a models.Account
	err := r.db.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetByReferralCode(code string) (*models.Account, error) {
	var a models.Account
	err := r.db.Where("referral_code = ?", code).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("referral code %q: %w", code, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AdjustWallet applies a signed delta in a single UPDATE and returns the new
// balance. The caller must have validated sufficiency; a negative result is a
// broken invariant and comes back wrapped in ErrIntegrity so the surrounding
// transaction rolls back.
func (r *AccountRepository) AdjustWallet(id int64, deltaPaise int64) (int64, error) {
	res := r.db.Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("wallet_balance_paise", gorm.Expr("wallet_balance_paise + ?", deltaPaise))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	a, err := r.GetByID(id)
	if err != nil {
		return 0, err
	}
	if a.WalletBalancePaise < 0 {
		return a.WalletBalancePaise, fmt.Errorf("%w: wallet of account %d went negative (%d paise)",
			domain.ErrIntegrity, id, a.WalletBalancePaise)
	}
	return a.WalletBalancePaise, nil
}

func (r *AccountRepository) IncrementTotalReferrals(id int64) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("total_referrals", gorm.Expr("total_referrals + 1")).Error
}

func (r *AccountRepository) SetCycleProgress(id int64, progress int) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("cycle_progress", progress).Error
}

// GrantPermission closes a referral cycle: one withdrawal permission is added
// and the cycle counter restarts.
func (r *AccountRepository) GrantPermission(id int64) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"cycle_progress":         0,
			"withdrawal_permissions": gorm.Expr("withdrawal_permissions + 1"),
		}).Error
}

// ConsumePermission decrements withdrawal_permissions with a guard so two
// concurrent withdrawals cannot spend the same unit.
func (r *AccountRepository) ConsumePermission(id int64) error {
	res := r.db.Model(&models.Account{}).
		Where("id = ? AND withdrawal_permissions > 0", id).
		UpdateColumn("withdrawal_permissions", gorm.Expr("withdrawal_permissions - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrWithdrawalLocked
	}
	return nil
}

func (r *AccountRepository) Deactivate(id int64) error {
	return r.db.Model(&models.Account{}).Where("id = ?", id).UpdateColumn("is_active", false).Error
}

func (r *AccountRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Account{}).Count(&n).Error
	return n, err
}

func (r *AccountRepository) SumWalletBalances() (int64, error) {
	var total int64
	err := r.db.Model(&models.Account{}).
		Select("COALESCE(SUM(wallet_balance_paise), 0)").Scan(&total).Error
	return total, err
}
