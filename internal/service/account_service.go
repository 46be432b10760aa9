package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"rossx/internal/domain"
	"rossx/internal/models"
	"rossx/internal/repository"

	"gorm.io/gorm"
)

const referralCodeAttempts = 10

type AccountService struct {
	db        *gorm.DB
	accounts  *repository.AccountRepository
	referrals *repository.ReferralRepository
}

func NewAccountService(db *gorm.DB, accounts *repository.AccountRepository, referrals *repository.ReferralRepository) *AccountService {
	return &AccountService{db: db, accounts: accounts, referrals: referrals}
}

// generateReferralCode derives a code from the account id plus entropy bytes.
// Uniqueness is enforced by the DB index; callers retry with fresh entropy on
// collision.
func generateReferralCode(accountID int64) (string, error) {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	suffix := fmt.Sprintf("%d", accountID)
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "RX" + suffix + hex.EncodeToString(b), nil
}

// Create registers an account on first contact. Creating an id that already
// exists is a no-op returning the existing record. An optional referral code
// is resolved to the referrer; unknown codes and self-referrals are ignored
// rather than rejected, since the code arrives as free text from the
// transport.
func (s *AccountService) Create(id int64, name, username, referralCode string) (*models.Account, error) {
	if a, err := s.accounts.GetByID(id); err == nil {
		return a, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var referrer *models.Account
	if referralCode != "" {
		r, err := s.accounts.GetByReferralCode(referralCode)
		if err == nil && r.ID != id {
			referrer = r
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	var created *models.Account
	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code, err := generateReferralCode(id)
		if err != nil {
			return nil, err
		}
		a := &models.Account{ID: id, Name: name, Username: username, ReferralCode: code, IsActive: true}
		if referrer != nil {
			a.ReferredBy = &referrer.ID
		}
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.accounts.WithTx(tx).Create(a); err != nil {
				return err
			}
			if referrer != nil {
				if err := s.referrals.WithTx(tx).CreateEdge(&models.ReferralEdge{
					ReferrerID: referrer.ID,
					ReferredID: id,
				}); err != nil {
					return err
				}
				if err := s.accounts.WithTx(tx).IncrementTotalReferrals(referrer.ID); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			created = a
			break
		}
		// A concurrent first contact may have won the insert.
		if existing, gerr := s.accounts.GetByID(id); gerr == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Referral code collision: retry with fresh entropy.
	}
	if created == nil {
		return nil, fmt.Errorf("%w: referral code generation exhausted for account %d", domain.ErrIntegrity, id)
	}
	return created, nil
}

func (s *AccountService) Get(id int64) (*models.Account, error) {
	return s.accounts.GetByID(id)
}

func (s *AccountService) Deactivate(id int64) error {
	if _, err := s.accounts.GetByID(id); err != nil {
		return err
	}
	return s.accounts.Deactivate(id)
}

// ReferralStats summarizes an account's referral progress for display.
type ReferralStats struct {
	TotalReferrals        int   `json:"total_referrals"`
	InvestingReferrals    int64 `json:"investing_referrals"`
	CycleProgress         int   `json:"cycle_progress"`
	CycleSize             int   `json:"cycle_size"`
	WithdrawalPermissions int   `json:"withdrawal_permissions"`
}

func (s *AccountService) ReferralStats(id int64) (*ReferralStats, error) {
	a, err := s.accounts.GetByID(id)
	if err != nil {
		return nil, err
	}
	investing, err := s.referrals.CountInvesting(id)
	if err != nil {
		return nil, err
	}
	return &ReferralStats{
		TotalReferrals:        a.TotalReferrals,
		InvestingReferrals:    investing,
		CycleProgress:         a.CycleProgress,
		CycleSize:             domain.ReferralCycleSize,
		WithdrawalPermissions: a.WithdrawalPermissions,
	}, nil
}

func (s *AccountService) ListReferrals(id int64) ([]models.ReferralEdge, error) {
	if _, err := s.accounts.GetByID(id); err != nil {
		return nil, err
	}
	return s.referrals.ListByReferrerID(id)
}

// CanWithdraw reports whether the account holds at least one withdrawal
// permission.
func (s *AccountService) CanWithdraw(id int64) (bool, error) {
	a, err := s.accounts.GetByID(id)
	if err != nil {
		return false, err
	}
	return a.WithdrawalPermissions > 0, nil
}
