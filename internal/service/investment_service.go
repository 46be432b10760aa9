package service

import (
	"errors"
	"fmt"
	"time"

	"rossx/internal/domain"
	"rossx/internal/models"
	"rossx/internal/repository"

	"gorm.io/gorm"
)

// CascadeOutcome tells the caller what the referral cascade did, so the
// notification layer can react without re-deriving ledger state.
type CascadeOutcome int

const (
	CascadeNone CascadeOutcome = iota
	CascadeProgress
	CascadePermissionGranted
)

type CascadeResult struct {
	Outcome    CascadeOutcome `json:"outcome"`
	ReferrerID int64          `json:"referrer_id,omitempty"`
	Progress   int            `json:"progress,omitempty"`
}

type InvestmentService struct {
	db          *gorm.DB
	investments *repository.InvestmentRepository
	accounts    *repository.AccountRepository
	referrals   *repository.ReferralRepository
	events      *repository.EventRepository
	locks       *LockManager
	dispatcher  Nudger
	now         func() time.Time
}

func NewInvestmentService(
	db *gorm.DB,
	investments *repository.InvestmentRepository,
	accounts *repository.AccountRepository,
	referrals *repository.ReferralRepository,
	events *repository.EventRepository,
	locks *LockManager,
	dispatcher Nudger,
) *InvestmentService {
	return &InvestmentService{
		db:          db,
		investments: investments,
		accounts:    accounts,
		referrals:   referrals,
		events:      events,
		locks:       locks,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// Create converts wallet balance into an investment. Quick-invest requires
// the plan's canonical amount; custom amounts are bounded by [min, max]. The
// debit, the investment row, and the referral cascade commit in one
// transaction, serialized on both the investor and the referrer so sibling
// investments cannot corrupt the cascade counter.
func (s *InvestmentService) Create(accountID int64, planID string, amountPaise int64, custom bool) (*models.Investment, *CascadeResult, error) {
	plan, ok := domain.PlanByID(planID)
	if !ok {
		return nil, nil, fmt.Errorf("plan %q: %w", planID, domain.ErrNotFound)
	}
	if amountPaise <= 0 {
		return nil, nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if custom {
		if err := plan.ValidateCustomAmount(amountPaise); err != nil {
			return nil, nil, err
		}
	} else {
		if err := plan.ValidateQuickAmount(amountPaise); err != nil {
			return nil, nil, err
		}
	}

	account, err := s.accounts.GetByID(accountID)
	if err != nil {
		return nil, nil, err
	}

	lockIDs := []int64{accountID}
	if account.ReferredBy != nil {
		lockIDs = append(lockIDs, *account.ReferredBy)
	}
	unlock := s.locks.Lock(lockIDs...)
	defer unlock()

	// Re-read under the lock; the balance may have moved.
	account, err = s.accounts.GetByID(accountID)
	if err != nil {
		return nil, nil, err
	}
	if account.WalletBalancePaise < amountPaise {
		return nil, nil, fmt.Errorf("%w: balance %d paise, need %d",
			domain.ErrInsufficientFunds, account.WalletBalancePaise, amountPaise)
	}

	start := s.now()
	inv := &models.Investment{
		AccountID:           accountID,
		PlanID:              plan.ID,
		PrincipalPaise:      amountPaise,
		ExpectedReturnPaise: plan.ReturnPaise(amountPaise),
		StartDate:           start,
		MaturityDate:        start.AddDate(0, 0, plan.DurationDays),
		Status:              domain.InvestmentActive,
	}
	cascade := &CascadeResult{Outcome: CascadeNone}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.accounts.WithTx(tx).AdjustWallet(accountID, -amountPaise); err != nil {
			return err
		}
		if err := s.investments.WithTx(tx).Create(inv); err != nil {
			return err
		}
		if account.ReferredBy != nil {
			c, err := s.runCascade(tx, accountID, *account.ReferredBy, amountPaise)
			if err != nil {
				return err
			}
			cascade = c
		}
		return appendEvent(s.events.WithTx(tx), domain.EventInvestmentCreated, accountID, map[string]interface{}{
			"investment_id":         inv.ID,
			"plan_id":               inv.PlanID,
			"principal_paise":       inv.PrincipalPaise,
			"expected_return_paise": inv.ExpectedReturnPaise,
			"maturity_date":         inv.MaturityDate,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	nudge(s.dispatcher)
	return inv, cascade, nil
}

// runCascade applies the referral-unlock rules inside the investment
// transaction. The referred user's first investment moves the referrer's
// cycle counter; later investments only accumulate amount. Crossing the
// cycle boundary grants one withdrawal permission and restarts the cycle.
func (s *InvestmentService) runCascade(tx *gorm.DB, investorID, referrerID int64, amountPaise int64) (*CascadeResult, error) {
	edge, err := s.referrals.WithTx(tx).GetByReferredID(investorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// referred_by set without an edge means the graph is corrupt
			return nil, fmt.Errorf("%w: account %d has a referrer but no referral edge", domain.ErrIntegrity, investorID)
		}
		return nil, err
	}
	first := !edge.HasInvested
	if err := s.referrals.WithTx(tx).AccumulateInvestment(edge.ID, amountPaise); err != nil {
		return nil, err
	}
	if !first {
		return &CascadeResult{Outcome: CascadeNone, ReferrerID: referrerID}, nil
	}

	referrer, err := s.accounts.WithTx(tx).GetByID(referrerID)
	if err != nil {
		return nil, err
	}
	progress := referrer.CycleProgress + 1
	if progress >= domain.ReferralCycleSize {
		if err := s.accounts.WithTx(tx).GrantPermission(referrerID); err != nil {
			return nil, err
		}
		if err := appendEvent(s.events.WithTx(tx), domain.EventPermissionGranted, referrerID, map[string]interface{}{
			"referred_id": investorID,
		}); err != nil {
			return nil, err
		}
		return &CascadeResult{Outcome: CascadePermissionGranted, ReferrerID: referrerID}, nil
	}
	if err := s.accounts.WithTx(tx).SetCycleProgress(referrerID, progress); err != nil {
		return nil, err
	}
	return &CascadeResult{Outcome: CascadeProgress, ReferrerID: referrerID, Progress: progress}, nil
}

func (s *InvestmentService) List(accountID int64) ([]models.Investment, error) {
	if _, err := s.accounts.GetByID(accountID); err != nil {
		return nil, err
	}
	return s.investments.ListByAccount(accountID)
}

func (s *InvestmentService) Get(accountID int64, investmentID uint) (*models.Investment, error) {
	inv, err := s.investments.GetByID(investmentID)
	if err != nil {
		return nil, err
	}
	if inv.AccountID != accountID {
		return nil, fmt.Errorf("investment %d: %w", investmentID, domain.ErrNotFound)
	}
	return inv, nil
}

// Withdraw pays out an investment into the wallet. It needs one withdrawal
// permission and a matured investment, or the explicit early path which
// forfeits half the expected return (the principal is never cut). Consuming
// the permission, the payout credit, and the status flip commit together.
func (s *InvestmentService) Withdraw(accountID int64, investmentID uint, early bool) (int64, error) {
	inv, err := s.Get(accountID, investmentID)
	if err != nil {
		return 0, err
	}
	if inv.Status == domain.InvestmentWithdrawn {
		return 0, fmt.Errorf("investment %d: %w", investmentID, domain.ErrAlreadyResolved)
	}

	now := s.now()
	matured := inv.MaturedAt(now)
	if !matured && !early {
		return 0, fmt.Errorf("investment %d matures %s: %w",
			investmentID, inv.MaturityDate.Format("2006-01-02"), domain.ErrNotMatured)
	}
	payout := inv.MaturityAmountPaise()
	if !matured {
		payout = inv.PrincipalPaise + inv.ExpectedReturnPaise/2
	}

	unlock := s.locks.Lock(accountID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.investments.WithTx(tx).MarkWithdrawn(investmentID, now); err != nil {
			return err
		}
		if err := s.accounts.WithTx(tx).ConsumePermission(accountID); err != nil {
			return err
		}
		if _, err := s.accounts.WithTx(tx).AdjustWallet(accountID, payout); err != nil {
			return err
		}
		return appendEvent(s.events.WithTx(tx), domain.EventWithdrawalPaid, accountID, map[string]interface{}{
			"investment_id": investmentID,
			"payout_paise":  payout,
			"early":         !matured,
		})
	})
	if err != nil {
		return 0, err
	}
	nudge(s.dispatcher)
	return payout, nil
}
