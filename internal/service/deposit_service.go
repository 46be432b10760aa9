package service

import (
	"fmt"
	"time"

	"rossx/internal/domain"
	"rossx/internal/models"
	"rossx/internal/repository"
	"rossx/internal/session"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DepositService struct {
	db         *gorm.DB
	deposits   *repository.DepositRepository
	accounts   *repository.AccountRepository
	events     *repository.EventRepository
	sessions   *session.Store
	locks      *LockManager
	dispatcher Nudger
	now        func() time.Time
}

func NewDepositService(
	db *gorm.DB,
	deposits *repository.DepositRepository,
	accounts *repository.AccountRepository,
	events *repository.EventRepository,
	sessions *session.Store,
	locks *LockManager,
	dispatcher Nudger,
) *DepositService {
	return &DepositService{
		db:         db,
		deposits:   deposits,
		accounts:   accounts,
		events:     events,
		sessions:   sessions,
		locks:      locks,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Begin stores the amount and collection handle the user was instructed to
// pay into, and moves the conversation to awaiting the proof fields.
func (s *DepositService) Begin(accountID int64, amountPaise int64, collectionHandle string) error {
	if amountPaise <= 0 {
		return fmt.Errorf("%w: deposit amount must be positive", domain.ErrInvalidAmount)
	}
	if _, err := s.accounts.GetByID(accountID); err != nil {
		return err
	}
	s.sessions.Set(accountID, session.State{
		Stage:            session.StageAwaitingDepositProof,
		AmountPaise:      amountPaise,
		CollectionHandle: collectionHandle,
	})
	return nil
}

// Submit turns the staged amount plus the user's free-text proof fields into
// a durable pending deposit. No wallet mutation happens here; only admin
// approval credits the wallet. The conversation advances to awaiting the
// screenshot. The per-account lock keeps two messages from the same user
// from racing on the stage transition.
func (s *DepositService) Submit(accountID int64, utrNumber, payerHandle string) (*models.Deposit, error) {
	if _, err := s.accounts.GetByID(accountID); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(accountID)
	defer unlock()

	st := s.sessions.Get(accountID)
	if st.Stage != session.StageAwaitingDepositProof {
		return nil, fmt.Errorf("%w: no deposit in progress", domain.ErrNotFound)
	}

	d := &models.Deposit{
		OrderID:          uuid.NewString(),
		AccountID:        accountID,
		AmountPaise:      st.AmountPaise,
		UTRNumber:        utrNumber,
		PayerHandle:      payerHandle,
		CollectionHandle: st.CollectionHandle,
		Status:           domain.DepositPending,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deposits.WithTx(tx).Create(d); err != nil {
			return err
		}
		return appendEvent(s.events.WithTx(tx), domain.EventDepositSubmitted, accountID, map[string]interface{}{
			"deposit_id":   d.ID,
			"order_id":     d.OrderID,
			"amount_paise": d.AmountPaise,
			"utr_number":   d.UTRNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	s.sessions.Set(accountID, session.State{Stage: session.StageAwaitingScreenshot, DepositID: d.ID})
	nudge(s.dispatcher)
	return d, nil
}

// AttachScreenshot stores the uploaded proof screenshot URL on the staged
// deposit and completes the conversation flow.
func (s *DepositService) AttachScreenshot(accountID int64, url string) (*models.Deposit, error) {
	unlock := s.locks.Lock(accountID)
	defer unlock()

	st := s.sessions.Get(accountID)
	if st.Stage != session.StageAwaitingScreenshot || st.DepositID == 0 {
		return nil, fmt.Errorf("%w: no deposit awaiting screenshot", domain.ErrNotFound)
	}
	if err := s.deposits.SetScreenshot(st.DepositID, url); err != nil {
		return nil, err
	}
	dep, err := s.deposits.GetByID(st.DepositID)
	if err != nil {
		return nil, err
	}
	s.sessions.Clear(accountID)
	return dep, nil
}

func (s *DepositService) ListPending() ([]models.Deposit, error) {
	return s.deposits.ListPending()
}

func (s *DepositService) ListByAccount(accountID int64) ([]models.Deposit, error) {
	return s.deposits.ListByAccount(accountID)
}

// Resolve applies an admin decision. The deposit moves to exactly one
// terminal state; approval credits the wallet in the same transaction as the
// status flip, and the PENDING-guarded UPDATE makes a second resolution fail
// with ErrAlreadyResolved before any side effect.
func (s *DepositService) Resolve(depositID uint, approve bool, notes string) (*models.Deposit, error) {
	dep, err := s.deposits.GetByID(depositID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(dep.AccountID)
	defer unlock()

	now := s.now()
	status := domain.DepositRejected
	evType := domain.EventDepositRejected
	if approve {
		status = domain.DepositApproved
		evType = domain.EventDepositApproved
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.deposits.WithTx(tx).MarkResolved(depositID, status, notes, now); err != nil {
			return err
		}
		var balance int64
		if approve {
			b, err := s.accounts.WithTx(tx).AdjustWallet(dep.AccountID, dep.AmountPaise)
			if err != nil {
				return err
			}
			balance = b
		}
		return appendEvent(s.events.WithTx(tx), evType, dep.AccountID, map[string]interface{}{
			"deposit_id":    dep.ID,
			"order_id":      dep.OrderID,
			"amount_paise":  dep.AmountPaise,
			"balance_paise": balance,
			"notes":         notes,
		})
	})
	if err != nil {
		return nil, err
	}
	nudge(s.dispatcher)
	return s.deposits.GetByID(depositID)
}
