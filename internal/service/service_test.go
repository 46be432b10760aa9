package service

import (
	"testing"
	"time"

	"rossx/internal/models"
	"rossx/internal/repository"
	"rossx/internal/session"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one shared in-memory database per test
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.Account{},
		&models.ReferralEdge{},
		&models.Deposit{},
		&models.Investment{},
		&models.Event{},
		&models.AdminUser{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db          *gorm.DB
	accounts    *repository.AccountRepository
	referrals   *repository.ReferralRepository
	deposits    *repository.DepositRepository
	investments *repository.InvestmentRepository
	events      *repository.EventRepository
	sessions    *session.Store
	accountSvc  *AccountService
	depositSvc  *DepositService
	investSvc   *InvestmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	env := &testEnv{
		db:          db,
		accounts:    repository.NewAccountRepository(db),
		referrals:   repository.NewReferralRepository(db),
		deposits:    repository.NewDepositRepository(db),
		investments: repository.NewInvestmentRepository(db),
		events:      repository.NewEventRepository(db),
		sessions:    session.NewStore(time.Hour),
	}
	locks := NewLockManager()
	env.accountSvc = NewAccountService(db, env.accounts, env.referrals)
	env.depositSvc = NewDepositService(db, env.deposits, env.accounts, env.events, env.sessions, locks, nil)
	env.investSvc = NewInvestmentService(db, env.investments, env.accounts, env.referrals, env.events, locks, nil)
	return env
}

func (env *testEnv) mustAccount(t *testing.T, id int64, referralCode string) *models.Account {
	t.Helper()
	a, err := env.accountSvc.Create(id, "User", "user", referralCode)
	if err != nil {
		t.Fatalf("create account %d: %v", id, err)
	}
	return a
}

// fundWallet runs the full deposit flow so the balance stays replayable from
// ledger history.
func (env *testEnv) fundWallet(t *testing.T, id int64, amountPaise int64) {
	t.Helper()
	if err := env.depositSvc.Begin(id, amountPaise, "rossx1@kiwi"); err != nil {
		t.Fatalf("begin deposit: %v", err)
	}
	d, err := env.depositSvc.Submit(id, "UTR-FUND", "payer@upi")
	if err != nil {
		t.Fatalf("submit deposit: %v", err)
	}
	if _, err := env.depositSvc.Resolve(d.ID, true, ""); err != nil {
		t.Fatalf("approve deposit: %v", err)
	}
}

func (env *testEnv) balance(t *testing.T, id int64) int64 {
	t.Helper()
	a, err := env.accounts.GetByID(id)
	if err != nil {
		t.Fatalf("get account %d: %v", id, err)
	}
	return a.WalletBalancePaise
}
