package service

import (
	"errors"
	"testing"
	"time"

	"rossx/internal/domain"
	"rossx/internal/models"
)

func TestQuickInvestStarterPlan(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	env.investSvc.now = func() time.Time { return start }

	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 19900)

	inv, cascade, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	if inv.PrincipalPaise != 19900 {
		t.Fatalf("principal = %d", inv.PrincipalPaise)
	}
	// 50% of 199.00 is exactly 99.50.
	if inv.ExpectedReturnPaise != 9950 {
		t.Fatalf("expected return = %d, want 9950", inv.ExpectedReturnPaise)
	}
	if got := inv.MaturityAmountPaise(); got != 29850 {
		t.Fatalf("maturity amount = %d, want 29850", got)
	}
	want := start.AddDate(0, 0, 45)
	if !inv.MaturityDate.Equal(want) {
		t.Fatalf("maturity date = %s, want %s", inv.MaturityDate, want)
	}
	if cascade.Outcome != CascadeNone {
		t.Fatalf("cascade = %+v", cascade)
	}
	if got := env.balance(t, 1); got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
}

func TestQuickInvestRejectsWrongAmount(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 100000)

	if _, _, err := env.investSvc.Create(1, "45_days", 25000, false); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestCustomAmountBounds(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 2000000)

	cases := []struct {
		amount int64
		ok     bool
	}{
		{29899, false},
		{29900, true},
		{500000, true},
		{1000000, true},
		{1000001, false},
	}
	for _, tc := range cases {
		_, _, err := env.investSvc.Create(1, "90_days", tc.amount, true)
		if tc.ok && err != nil {
			t.Fatalf("amount %d: %v", tc.amount, err)
		}
		if !tc.ok && !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("amount %d: err = %v, want ErrInvalidAmount", tc.amount, err)
		}
	}
}

func TestUnknownPlan(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")

	if _, _, err := env.investSvc.Create(1, "180_days", 19900, false); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInsufficientFundsLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	referrer := env.mustAccount(t, 1, "")
	env.mustAccount(t, 2, referrer.ReferralCode)
	env.fundWallet(t, 2, 10000)

	_, _, err := env.investSvc.Create(2, "45_days", 19900, false)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if got := env.balance(t, 2); got != 10000 {
		t.Fatalf("balance = %d, want 10000", got)
	}
	invs, err := env.investSvc.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(invs) != 0 {
		t.Fatalf("investments = %d, want 0", len(invs))
	}
	edge, err := env.referrals.GetByReferredID(2)
	if err != nil {
		t.Fatal(err)
	}
	if edge.HasInvested || edge.InvestedAmountPaise != 0 {
		t.Fatalf("edge touched: %+v", edge)
	}
}

func TestReferralCycleGrantsPermission(t *testing.T) {
	env := newTestEnv(t)
	referrer := env.mustAccount(t, 1, "")

	invest := func(id int64) *CascadeResult {
		t.Helper()
		env.mustAccount(t, id, referrer.ReferralCode)
		env.fundWallet(t, id, 19900)
		_, cascade, err := env.investSvc.Create(id, "45_days", 19900, false)
		if err != nil {
			t.Fatal(err)
		}
		return cascade
	}

	c := invest(2)
	if c.Outcome != CascadeProgress || c.Progress != 1 || c.ReferrerID != 1 {
		t.Fatalf("first referral: %+v", c)
	}
	c = invest(3)
	if c.Outcome != CascadeProgress || c.Progress != 2 {
		t.Fatalf("second referral: %+v", c)
	}
	c = invest(4)
	if c.Outcome != CascadePermissionGranted {
		t.Fatalf("third referral: %+v", c)
	}

	stats, err := env.accountSvc.ReferralStats(1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.WithdrawalPermissions != 1 {
		t.Fatalf("permissions = %d, want 1", stats.WithdrawalPermissions)
	}
	if stats.CycleProgress != 0 {
		t.Fatalf("cycle progress = %d, want 0 after grant", stats.CycleProgress)
	}
	if stats.InvestingReferrals != 3 {
		t.Fatalf("investing referrals = %d, want 3", stats.InvestingReferrals)
	}

	// A fourth investing referral starts the next cycle rather than stacking
	// another permission.
	c = invest(5)
	if c.Outcome != CascadeProgress || c.Progress != 1 {
		t.Fatalf("fourth referral: %+v", c)
	}
	stats, err = env.accountSvc.ReferralStats(1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.WithdrawalPermissions != 1 || stats.CycleProgress != 1 {
		t.Fatalf("stats after fourth referral: %+v", stats)
	}
}

func TestRepeatInvestorCountedOnce(t *testing.T) {
	env := newTestEnv(t)
	referrer := env.mustAccount(t, 1, "")
	env.mustAccount(t, 2, referrer.ReferralCode)
	env.fundWallet(t, 2, 39800)

	if _, _, err := env.investSvc.Create(2, "45_days", 19900, false); err != nil {
		t.Fatal(err)
	}
	_, cascade, err := env.investSvc.Create(2, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	if cascade.Outcome != CascadeNone {
		t.Fatalf("repeat investment cascade = %+v", cascade)
	}

	stats, err := env.accountSvc.ReferralStats(1)
	if err != nil {
		t.Fatal(err)
	}
	if stats.CycleProgress != 1 || stats.InvestingReferrals != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	edge, err := env.referrals.GetByReferredID(2)
	if err != nil {
		t.Fatal(err)
	}
	if edge.InvestedAmountPaise != 39800 {
		t.Fatalf("accumulated = %d, want 39800", edge.InvestedAmountPaise)
	}
}

func TestWithdrawRequiresPermission(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 19900)

	inv, _, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	env.investSvc.now = func() time.Time { return inv.MaturityDate.Add(time.Hour) }

	if _, err := env.investSvc.Withdraw(1, inv.ID, false); !errors.Is(err, domain.ErrWithdrawalLocked) {
		t.Fatalf("err = %v, want ErrWithdrawalLocked", err)
	}
	// The failed transaction must not pay anything out or flip the status.
	if got := env.balance(t, 1); got != 0 {
		t.Fatalf("balance = %d, want 0", got)
	}
	got, err := env.investSvc.Get(1, inv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.InvestmentActive {
		t.Fatalf("status = %s, want ACTIVE", got.Status)
	}
}

func TestWithdrawBeforeMaturity(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 19900)
	env.grantPermission(t, 1)

	inv, _, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.investSvc.Withdraw(1, inv.ID, false); !errors.Is(err, domain.ErrNotMatured) {
		t.Fatalf("err = %v, want ErrNotMatured", err)
	}
}

func TestWithdrawMatured(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 19900)
	env.grantPermission(t, 1)

	inv, _, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	env.investSvc.now = func() time.Time { return inv.MaturityDate.Add(time.Minute) }

	payout, err := env.investSvc.Withdraw(1, inv.ID, false)
	if err != nil {
		t.Fatal(err)
	}
	if payout != 29850 {
		t.Fatalf("payout = %d, want 29850", payout)
	}
	if got := env.balance(t, 1); got != 29850 {
		t.Fatalf("balance = %d, want 29850", got)
	}
	a, err := env.accountSvc.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if a.WithdrawalPermissions != 0 {
		t.Fatalf("permissions = %d, want 0 after withdrawal", a.WithdrawalPermissions)
	}

	if _, err := env.investSvc.Withdraw(1, inv.ID, false); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Fatalf("second withdraw err = %v, want ErrAlreadyResolved", err)
	}
	if got := env.balance(t, 1); got != 29850 {
		t.Fatalf("balance after double withdraw = %d, want 29850", got)
	}
}

func TestEarlyWithdrawForfeitsHalfReturn(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 19900)
	env.grantPermission(t, 1)

	inv, _, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	payout, err := env.investSvc.Withdraw(1, inv.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	// Principal intact, half of the 9950 paise return kept.
	if payout != 19900+4975 {
		t.Fatalf("payout = %d, want 24875", payout)
	}
	if got := env.balance(t, 1); got != 24875 {
		t.Fatalf("balance = %d, want 24875", got)
	}
}

func TestWithdrawWrongOwner(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.mustAccount(t, 2, "")
	env.fundWallet(t, 1, 19900)
	env.grantPermission(t, 2)

	inv, _, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.investSvc.Withdraw(2, inv.ID, true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInvestmentStatusDerivedAtMaturity(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.fundWallet(t, 1, 19900)

	inv, _, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := inv.StatusAt(inv.MaturityDate.Add(-time.Hour)); got != domain.InvestmentActive {
		t.Fatalf("status before maturity = %s", got)
	}
	if got := inv.StatusAt(inv.MaturityDate.Add(time.Hour)); got != domain.InvestmentMatured {
		t.Fatalf("status after maturity = %s", got)
	}
}

// The wallet balance must always equal the sum of approved deposits minus
// invested principal plus withdrawal payouts, replayed in order.
func TestBalanceReplay(t *testing.T) {
	env := newTestEnv(t)
	env.mustAccount(t, 1, "")
	env.grantPermission(t, 1)

	var expected int64
	env.fundWallet(t, 1, 500000)
	expected += 500000

	inv1, _, err := env.investSvc.Create(1, "45_days", 19900, false)
	if err != nil {
		t.Fatal(err)
	}
	expected -= 19900

	if _, _, err := env.investSvc.Create(1, "90_days", 100000, true); err != nil {
		t.Fatal(err)
	}
	expected -= 100000

	env.fundWallet(t, 1, 25000)
	expected += 25000

	payout, err := env.investSvc.Withdraw(1, inv1.ID, true)
	if err != nil {
		t.Fatal(err)
	}
	expected += payout

	if got := env.balance(t, 1); got != expected {
		t.Fatalf("balance = %d, want %d", got, expected)
	}
}

func TestConcurrentInvestingReferralsKeepCounterConsistent(t *testing.T) {
	env := newTestEnv(t)
	referrer := env.mustAccount(t, 1, "")

	const n = 6
	for i := int64(2); i < 2+n; i++ {
		env.mustAccount(t, i, referrer.ReferralCode)
		env.fundWallet(t, i, 19900)
	}

	errCh := make(chan error, n)
	for i := int64(2); i < 2+n; i++ {
		go func(id int64) {
			_, _, err := env.investSvc.Create(id, "45_days", 19900, false)
			errCh <- err
		}(i)
	}
	for i := 0; i < n; i++ {
		if err := <-errCh; err != nil {
			t.Fatal(err)
		}
	}

	stats, err := env.accountSvc.ReferralStats(1)
	if err != nil {
		t.Fatal(err)
	}
	// Six first-time investors are exactly two full cycles.
	if stats.WithdrawalPermissions != 2 {
		t.Fatalf("permissions = %d, want 2", stats.WithdrawalPermissions)
	}
	if stats.CycleProgress != 0 {
		t.Fatalf("cycle progress = %d, want 0", stats.CycleProgress)
	}
	if stats.InvestingReferrals != n {
		t.Fatalf("investing referrals = %d, want %d", stats.InvestingReferrals, n)
	}
}

func (env *testEnv) grantPermission(t *testing.T, id int64) {
	t.Helper()
	if err := env.db.Model(&models.Account{}).Where("id = ?", id).
		Update("withdrawal_permissions", 1).Error; err != nil {
		t.Fatal(err)
	}
}
