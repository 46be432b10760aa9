package domain

const (
	DepositPending  = "PENDING"
	DepositApproved = "APPROVED"
	DepositRejected = "REJECTED"
)

const (
	InvestmentActive    = "ACTIVE"
	InvestmentMatured   = "MATURED" // derived from maturity date, never stored
	InvestmentWithdrawn = "WITHDRAWN"
)

const RoleAdmin = "ADMIN"

// Event types appended to the outbox by ledger operations.
const (
	EventDepositSubmitted  = "DEPOSIT_SUBMITTED"
	EventDepositApproved   = "DEPOSIT_APPROVED"
	EventDepositRejected   = "DEPOSIT_REJECTED"
	EventInvestmentCreated = "INVESTMENT_CREATED"
	EventPermissionGranted = "PERMISSION_GRANTED"
	EventWithdrawalPaid    = "WITHDRAWAL_PAID"
)

// ReferralCycleSize is the number of distinct investing referrals that
// completes one cycle and grants one withdrawal permission.
const ReferralCycleSize = 3
