package domain

import "errors"

// Ledger error kinds. Call sites wrap these with context via fmt.Errorf and
// %w; handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyResolved   = errors.New("already resolved")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrWithdrawalLocked  = errors.New("withdrawal locked")
	ErrNotMatured        = errors.New("not matured")

	// ErrIntegrity marks a broken ledger invariant. It is never a user error:
	// the surrounding transaction must roll back and the occurrence must be
	// logged loudly.
	ErrIntegrity = errors.New("ledger integrity violation")
)
