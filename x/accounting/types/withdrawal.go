package types

import "cosmossdk.io/math"

// WithdrawalKind distinguishes a plain user balance withdrawal from an LP
// share-burn withdrawal; the latter carries the extra bookkeeping needed to
// restore a pool position on rollback.
type WithdrawalKind int

const (
	WithdrawalKindUser WithdrawalKind = iota
	WithdrawalKindLP
)

func (k WithdrawalKind) String() string {
	if k == WithdrawalKindLP {
		return "LP"
	}
	return "User"
}

// PendingWithdrawal is the at-most-one-per-principal in-flight withdrawal
// slot. CreatedAtNs doubles as the ledger idempotency key: retrying with the
// same value lets a compliant ledger deduplicate a transfer that already
// landed.
type PendingWithdrawal struct {
	Principal     Principal
	Kind          WithdrawalKind
	Amount        Amount // amount debited for this withdrawal (LP: net of Fee); the wire transfer further deducts Config.TransferFee
	Shares        math.Int
	ReserveLocked Amount // LP only: gross reserve removed, restored on rollback
	Fee           Amount // LP only: withdrawal fee withheld from gross
	CreatedAtNs   int64
}

// GetAmount returns the amount regardless of withdrawal kind, mirroring the
// original system's PendingWithdrawal::get_amount helper.
func (p PendingWithdrawal) GetAmount() Amount {
	return p.Amount
}
