package types

import (
	"cosmossdk.io/errors"
)

// Module error codes. One variant per distinguishable recovery path, per
// the error taxonomy in the specification's error-handling design.
var (
	ErrBelowMinimum            = errors.Register("accounting", 1, "amount below configured minimum")
	ErrInsufficientBalance     = errors.Register("accounting", 2, "insufficient balance")
	ErrInsufficientShares      = errors.Register("accounting", 3, "insufficient shares")
	ErrInsufficientPoolReserve = errors.Register("accounting", 4, "insufficient pool reserve")
	ErrInsufficientAllowance   = errors.Register("accounting", 5, "insufficient ledger allowance")
	ErrOverflow                = errors.Register("accounting", 6, "checked arithmetic overflow")
	ErrPoolDepleted            = errors.Register("accounting", 7, "pool has shares outstanding but zero reserve")
	ErrSlippageExceeded        = errors.Register("accounting", 8, "share mint below caller's minimum")
	ErrOperationInProgress     = errors.Register("accounting", 9, "an operation is already in progress for this caller")
	ErrWithdrawalPending       = errors.Register("accounting", 10, "a pending withdrawal must be resolved first")
	ErrLedgerDefiniteError     = errors.Register("accounting", 11, "ledger transfer definitely failed")
	ErrLedgerUncertain         = errors.Register("accounting", 12, "ledger transfer outcome uncertain")
	ErrUnauthorized            = errors.Register("accounting", 13, "caller is not authorized for this operation")
	ErrPoolNotFound            = errors.Register("accounting", 14, "pool has not been bootstrapped")
	ErrNoPendingWithdrawal     = errors.Register("accounting", 15, "no pending withdrawal for this principal")
	ErrInvalidPrincipal        = errors.Register("accounting", 16, "invalid principal")
	ErrSystemInvariant         = errors.Register("accounting", 17, "internal accounting invariant violated")
)
