package types

import (
	"context"
	"time"
)

// Outcome is the three-valued result of an outbound ledger call. Collapsing
// this to a binary success/failure is exactly the bug this system exists to
// avoid: an Uncertain outcome must never be treated as either Success or
// DefiniteError.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeDefiniteError
	OutcomeUncertainError
)

// TransferResult is what a Ledger call returns.
type TransferResult struct {
	Outcome    Outcome
	BlockIndex uint64
	Reason     string
}

// Ledger is the external ICRC-1/ICRC-2-shaped token ledger this system
// custodies funds against. It is consumed, never implemented, by the
// accounting core; production wiring talks to a real ledger canister or
// contract, tests and the CLI demo use ledger.Sim.
type Ledger interface {
	// TransferFrom pulls amount from `from` into `to` (the accounting
	// core's own account), used by user deposits and LP deposits after the
	// caller has approved an ICRC-2 allowance.
	TransferFrom(ctx context.Context, from, to Principal, amount Amount) TransferResult

	// Transfer pushes amount out to `to`, additionally burning fee from the
	// accounting core's own custody account (the recipient receives exactly
	// amount; the core pays amount+fee). createdAtNs is the idempotency key
	// a compliant ledger uses to deduplicate retried requests.
	Transfer(ctx context.Context, to Principal, amount, fee Amount, createdAtNs int64, memo string) TransferResult

	// BalanceOf returns the ledger's view of an account's balance; used by
	// the solvency refresh to compare against tracked liabilities.
	BalanceOf(ctx context.Context, who Principal) (Amount, error)
}

// Clock abstracts wall-clock time so tests can control day boundaries and
// withdrawal idempotency keys deterministically.
type Clock interface {
	NowNs() int64
}

// Timer abstracts the periodic callback registration used by the daily
// statistics backup snapshot. Every() returns a stop function.
type Timer interface {
	Every(ctx context.Context, period time.Duration, cb func(context.Context)) (stop func())
}
