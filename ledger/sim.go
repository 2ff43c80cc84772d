// Package ledger provides a deterministic types.Ledger implementation for
// tests and local development, standing in for an ICRC-2-style token
// ledger canister without needing a live network connection.
package ledger

import (
	"context"
	"sync"

	"github.com/openalpha/casino-core/x/accounting/types"
)

// Sim is an in-memory types.Ledger. Tests configure its FailureFunc to
// inject DefiniteError/UncertainError outcomes at specific call sites, the
// same way the original canister's test harness simulated a flaky
// downstream ledger.
type Sim struct {
	mu         sync.Mutex
	balances   map[types.Principal]types.Amount
	nextBlock  uint64
	seenBlocks map[string]uint64 // memo key -> block index, for retry dedup

	// FailureFunc, if set, is consulted before every TransferFrom call and
	// every Transfer that is not a replay of an already-settled transfer
	// (replays return their recorded Success first); returning a
	// non-success Outcome short-circuits the call with that outcome instead
	// of touching balances.
	FailureFunc func(call string, from, to types.Principal, amount types.Amount) (types.Outcome, string)
}

// NewSim constructs a simulated ledger seeded with the given opening
// balances (commonly just the accounting core's own custody principal,
// pre-funded for deposit tests).
func NewSim(seed map[types.Principal]types.Amount) *Sim {
	balances := make(map[types.Principal]types.Amount, len(seed))
	for p, a := range seed {
		balances[p] = a
	}
	return &Sim{
		balances:   balances,
		seenBlocks: make(map[string]uint64),
	}
}

func dedupKey(to types.Principal, createdAtNs int64, memo string) string {
	return string(to) + "|" + memo + "|" + itoa64(createdAtNs)
}

func itoa64(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// TransferFrom simulates an ICRC-2 transfer_from: debiting `from` and
// crediting `to`, subject to FailureFunc injection and available balance.
func (s *Sim) TransferFrom(_ context.Context, from, to types.Principal, amount types.Amount) types.TransferResult {
	if s.FailureFunc != nil {
		if outcome, reason := s.FailureFunc("transfer_from", from, to, amount); outcome != types.OutcomeSuccess {
			return types.TransferResult{Outcome: outcome, Reason: reason}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.balances[from] < amount {
		return types.TransferResult{Outcome: types.OutcomeDefiniteError, Reason: "insufficient funds"}
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	s.nextBlock++
	return types.TransferResult{Outcome: types.OutcomeSuccess, BlockIndex: s.nextBlock}
}

// Transfer simulates an outbound ICRC-1 transfer from the ledger's own
// custody account, deduplicating repeated calls that share the same
// (to, createdAtNs, memo) the way a real ledger's transaction-window
// dedup would, so RetryWithdrawal against an already-settled transfer
// replies Success instead of moving funds twice.
//
// fee is burned from the custody account in addition to amount: the
// recipient receives exactly amount, the custody account pays amount+fee.
func (s *Sim) Transfer(_ context.Context, to types.Principal, amount, fee types.Amount, createdAtNs int64, memo string) types.TransferResult {
	key := dedupKey(to, createdAtNs, memo)

	s.mu.Lock()
	if block, seen := s.seenBlocks[key]; seen {
		s.mu.Unlock()
		return types.TransferResult{Outcome: types.OutcomeSuccess, BlockIndex: block}
	}
	s.mu.Unlock()

	if s.FailureFunc != nil {
		if outcome, reason := s.FailureFunc("transfer", "", to, amount); outcome != types.OutcomeSuccess {
			return types.TransferResult{Outcome: outcome, Reason: reason}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	const selfPrincipal types.Principal = "self"
	debit := amount + fee
	if s.balances[selfPrincipal] < debit {
		return types.TransferResult{Outcome: types.OutcomeDefiniteError, Reason: "insufficient custody funds"}
	}
	s.balances[selfPrincipal] -= debit
	s.balances[to] += amount
	s.nextBlock++
	s.seenBlocks[key] = s.nextBlock
	return types.TransferResult{Outcome: types.OutcomeSuccess, BlockIndex: s.nextBlock}
}

// BalanceOf returns a principal's simulated ledger balance.
func (s *Sim) BalanceOf(_ context.Context, who types.Principal) (types.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[who], nil
}
