package ledger

import (
	"context"
	"testing"

	"github.com/openalpha/casino-core/x/accounting/types"
)

func TestSimTransferFromMovesBalance(t *testing.T) {
	sim := NewSim(map[types.Principal]types.Amount{"alice": 1_000})

	result := sim.TransferFrom(context.Background(), "alice", "self", 400)
	if result.Outcome != types.OutcomeSuccess {
		t.Fatalf("expected success, got %v: %s", result.Outcome, result.Reason)
	}

	balAlice, _ := sim.BalanceOf(context.Background(), "alice")
	balSelf, _ := sim.BalanceOf(context.Background(), "self")
	if balAlice != 600 {
		t.Errorf("expected alice left with 600, got %d", balAlice)
	}
	if balSelf != 400 {
		t.Errorf("expected self credited 400, got %d", balSelf)
	}
}

func TestSimTransferFromInsufficientFunds(t *testing.T) {
	sim := NewSim(map[types.Principal]types.Amount{"alice": 100})

	result := sim.TransferFrom(context.Background(), "alice", "self", 400)
	if result.Outcome != types.OutcomeDefiniteError {
		t.Fatalf("expected DefiniteError, got %v", result.Outcome)
	}

	bal, _ := sim.BalanceOf(context.Background(), "alice")
	if bal != 100 {
		t.Errorf("expected alice's balance untouched at 100, got %d", bal)
	}
}

func TestSimTransferDeduplicatesRetryByMemo(t *testing.T) {
	sim := NewSim(map[types.Principal]types.Amount{"self": 1_000})

	first := sim.Transfer(context.Background(), "bob", 300, 0, 42, "user-withdrawal")
	if first.Outcome != types.OutcomeSuccess {
		t.Fatalf("expected first transfer to succeed, got %v", first.Outcome)
	}

	second := sim.Transfer(context.Background(), "bob", 300, 0, 42, "user-withdrawal")
	if second.Outcome != types.OutcomeSuccess {
		t.Fatalf("expected retried transfer to report success, got %v", second.Outcome)
	}
	if second.BlockIndex != first.BlockIndex {
		t.Errorf("expected the retried transfer to replay the original block index %d, got %d", first.BlockIndex, second.BlockIndex)
	}

	bal, _ := sim.BalanceOf(context.Background(), "bob")
	if bal != 300 {
		t.Errorf("expected bob credited exactly once (300), got %d", bal)
	}
}

func TestSimTransferFailureFuncShortCircuits(t *testing.T) {
	sim := NewSim(map[types.Principal]types.Amount{"self": 1_000})
	sim.FailureFunc = func(call string, from, to types.Principal, amount types.Amount) (types.Outcome, string) {
		if call == "transfer" {
			return types.OutcomeUncertainError, "simulated timeout"
		}
		return types.OutcomeSuccess, ""
	}

	result := sim.Transfer(context.Background(), "bob", 300, 1, 1, "memo")
	if result.Outcome != types.OutcomeUncertainError {
		t.Fatalf("expected UncertainError, got %v", result.Outcome)
	}

	bal, _ := sim.BalanceOf(context.Background(), "bob")
	if bal != 0 {
		t.Errorf("expected no funds moved on an injected failure, got %d", bal)
	}
}

func TestSimTransferBurnsFeeFromCustodyAccount(t *testing.T) {
	sim := NewSim(map[types.Principal]types.Amount{"self": 1_000})

	result := sim.Transfer(context.Background(), "bob", 300, 50, 1, "user-withdrawal")
	if result.Outcome != types.OutcomeSuccess {
		t.Fatalf("expected success, got %v: %s", result.Outcome, result.Reason)
	}

	balBob, _ := sim.BalanceOf(context.Background(), "bob")
	balSelf, _ := sim.BalanceOf(context.Background(), "self")
	if balBob != 300 {
		t.Errorf("expected bob credited exactly the amount (300), got %d", balBob)
	}
	if balSelf != 650 {
		t.Errorf("expected self debited amount+fee (350), got self left with %d want 650", balSelf)
	}
}

func TestSimTransferInsufficientCustodyFundsForFee(t *testing.T) {
	sim := NewSim(map[types.Principal]types.Amount{"self": 320})

	result := sim.Transfer(context.Background(), "bob", 300, 50, 1, "user-withdrawal")
	if result.Outcome != types.OutcomeDefiniteError {
		t.Fatalf("expected DefiniteError when custody can't cover amount+fee, got %v", result.Outcome)
	}

	bal, _ := sim.BalanceOf(context.Background(), "bob")
	if bal != 0 {
		t.Errorf("expected no funds moved, got %d", bal)
	}
}
