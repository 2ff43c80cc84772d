package keeper

import (
	"context"
	"testing"

	"github.com/openalpha/casino-core/ledger"
	"github.com/openalpha/casino-core/x/accounting/types"
)

func depositedKeeper(t *testing.T, principal types.Principal, amount types.Amount) (*Keeper, *ledger.Sim) {
	t.Helper()
	cfg := smallConfig()
	sim := ledger.NewSim(map[types.Principal]types.Amount{principal: amount})
	k := newTestKeeper(cfg, sim, &fakeClock{now: 1})
	if err := k.Deposit(context.Background(), principal, amount); err != nil {
		t.Fatalf("seed deposit failed: %v", err)
	}
	return k, sim
}

func TestWithdrawSuccessClearsPending(t *testing.T) {
	k, _ := depositedKeeper(t, "alice", 1_000)

	if err := k.Withdraw(context.Background(), "alice", 1_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, pending := k.pending.get("alice"); pending {
		t.Errorf("expected no pending withdrawal after a successful resolution")
	}
	if k.balances["alice"] != 0 {
		t.Errorf("expected alice's balance debited to zero, got %d", k.balances["alice"])
	}
}

func TestWithdrawDefiniteErrorRollsBack(t *testing.T) {
	k, sim := depositedKeeper(t, "alice", 1_000)
	sim.FailureFunc = func(call string, from, to types.Principal, amount types.Amount) (types.Outcome, string) {
		if call == "transfer" {
			return types.OutcomeDefiniteError, "ledger rejected"
		}
		return types.OutcomeSuccess, ""
	}

	err := k.Withdraw(context.Background(), "alice", 1_000)
	if err == nil {
		t.Fatalf("expected an error from a definite ledger failure")
	}
	if _, pending := k.pending.get("alice"); pending {
		t.Errorf("expected the pending slot cleared after rollback")
	}
	if k.balances["alice"] != 1_000 {
		t.Errorf("expected alice's balance restored to 1000 after rollback, got %d", k.balances["alice"])
	}
}

func TestWithdrawUncertainLeavesPendingForRetry(t *testing.T) {
	k, sim := depositedKeeper(t, "alice", 1_000)
	uncertainOnce := true
	sim.FailureFunc = func(call string, from, to types.Principal, amount types.Amount) (types.Outcome, string) {
		if call == "transfer" && uncertainOnce {
			uncertainOnce = false
			return types.OutcomeUncertainError, "timeout"
		}
		return types.OutcomeSuccess, ""
	}

	err := k.Withdraw(context.Background(), "alice", 1_000)
	if err == nil {
		t.Fatalf("expected the uncertain outcome to surface as an error")
	}
	if _, pending := k.pending.get("alice"); !pending {
		t.Fatalf("expected the pending withdrawal to remain after an uncertain outcome")
	}
	if k.balances["alice"] != 0 {
		t.Errorf("expected alice's balance to stay debited while pending, got %d", k.balances["alice"])
	}

	if err := k.RetryWithdrawal(context.Background(), "alice"); err != nil {
		t.Fatalf("expected retry to succeed once the ledger stabilizes: %v", err)
	}
	if _, pending := k.pending.get("alice"); pending {
		t.Errorf("expected the pending slot cleared after a successful retry")
	}
}

func TestWithdrawWhileAlreadyPendingFails(t *testing.T) {
	k, sim := depositedKeeper(t, "alice", 2_000)
	sim.FailureFunc = func(call string, from, to types.Principal, amount types.Amount) (types.Outcome, string) {
		if call == "transfer" {
			return types.OutcomeUncertainError, "timeout"
		}
		return types.OutcomeSuccess, ""
	}

	if err := k.Withdraw(context.Background(), "alice", 1_000); err == nil {
		t.Fatalf("expected the first withdrawal to surface its uncertain outcome as an error")
	}

	if err := k.Withdraw(context.Background(), "alice", 1_000); err == nil {
		t.Errorf("expected a second withdrawal attempt to fail while one is pending")
	}
}

func TestAbandonWithdrawalClearsPendingWithoutRestoring(t *testing.T) {
	k, sim := depositedKeeper(t, "alice", 1_000)
	sim.FailureFunc = func(call string, from, to types.Principal, amount types.Amount) (types.Outcome, string) {
		if call == "transfer" {
			return types.OutcomeUncertainError, "timeout"
		}
		return types.OutcomeSuccess, ""
	}
	if err := k.Withdraw(context.Background(), "alice", 1_000); err == nil {
		t.Fatalf("expected uncertain outcome")
	}

	if err := k.AbandonWithdrawal("alice"); err != nil {
		t.Fatalf("abandon failed: %v", err)
	}
	if _, pending := k.pending.get("alice"); pending {
		t.Errorf("expected pending slot cleared after abandon")
	}
	if k.balances["alice"] != 0 {
		t.Errorf("expected no balance restoration on abandon, got %d", k.balances["alice"])
	}
}

func TestRetryWithdrawalWithNoPendingFails(t *testing.T) {
	k, _ := depositedKeeper(t, "alice", 1_000)
	if err := k.RetryWithdrawal(context.Background(), "alice"); err == nil {
		t.Errorf("expected retry with no pending withdrawal to fail")
	}
}

func TestWithdrawDeductsTransferFeeFromWhatTheUserReceives(t *testing.T) {
	// spec.md §8: "Deposit(amount) immediately followed by Withdraw-all
	// returns amount - transfer_fee to the user." The accounting core's own
	// ledger still debits the full amount (no partial-debit games); only
	// what lands in the user's wallet is reduced by the fee.
	cfg := smallConfig()
	cfg.TransferFee = 25
	sim := ledger.NewSim(map[types.Principal]types.Amount{"alice": 1_000})
	k := newTestKeeper(cfg, sim, &fakeClock{now: 1})
	if err := k.Deposit(context.Background(), "alice", 1_000); err != nil {
		t.Fatalf("seed deposit failed: %v", err)
	}

	if err := k.Withdraw(context.Background(), "alice", 1_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.balances["alice"] != 0 {
		t.Errorf("expected alice's internal balance debited in full, got %d", k.balances["alice"])
	}

	got, _ := sim.BalanceOf(context.Background(), "alice")
	if got != 975 {
		t.Errorf("expected alice's wallet credited amount-transfer_fee (975), got %d", got)
	}
}

func TestWithdrawAllLiquidityRollsBackSharesOnDefiniteError(t *testing.T) {
	cfg := smallConfig()
	sim := ledger.NewSim(map[types.Principal]types.Amount{"lp": 10_000})
	k := newTestKeeper(cfg, sim, &fakeClock{now: 1})
	if _, err := k.DepositLiquidity(context.Background(), "lp", 2_100, 0); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	sim.FailureFunc = func(call string, from, to types.Principal, amount types.Amount) (types.Outcome, string) {
		if call == "transfer" {
			return types.OutcomeDefiniteError, "rejected"
		}
		return types.OutcomeSuccess, ""
	}

	sharesBefore := k.lpShares["lp"]
	if _, err := k.WithdrawAllLiquidity(context.Background(), "lp"); err == nil {
		t.Fatalf("expected definite ledger error to surface")
	}
	if k.lpShares["lp"] != sharesBefore {
		t.Errorf("expected lp shares restored to %d, got %d", sharesBefore, k.lpShares["lp"])
	}
}
