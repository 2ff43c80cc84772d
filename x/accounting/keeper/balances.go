package keeper

import (
	"context"

	"github.com/openalpha/casino-core/x/accounting/types"
)

// Get returns principal's balance, zero if absent.
func (k *Keeper) Get(p types.Principal) types.Amount {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.balances[p]
}

// credit adds amount to principal's balance, failing if a pending
// withdrawal exists (a late-arriving credit racing an outbound transfer is
// exactly the double-spend window this system refuses to open) or on
// overflow. Must be called with k.mu held.
func (k *Keeper) credit(p types.Principal, amount types.Amount) error {
	if _, pending := k.pending.get(p); pending {
		return types.ErrWithdrawalPending.Wrapf("principal %s", p)
	}
	next, err := k.balances[p].AddChecked(amount)
	if err != nil {
		return err
	}
	k.balances[p] = next
	return nil
}

// forceCredit is the admin/internal-only variant used by the slippage
// refund and reconciliation paths, which must succeed even while a pending
// withdrawal exists. Never call this from a path reachable by ordinary user
// action. Must be called with k.mu held.
func (k *Keeper) forceCredit(p types.Principal, amount types.Amount) error {
	next, err := k.balances[p].AddChecked(amount)
	if err != nil {
		return err
	}
	k.balances[p] = next
	k.logAudit(types.AuditEvent{Kind: types.EventBalanceRestored, Principal: p, Amount: amount})
	return nil
}

// debit subtracts amount from principal's balance, removing the entry on
// reaching zero (spec.md §3: no UserBalance entry may equal zero). Must be
// called with k.mu held.
func (k *Keeper) debit(p types.Principal, amount types.Amount) error {
	bal := k.balances[p]
	next, err := bal.SubChecked(amount)
	if err != nil {
		return err
	}
	if next == 0 {
		delete(k.balances, p)
	} else {
		k.balances[p] = next
	}
	return nil
}

// Deposit pulls amount from principal via the ledger's transfer_from and,
// on definite success, credits the user balance. On an uncertain outcome
// the deposit fails without crediting; any funds that did arrive become
// orphaned excess until an admin reconciles them (spec.md §4.2).
func (k *Keeper) Deposit(ctx context.Context, p types.Principal, amount types.Amount) error {
	if amount < k.cfg.MinUserDeposit {
		return types.ErrBelowMinimum.Wrapf("deposit %d below minimum %d", amount, k.cfg.MinUserDeposit)
	}

	handle, err := k.guard.Acquire(p)
	if err != nil {
		return err
	}
	defer handle.Release()

	result := k.ledger.TransferFrom(ctx, p, selfPrincipal, amount)
	switch result.Outcome {
	case types.OutcomeSuccess:
		k.mu.Lock()
		defer k.mu.Unlock()
		if err := k.credit(p, amount); err != nil {
			return err
		}
		k.logAudit(types.AuditEvent{Kind: types.EventSystemInfo, Principal: p, Amount: amount, Message: "deposit credited"})
		return nil
	case types.OutcomeDefiniteError:
		return types.ErrLedgerDefiniteError.Wrap(result.Reason)
	default:
		// Uncertain: the transfer may or may not have landed. We must not
		// credit speculatively; reconciliation is admin-driven.
		k.mu.Lock()
		k.logAudit(types.AuditEvent{Kind: types.EventSystemError, Principal: p, Amount: amount, Message: "deposit uncertain: " + result.Reason})
		k.mu.Unlock()
		return types.ErrLedgerUncertain.Wrap(result.Reason)
	}
}

// selfPrincipal is the accounting core's own custody account, the `to` side
// of every deposit transfer_from call.
const selfPrincipal types.Principal = "self"
