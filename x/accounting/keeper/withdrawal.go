package keeper

import (
	"context"

	"github.com/openalpha/casino-core/x/accounting/types"
)

// Withdraw runs the three-phase protocol (spec.md §4.4) for a plain user
// balance withdrawal: debit the requested amount (any remainder of the
// balance stays credited), insert a pending slot, call the
// ledger, then resolve. A ledger outcome of Uncertain deliberately leaves
// the pending slot in place rather than guessing at whether the transfer
// landed.
func (k *Keeper) Withdraw(ctx context.Context, p types.Principal, amount types.Amount) error {
	if amount < k.cfg.MinUserWithdraw {
		return types.ErrBelowMinimum.Wrapf("withdrawal %d below minimum %d", amount, k.cfg.MinUserWithdraw)
	}

	handle, err := k.guard.Acquire(p)
	if err != nil {
		return err
	}
	defer handle.Release()

	k.mu.Lock()
	if _, busy := k.pending.get(p); busy {
		k.mu.Unlock()
		return types.ErrWithdrawalPending.Wrapf("principal %s", p)
	}
	bal := k.balances[p]
	if bal < amount {
		k.mu.Unlock()
		return types.ErrInsufficientBalance.Wrapf("have %d, need %d", bal, amount)
	}
	if err := k.debit(p, amount); err != nil {
		k.mu.Unlock()
		return err
	}
	createdAt := k.clock.NowNs()
	pw := types.PendingWithdrawal{
		Principal:   p,
		Kind:        types.WithdrawalKindUser,
		Amount:      amount,
		CreatedAtNs: createdAt,
	}
	k.pending.insert(pw)
	k.logAudit(types.AuditEvent{Kind: types.EventWithdrawalInitiated, Principal: p, Amount: amount})
	k.mu.Unlock()

	result := k.ledger.Transfer(ctx, p, k.netOfTransferFee(amount), k.cfg.TransferFee, createdAt, "user-withdrawal")
	return k.resolveWithdrawal(p, pw, result)
}

// netOfTransferFee reduces a debited amount by the configured ledger
// transfer fee before it is handed to Ledger.Transfer as the wire amount,
// so the recipient nets amount-transfer_fee per spec.md §8's round-trip
// law (the pending slot itself still tracks the full debited amount, for
// rollback). Saturates at zero rather than going negative.
func (k *Keeper) netOfTransferFee(amount types.Amount) types.Amount {
	if amount <= k.cfg.TransferFee {
		return 0
	}
	return amount - k.cfg.TransferFee
}

// WithdrawAllLiquidity burns the caller's entire LP position and runs the
// three-phase protocol for the net (post-fee) amount. Share burn and
// reserve debit happen before the outbound transfer is attempted
// (spec.md §4.3 re-entrancy protection); on a DefiniteError the LP position
// is fully restored, on Uncertain it is left pending.
func (k *Keeper) WithdrawAllLiquidity(ctx context.Context, p types.Principal) (types.Amount, error) {
	handle, err := k.guard.Acquire(p)
	if err != nil {
		return 0, err
	}
	defer handle.Release()

	k.mu.Lock()
	if _, busy := k.pending.get(p); busy {
		k.mu.Unlock()
		return 0, types.ErrWithdrawalPending.Wrapf("principal %s", p)
	}
	shares, gross, fee, net, err := k.burnSharesForWithdrawal(p)
	if err != nil {
		k.mu.Unlock()
		return 0, err
	}
	createdAt := k.clock.NowNs()
	pw := types.PendingWithdrawal{
		Principal:     p,
		Kind:          types.WithdrawalKindLP,
		Amount:        net,
		Shares:        types.NewInt(types.Amount(shares)),
		ReserveLocked: gross,
		Fee:           fee,
		CreatedAtNs:   createdAt,
	}
	k.pending.insert(pw)
	k.logAudit(types.AuditEvent{Kind: types.EventWithdrawalInitiated, Principal: p, Amount: net})
	k.mu.Unlock()

	result := k.ledger.Transfer(ctx, p, k.netOfTransferFee(net), k.cfg.TransferFee, createdAt, "lp-withdrawal")
	if err := k.resolveWithdrawal(p, pw, result); err != nil {
		return 0, err
	}
	return net, nil
}

// resolveWithdrawal implements phase III: Success removes the pending slot
// and (for LP withdrawals) settles the fee; DefiniteError rolls back
// everything the initiate phase mutated; UncertainError leaves the pending
// slot untouched so the user must retry or abandon.
func (k *Keeper) resolveWithdrawal(p types.Principal, pw types.PendingWithdrawal, result types.TransferResult) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch result.Outcome {
	case types.OutcomeSuccess:
		k.pending.remove(p)
		k.logAudit(types.AuditEvent{Kind: types.EventWithdrawalCompleted, Principal: p, Amount: pw.Amount})
		if pw.Kind == types.WithdrawalKindLP {
			k.settleParentFee(pw.Fee)
		}
		return nil

	case types.OutcomeDefiniteError:
		k.pending.remove(p)
		if rerr := k.rollbackWithdrawal(p, pw); rerr != nil {
			return rerr
		}
		k.logAudit(types.AuditEvent{Kind: types.EventWithdrawalFailed, Principal: p, Amount: pw.Amount, Message: result.Reason})
		return types.ErrLedgerDefiniteError.Wrap(result.Reason)

	case types.OutcomeUncertainError:
		// Pending slot stays exactly as it was; no restoration. The user
		// must explicitly retry_withdrawal or abandon_withdrawal.
		k.logAudit(types.AuditEvent{Kind: types.EventWithdrawalFailed, Principal: p, Amount: pw.Amount, Message: "uncertain: " + result.Reason})
		return types.ErrLedgerUncertain.Wrap(result.Reason)

	default:
		panic(types.ErrSystemInvariant.Wrapf("unhandled ledger outcome %d", result.Outcome).Error())
	}
}

// rollbackWithdrawal restores whatever the initiate phase mutated. Must be
// called with k.mu held.
func (k *Keeper) rollbackWithdrawal(p types.Principal, pw types.PendingWithdrawal) error {
	switch pw.Kind {
	case types.WithdrawalKindUser:
		if err := k.forceCredit(p, pw.Amount); err != nil {
			return err
		}
	case types.WithdrawalKindLP:
		shares, err := types.IntToAmount(pw.Shares)
		if err != nil {
			return err
		}
		if err := k.restoreLP(p, uint64(shares), pw.ReserveLocked); err != nil {
			return err
		}
	}
	return nil
}

// settleParentFee credits the configured parent principal for an LP
// withdrawal fee, or — if the parent currently holds its own pending
// withdrawal (a guard collision) — falls back to the configured
// ParentFeePolicy, normally returning the fee to the reserve so LPs benefit
// instead of losing it. Must be called with k.mu held.
func (k *Keeper) settleParentFee(fee types.Amount) {
	if fee == 0 {
		return
	}
	parent := k.cfg.ParentPrincipal
	if parent == "" || k.guard.HasActiveGuard(parent) {
		refund, reason := k.feePolicy.CreditFallback(fee)
		if refund > 0 {
			k.pool.Reserve += refund
		}
		k.logAudit(types.AuditEvent{Kind: types.EventParentFeeFallback, Amount: fee, Message: reason})
		return
	}
	if err := k.credit(parent, fee); err != nil {
		refund, reason := k.feePolicy.CreditFallback(fee)
		if refund > 0 {
			k.pool.Reserve += refund
		}
		k.logAudit(types.AuditEvent{Kind: types.EventParentFeeFallback, Amount: fee, Message: reason})
		return
	}
	k.logAudit(types.AuditEvent{Kind: types.EventParentFeeCredited, Principal: parent, Amount: fee})
}

// RetryWithdrawal re-runs phase II with the same CreatedAtNs the initiate
// phase recorded, so a ledger that already processed the first attempt
// replies with a deduplicated Success instead of moving funds twice.
func (k *Keeper) RetryWithdrawal(ctx context.Context, p types.Principal) error {
	handle, err := k.guard.Acquire(p)
	if err != nil {
		return err
	}
	defer handle.Release()

	k.mu.Lock()
	pw, ok := k.pending.get(p)
	k.mu.Unlock()
	if !ok {
		return types.ErrNoPendingWithdrawal.Wrapf("principal %s", p)
	}

	// Same memo as the initial attempt: memo is part of the ledger's
	// deduplication key alongside CreatedAtNs.
	memo := "user-withdrawal"
	if pw.Kind == types.WithdrawalKindLP {
		memo = "lp-withdrawal"
	}
	result := k.ledger.Transfer(ctx, p, k.netOfTransferFee(pw.Amount), k.cfg.TransferFee, pw.CreatedAtNs, memo)
	return k.resolveWithdrawal(p, pw, result)
}

// AbandonWithdrawal clears p's pending slot without restoring any balance.
// The user is asserting they accept that the funds may already be gone;
// this never auto-restores, since that is precisely the double-spend this
// system exists to prevent (spec.md §4.4).
func (k *Keeper) AbandonWithdrawal(p types.Principal) error {
	handle, err := k.guard.Acquire(p)
	if err != nil {
		return err
	}
	defer handle.Release()

	k.mu.Lock()
	defer k.mu.Unlock()
	pw, ok := k.pending.get(p)
	if !ok {
		return types.ErrNoPendingWithdrawal.Wrapf("principal %s", p)
	}
	k.pending.remove(p)
	k.logAudit(types.AuditEvent{Kind: types.EventWithdrawalAbandoned, Principal: p, Amount: pw.Amount})
	return nil
}

// MarkExpired audits a pending withdrawal that has outlived the ledger's
// transaction validity window. It performs no state change: per spec.md
// §4.4, expiry collapses any uncertainty into a DefiniteError on the next
// retry, so this is purely an observability signal for the admin sweep.
func (k *Keeper) MarkExpired(p types.Principal) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	pw, ok := k.pending.get(p)
	if !ok {
		return types.ErrNoPendingWithdrawal.Wrapf("principal %s", p)
	}
	k.logAudit(types.AuditEvent{Kind: types.EventWithdrawalExpired, Principal: p, Amount: pw.Amount})
	return nil
}
