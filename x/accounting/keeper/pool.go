package keeper

import (
	"context"

	"github.com/openalpha/casino-core/x/accounting/types"
)

// DepositLiquidity pulls amount from p via the ledger and mints LP shares
// against the pool, per spec.md §4.3. minSharesOut, if non-zero, triggers
// slippage protection: if the computed share count would fall below it,
// the transferred-in amount is refunded to the user's balance instead of
// being absorbed into the reserve.
func (k *Keeper) DepositLiquidity(ctx context.Context, p types.Principal, amount types.Amount, minSharesOut uint64) (uint64, error) {
	if amount < k.cfg.MinLPDeposit {
		return 0, types.ErrBelowMinimum.Wrapf("LP deposit %d below minimum %d", amount, k.cfg.MinLPDeposit)
	}

	handle, err := k.guard.Acquire(p)
	if err != nil {
		return 0, err
	}
	defer handle.Release()

	result := k.ledger.TransferFrom(ctx, p, selfPrincipal, amount)
	switch result.Outcome {
	case types.OutcomeDefiniteError:
		return 0, types.ErrLedgerDefiniteError.Wrap(result.Reason)
	case types.OutcomeUncertainError:
		return 0, types.ErrLedgerUncertain.Wrap(result.Reason)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	shares, bootstrap, err := k.computeMintShares(amount)
	if err != nil {
		return 0, err
	}

	if minSharesOut > 0 && shares < minSharesOut {
		// Slippage protection: leave the pool strictly unchanged and
		// refund the transferred-in amount to the user's balance instead
		// of minting shares against it.
		if cErr := k.forceCredit(p, amount); cErr != nil {
			return 0, cErr
		}
		k.logAudit(types.AuditEvent{
			Kind:      types.EventSlippageProtectionTriggered,
			Principal: p,
			Amount:    amount,
			Message:   "minted shares below caller minimum",
		})
		return 0, types.ErrSlippageExceeded.Wrapf("would mint %d, want at least %d", shares, minSharesOut)
	}

	if bootstrap {
		k.lpShares[types.BurnSinkPrincipal] += uint64(k.cfg.MinimumLiquidity)
		k.totalShares += uint64(k.cfg.MinimumLiquidity)
		k.pool.Initialized = true
	}
	k.lpShares[p] += shares
	k.totalShares += shares
	next, err := k.pool.Reserve.AddChecked(amount)
	if err != nil {
		return 0, err
	}
	k.pool.Reserve = next

	return shares, nil
}

// computeMintShares returns the number of shares `amount` would mint and
// whether this is the bootstrap (first-ever) deposit. Must be called with
// k.mu held.
func (k *Keeper) computeMintShares(amount types.Amount) (shares uint64, bootstrap bool, err error) {
	if k.totalShares == 0 {
		if amount <= k.cfg.MinimumLiquidity {
			return 0, false, types.ErrBelowMinimum.Wrapf("first deposit must exceed minimum liquidity %d", k.cfg.MinimumLiquidity)
		}
		return uint64(amount) - uint64(k.cfg.MinimumLiquidity), true, nil
	}

	if k.pool.Reserve == 0 {
		return 0, false, types.ErrPoolDepleted
	}

	numerator := types.NewInt(amount).MulRaw(int64(k.totalShares))
	quotient := numerator.Quo(types.NewInt(k.pool.Reserve))
	s, err := types.IntToAmount(quotient)
	if err != nil {
		return 0, false, err
	}
	if s == 0 {
		return 0, false, types.ErrBelowMinimum.Wrap("computed zero shares")
	}
	return uint64(s), false, nil
}

// burnSharesForWithdrawal performs every state mutation that must happen
// before the outbound transfer is attempted (re-entrancy protection per
// spec.md §4.3): it removes the caller's shares, debits the gross amount
// from the reserve, and returns the computed net/fee split. The pending
// withdrawal itself is inserted by the caller (withdrawal.go), which also
// owns rollback on DefiniteError. Must be called with k.mu held.
func (k *Keeper) burnSharesForWithdrawal(p types.Principal) (shares uint64, gross, fee, net types.Amount, err error) {
	shares = k.lpShares[p]
	if shares == 0 {
		return 0, 0, 0, 0, types.ErrInsufficientShares.Wrapf("principal %s has no shares", p)
	}
	if k.totalShares == 0 {
		return 0, 0, 0, 0, types.ErrSystemInvariant.Wrap("total shares zero with a positive holder")
	}

	numerator := types.NewInt(k.pool.Reserve).MulRaw(int64(shares))
	grossInt := numerator.Quo(types.NewInt(types.Amount(k.totalShares)))
	gross, err = types.IntToAmount(grossInt)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if gross < k.cfg.MinLPWithdraw {
		return 0, 0, 0, 0, types.ErrBelowMinimum.Wrapf("withdrawal %d below minimum %d", gross, k.cfg.MinLPWithdraw)
	}

	fee = types.Amount(uint64(gross) * k.cfg.LPWithdrawalFeeBps / 10_000)
	net, err = gross.SubChecked(fee)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	delete(k.lpShares, p)
	k.totalShares -= shares

	newReserve, err := k.pool.Reserve.SubChecked(gross)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	k.pool.Reserve = newReserve

	return shares, gross, fee, net, nil
}

// restoreLP re-inserts a withdrawer's burned shares and the reserve they
// were backed by; used only by the three-phase withdrawal rollback path on
// a DefiniteError resolution.
func (k *Keeper) restoreLP(p types.Principal, shares uint64, reserveAmount types.Amount) error {
	k.lpShares[p] += shares
	k.totalShares += shares
	next, err := k.pool.Reserve.AddChecked(reserveAmount)
	if err != nil {
		return err
	}
	k.pool.Reserve = next
	k.logAudit(types.AuditEvent{Kind: types.EventLPRestored, Principal: p, Amount: reserveAmount})
	return nil
}

// UpdateOnWin subtracts a winning bet's profit from the reserve. An
// insufficient reserve here means the caller should have already rejected
// the bet at settlement time (spec.md §4.5); reaching it here is a fatal
// accounting bug, not a recoverable condition, so it halts the process
// rather than risk paying out insolvently.
func (k *Keeper) UpdateOnWin(profit types.Amount) {
	k.mu.Lock()
	defer k.mu.Unlock()
	next, err := k.pool.Reserve.SubChecked(profit)
	if err != nil {
		panic(types.ErrSystemInvariant.Wrapf("pool insolvent: payout %d exceeds reserve %d", profit, k.pool.Reserve).Error())
	}
	k.pool.Reserve = next
}

// UpdateOnLoss adds a losing bet's stake to the reserve.
func (k *Keeper) UpdateOnLoss(bet types.Amount) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pool.Reserve += bet
}

// CanAcceptBets reports whether the pool reserve clears the operational
// floor below which games should refuse new bets.
func (k *Keeper) CanAcceptBets() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pool.Reserve >= k.cfg.MinOperatingBalance
}

// reserveDivisor bounds the advisory max-payout figure to at most 1% of the
// current reserve in one shot. Settle itself enforces only reserve
// sufficiency, not this cap; it is purely a policy hint games may use to
// reject bets up front.
const reserveDivisor = 100

// GetMaxAllowedPayout derives a policy cap on a single payout from the
// current reserve, exposed to games so they can reject bets whose maximum
// possible payout would exceed what the pool could safely cover.
func (k *Keeper) GetMaxAllowedPayout() types.Amount {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pool.Reserve / reserveDivisor
}

// Position computes a principal's LP share ownership and redeemable value.
func (k *Keeper) Position(p types.Principal) types.LPPosition {
	k.mu.Lock()
	defer k.mu.Unlock()

	shares := k.lpShares[p]
	if k.totalShares == 0 {
		return types.LPPosition{}
	}
	ownership := float64(shares) / float64(k.totalShares) * 100
	if k.pool.Reserve == 0 {
		return types.LPPosition{Shares: shares, OwnershipPercent: ownership}
	}
	redeemableInt := types.NewInt(k.pool.Reserve).MulRaw(int64(shares)).Quo(types.NewInt(types.Amount(k.totalShares)))
	redeemable, _ := types.IntToAmount(redeemableInt)
	return types.LPPosition{Shares: shares, OwnershipPercent: ownership, RedeemableReserve: redeemable}
}

// Stats returns the pool's aggregate state for admin/public queries.
func (k *Keeper) Stats() types.PoolStats {
	k.mu.Lock()
	defer k.mu.Unlock()

	sharePrice := 1.0
	if k.totalShares > 0 {
		sharePrice = float64(k.pool.Reserve) / float64(k.totalShares)
	}

	lpCount := 0
	for principal, shares := range k.lpShares {
		if principal != types.BurnSinkPrincipal && shares > 0 {
			lpCount++
		}
	}

	return types.PoolStats{
		TotalShares: k.totalShares,
		Reserve:     k.pool.Reserve,
		SharePrice:  sharePrice,
		LPCount:     lpCount,
	}
}
