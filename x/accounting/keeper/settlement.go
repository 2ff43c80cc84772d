package keeper

import (
	"github.com/openalpha/casino-core/x/accounting/types"
)

// SettlementOutcome labels the result of resolving a single bet so callers
// (the game backends) can branch on it without re-deriving it from the
// before/after balances.
type SettlementOutcome int

const (
	SettlementPush SettlementOutcome = iota
	SettlementPlayerWin
	SettlementPlayerLoss
)

// Settle resolves a single finished bet atomically, per spec.md §4.5: the
// stake is debited from the user's balance here (the caller must not have
// debited it already), and payout is what the game decided the user should
// receive back, if anything. A payout of zero with bet > 0 is a loss;
// payout == bet is a push; payout > bet is a win, and the difference is
// drawn from the pool reserve.
//
// Settle never touches the ledger — it is a pure in-memory transition, so
// there is no three-phase uncertainty here, only the ordinary insufficient-
// balance and insufficient-reserve failure modes, plus a pending withdrawal
// blocking a non-zero payout credit, all of which cause no partial mutation.
func (k *Keeper) Settle(p types.Principal, bet, payout types.Amount) (SettlementOutcome, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.balances[p] < bet {
		return SettlementPush, types.ErrInsufficientBalance.Wrapf("have %d, need %d", k.balances[p], bet)
	}
	if _, pending := k.pending.get(p); pending && payout > 0 {
		// credit would refuse the payout; reject before debiting anything.
		return SettlementPush, types.ErrWithdrawalPending.Wrapf("principal %s", p)
	}
	if err := k.debit(p, bet); err != nil {
		return SettlementPush, err
	}

	switch {
	case payout == bet:
		if err := k.credit(p, bet); err != nil {
			return SettlementPush, err
		}
		return SettlementPush, nil

	case payout < bet:
		loss := bet - payout
		if payout > 0 {
			if err := k.credit(p, payout); err != nil {
				return SettlementPlayerLoss, err
			}
		}
		k.pool.Reserve += loss
		k.logAudit(types.AuditEvent{Kind: types.EventSystemInfo, Principal: p, Amount: loss, Message: "bet settled as loss"})
		return SettlementPlayerLoss, nil

	default: // payout > bet
		profit := payout - bet
		newReserve, err := k.pool.Reserve.SubChecked(profit)
		if err != nil {
			// Rollback the debit: the bet never left the user's balance.
			k.balances[p] += bet
			return SettlementPlayerWin, types.ErrInsufficientPoolReserve.Wrapf("reserve %d cannot cover profit %d", k.pool.Reserve, profit)
		}
		if err := k.credit(p, payout); err != nil {
			return SettlementPlayerWin, err
		}
		k.pool.Reserve = newReserve
		k.logAudit(types.AuditEvent{Kind: types.EventSystemInfo, Principal: p, Amount: profit, Message: "bet settled as win"})
		return SettlementPlayerWin, nil
	}
}
