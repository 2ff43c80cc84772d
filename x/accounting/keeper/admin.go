package keeper

import (
	"context"
	"sort"

	"github.com/openalpha/casino-core/x/accounting/types"
)

// HealthCheck compares what the ledger actually holds against what the
// keeper's own books say it owes (user balances + pending withdrawals +
// pool reserve), banding the surplus/deficit into the same tiers the
// original canister used (spec.md §4.8): negative is a critical deficit,
// a small excess is healthy drift, a larger excess needs attention since
// it usually means an unreconciled deposit, and the largest band demands
// action.
func (k *Keeper) HealthCheck(ctx context.Context) (types.HealthReport, error) {
	k.mu.Lock()
	var totalUser types.Amount
	for _, bal := range k.balances {
		totalUser += bal
	}
	userCount := len(k.balances)
	lpCount := 0
	for principal, shares := range k.lpShares {
		if principal != types.BurnSinkPrincipal && shares > 0 {
			lpCount++
		}
	}
	reserve := k.pool.Reserve
	k.mu.Unlock()

	pendingTotal := k.pending.total()
	calculatedTotal, err := totalUser.AddChecked(pendingTotal)
	if err != nil {
		return types.HealthReport{}, err
	}
	calculatedTotal, err = calculatedTotal.AddChecked(reserve)
	if err != nil {
		return types.HealthReport{}, err
	}

	ledgerBalance, err := k.ledger.BalanceOf(ctx, selfPrincipal)
	if err != nil {
		return types.HealthReport{}, types.ErrLedgerUncertain.Wrap(err.Error())
	}

	excess := int64(ledgerBalance) - int64(calculatedTotal)
	abandoned, _ := k.audit.sumAbandoned()

	return types.HealthReport{
		Reserve:           reserve,
		TotalUserBalances: totalUser,
		LedgerBalance:     ledgerBalance,
		CalculatedTotal:   calculatedTotal,
		Excess:            excess,
		IsSolvent:         excess >= 0,
		HealthStatus:      bandHealth(excess),
		PendingCount:      k.pending.count(),
		UserCount:         userCount,
		LPCount:           lpCount,
		TotalAbandoned:    abandoned,
	}, nil
}

func bandHealth(excess int64) types.HealthStatus {
	switch {
	case excess < 0:
		return types.HealthCritical
	case excess < 1_000_000:
		return types.HealthHealthy
	case excess < 5_000_000:
		return types.HealthWarning
	default:
		return types.HealthActionRequired
	}
}

// ListUserBalances returns a page of user balances ordered by principal, for
// deterministic pagination across calls even as the underlying map mutates.
func (k *Keeper) ListUserBalances(page types.Page) []types.UserBalanceEntry {
	page = page.Clamp()
	k.mu.Lock()
	entries := make([]types.UserBalanceEntry, 0, len(k.balances))
	for p, bal := range k.balances {
		entries = append(entries, types.UserBalanceEntry{Principal: p, Balance: bal})
	}
	k.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Principal < entries[j].Principal })
	return paginateSlice(entries, page)
}

// ListLPPositions returns a page of LP share holdings ordered by principal,
// excluding the minimum-liquidity burn sink.
func (k *Keeper) ListLPPositions(page types.Page) []types.LPPositionEntry {
	page = page.Clamp()
	k.mu.Lock()
	entries := make([]types.LPPositionEntry, 0, len(k.lpShares))
	for p, shares := range k.lpShares {
		if p == types.BurnSinkPrincipal || shares == 0 {
			continue
		}
		entries = append(entries, types.LPPositionEntry{Principal: p, Shares: shares})
	}
	k.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].Principal < entries[j].Principal })
	return paginateSlice(entries, page)
}

// ListPendingWithdrawals returns a page of pending withdrawals ordered
// oldest-first, the order that matters for an admin triaging stuck funds.
func (k *Keeper) ListPendingWithdrawals(page types.Page) []types.PendingWithdrawalEntry {
	page = page.Clamp()
	raw := k.pending.oldestFirst(page.Offset, page.Limit)
	out := make([]types.PendingWithdrawalEntry, 0, len(raw))
	for _, w := range raw {
		out = append(out, types.PendingWithdrawalEntry{
			Principal:   w.Principal,
			Amount:      w.Amount,
			Kind:        w.Kind,
			CreatedAtNs: w.CreatedAtNs,
		})
	}
	return out
}

// OrphanedFunds reports the total and per-principal breakdown of balances
// abandoned via AbandonWithdrawal, the admin's worklist for manual
// off-system reconciliation.
func (k *Keeper) OrphanedFunds() types.OrphanedFundsReport {
	total, entries := k.audit.sumAbandoned()
	return types.OrphanedFundsReport{
		TotalAbandoned: total,
		Count:          len(entries),
		Entries:        entries,
	}
}

// AuditPage returns a page of audit log entries, oldest first.
func (k *Keeper) AuditPage(page types.Page) []types.AuditEntry {
	page = page.Clamp()
	return k.audit.page(page.Offset, page.Limit)
}

// Reconcile is the admin-only manual adjustment hook for funds a ledger
// reconciliation determined did or did not land, resolving the
// uncertain-outcome cases HealthCheck's excess/deficit surfaces but cannot
// itself correct. credit=true force-credits amount to principal; credit=
// false is recorded purely as an audit trail entry (the admin is asserting
// no correction is needed for this principal).
func (k *Keeper) Reconcile(admin, principal types.Principal, amount types.Amount, credit bool, reason string) error {
	if admin != k.cfg.AdminPrincipal {
		return types.ErrUnauthorized.Wrapf("principal %s is not the configured admin", admin)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if credit {
		if err := k.forceCredit(principal, amount); err != nil {
			return err
		}
	}
	k.logAudit(types.AuditEvent{
		Kind:      types.EventSystemInfo,
		Principal: principal,
		Amount:    amount,
		Message:   "admin reconcile: " + reason,
	})
	return nil
}

func paginateSlice[T any](items []T, page types.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}
