package keeper

import (
	"encoding/json"
	"os"

	"github.com/openalpha/casino-core/x/accounting/types"
)

// Snapshot is the complete persisted state of a Keeper: every map and slice
// the specification requires survive a restart, laid out as plain JSON
// rather than a binary stable-memory layout, since this system has no
// canister upgrade hooks to round-trip through.
type Snapshot struct {
	Config         types.Config                      `json:"config"`
	Balances       map[types.Principal]types.Amount   `json:"balances"`
	Pool           types.PoolState                    `json:"pool"`
	LPShares       map[types.Principal]uint64         `json:"lp_shares"`
	TotalShares    uint64                              `json:"total_shares"`
	Pending        []types.PendingWithdrawal          `json:"pending"`
	Audit          []types.AuditEntry                 `json:"audit"`
	DailyAccum     types.DailyAccumulator              `json:"daily_accumulator"`
	DailySnapshots []types.DailySnapshot               `json:"daily_snapshots"`
}

// Export captures the keeper's full state for persistence.
func (k *Keeper) Export() Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()

	balances := make(map[types.Principal]types.Amount, len(k.balances))
	for p, a := range k.balances {
		balances[p] = a
	}
	lpShares := make(map[types.Principal]uint64, len(k.lpShares))
	for p, s := range k.lpShares {
		lpShares[p] = s
	}
	pending := k.pending.oldestFirst(0, len(k.pending.byPrincipal))
	audit := k.audit.page(0, k.audit.size())
	dailySnapshots := make([]types.DailySnapshot, len(k.dailySnapshots))
	copy(dailySnapshots, k.dailySnapshots)

	return Snapshot{
		Config:         k.cfg,
		Balances:       balances,
		Pool:           k.pool,
		LPShares:       lpShares,
		TotalShares:    k.totalShares,
		Pending:        pending,
		Audit:          audit,
		DailyAccum:     k.dailyAccum,
		DailySnapshots: dailySnapshots,
	}
}

// Restore replaces the keeper's in-memory state with snap's contents,
// except snap.Config: the keeper keeps the Config it was constructed with. It is
// only safe to call before the keeper is handling live traffic: it takes
// k.mu but does not coordinate with the guard, since a freshly constructed
// process has no in-flight operations to race with.
func (k *Keeper) Restore(snap Snapshot) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.balances = make(map[types.Principal]types.Amount, len(snap.Balances))
	for p, a := range snap.Balances {
		k.balances[p] = a
	}
	k.pool = snap.Pool
	k.lpShares = make(map[types.Principal]uint64, len(snap.LPShares))
	for p, s := range snap.LPShares {
		k.lpShares[p] = s
	}
	k.totalShares = snap.TotalShares
	k.pending = newPendingWithdrawals()
	for _, pw := range snap.Pending {
		k.pending.insert(pw)
	}
	k.audit = newAuditLog(k.cfg.MaxAuditEntries)
	for _, entry := range snap.Audit {
		k.audit.tree.ReplaceOrInsert(auditItem{entry})
		if entry.Seq >= k.audit.nextSeq {
			k.audit.nextSeq = entry.Seq + 1
		}
	}
	k.dailyAccum = snap.DailyAccum
	k.dailySnapshots = append([]types.DailySnapshot(nil), snap.DailySnapshots...)
}

// LoadSnapshot reads and decodes a Snapshot from a JSON file on disk.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// SaveSnapshot encodes snap as indented JSON and writes it to path.
func SaveSnapshot(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
