package keeper

import "github.com/openalpha/casino-core/metrics"

// MirrorMetrics pushes the keeper's current state into c. Called on a
// timer rather than on every mutation, so a Prometheus scrape never
// contends with Keeper.mu under load.
func (k *Keeper) MirrorMetrics(c *metrics.Collector) {
	k.mu.Lock()
	reserve := k.pool.Reserve
	totalShares := k.totalShares
	dailyVolume := k.dailyAccum.VolumeAccumulated
	var dailyProfit int64
	if len(k.dailySnapshots) > 0 {
		dailyProfit = k.dailySnapshots[len(k.dailySnapshots)-1].DailyPoolProfit
	}
	k.mu.Unlock()

	c.PoolReserve.Set(float64(reserve))
	c.PoolTotalShares.Set(float64(totalShares))
	c.PendingWithdrawals.Set(float64(k.pending.count()))
	c.AuditLogSize.Set(float64(k.audit.size()))
	c.DailyVolume.Set(float64(dailyVolume))
	c.DailyPoolProfit.Set(float64(dailyProfit))
}
