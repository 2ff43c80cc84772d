package types

// PoolState is the house-capital reserve and its bootstrap flag. Reserve
// decreases only by winning-bet profit, LP withdrawal gross, or an explicit
// fee transfer-out; increases only by losing-bet pool-gain or LP deposit
// (see the invariants in spec.md §3).
type PoolState struct {
	Reserve     Amount
	Initialized bool
}

// LPPosition is the query-side view of one principal's stake in the pool.
type LPPosition struct {
	Shares            uint64
	OwnershipPercent  float64
	RedeemableReserve Amount
}

// PoolStats is the aggregate query-side view of pool health.
type PoolStats struct {
	TotalShares uint64
	Reserve     Amount
	SharePrice  float64 // reserve / total_shares; 1.0 sentinel pre-init
	LPCount     int     // excludes the burn sink
}
