package types

// HealthStatus is the admin-facing solvency band, bucketed per spec.md §4.8.
type HealthStatus string

const (
	HealthCritical      HealthStatus = "CRITICAL_DEFICIT"
	HealthHealthy       HealthStatus = "HEALTHY"
	HealthWarning       HealthStatus = "WARNING_EXCESS_1_5"
	HealthActionRequired HealthStatus = "ACTION_REQUIRED_EXCESS_5_PLUS"
)

// HealthReport is the admin solvency/health snapshot.
type HealthReport struct {
	Reserve            Amount
	TotalUserBalances  Amount
	LedgerBalance      Amount
	CalculatedTotal    Amount
	Excess             int64
	IsSolvent          bool
	HealthStatus       HealthStatus
	PendingCount       int
	UserCount          int
	LPCount            int
	TotalAbandoned     Amount
}

// UserBalanceEntry is one row of a paginated balance listing.
type UserBalanceEntry struct {
	Principal Principal
	Balance   Amount
}

// LPPositionEntry is one row of a paginated LP listing.
type LPPositionEntry struct {
	Principal Principal
	Shares    uint64
}

// PendingWithdrawalEntry is one row of a paginated pending-withdrawal listing.
type PendingWithdrawalEntry struct {
	Principal   Principal
	Amount      Amount
	Kind        WithdrawalKind
	CreatedAtNs int64
}

// OrphanedFundsReport sums abandoned withdrawals recorded in the audit log,
// the only source of orphaned-funds truth absent an on-chain reconciliation
// oracle (see the Open Question in spec.md §9).
type OrphanedFundsReport struct {
	TotalAbandoned Amount
	Count          int
	Entries        []UserBalanceEntry
}

// Page bounds a paginated admin query.
type Page struct {
	Offset int
	Limit  int
}

const MaxPaginationLimit = 100

// Clamp enforces the admin pagination ceiling.
func (p Page) Clamp() Page {
	if p.Limit <= 0 || p.Limit > MaxPaginationLimit {
		p.Limit = MaxPaginationLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
