package types

// Config holds the admin-set constants from the specification (§6). All
// defaults match the production values; callers (tests, the CLI) are free
// to override for a different token's decimals or a faster test clock.
type Config struct {
	MinUserDeposit      Amount
	MinUserWithdraw     Amount
	MinLPDeposit        Amount
	MinLPWithdraw       Amount
	MinimumLiquidity    Amount
	LPWithdrawalFeeBps  uint64
	TransferFee         Amount
	MaxAuditEntries     int
	NanosPerDay         int64
	MinOperatingBalance Amount
	AdminPrincipal      Principal
	ParentPrincipal     Principal
}

// DefaultConfig returns the constants named in the specification's
// configuration table (§6), unmodified.
func DefaultConfig() Config {
	return Config{
		MinUserDeposit:      1_000_000,
		MinUserWithdraw:     1_000_000,
		MinLPDeposit:        10_000_000,
		MinLPWithdraw:       100_000,
		MinimumLiquidity:    1_000,
		LPWithdrawalFeeBps:  100,
		TransferFee:         10_000,
		MaxAuditEntries:     1_000,
		NanosPerDay:         86_400_000_000_000,
		MinOperatingBalance: 1_000_000,
	}
}
