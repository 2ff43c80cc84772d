package keeper

import (
	"cosmossdk.io/log"
	"github.com/openalpha/casino-core/ledger"
	"github.com/openalpha/casino-core/x/accounting/types"
)

// fakeClock is a manually-advanced types.Clock for deterministic tests.
type fakeClock struct {
	now int64
}

func (c *fakeClock) NowNs() int64 { return c.now }

func newTestKeeper(cfg types.Config, sim *ledger.Sim, clock *fakeClock) *Keeper {
	return New(cfg, sim, clock, log.NewNopLogger(), nil)
}

func smallConfig() types.Config {
	return types.Config{
		MinUserDeposit:      10,
		MinUserWithdraw:     10,
		MinLPDeposit:        1_000,
		MinLPWithdraw:       10,
		MinimumLiquidity:    100,
		LPWithdrawalFeeBps:  100,
		TransferFee:         0,
		MaxAuditEntries:     50,
		NanosPerDay:         1_000_000_000,
		MinOperatingBalance: 100,
		AdminPrincipal:      "admin",
		ParentPrincipal:     "parent",
	}
}
