package keeper

import (
	"context"
	"testing"

	"github.com/openalpha/casino-core/ledger"
	"github.com/openalpha/casino-core/x/accounting/types"
)

func TestRecordBetVolumeAccumulatesWithinDay(t *testing.T) {
	cfg := smallConfig()
	sim := ledger.NewSim(nil)
	k := newTestKeeper(cfg, sim, &fakeClock{now: 0})

	k.RecordBetVolume(100, 10)
	k.RecordBetVolume(50, 20)

	if k.dailyAccum.VolumeAccumulated != 150 {
		t.Errorf("expected accumulated volume 150, got %d", k.dailyAccum.VolumeAccumulated)
	}
	if len(k.dailySnapshots) != 0 {
		t.Errorf("expected no snapshot before a day boundary, got %d", len(k.dailySnapshots))
	}
}

func TestRecordBetVolumeRollsOverDayBoundary(t *testing.T) {
	cfg := smallConfig() // NanosPerDay = 1_000_000_000
	sim := ledger.NewSim(map[types.Principal]types.Amount{"lp": 10_000})
	k := newTestKeeper(cfg, sim, &fakeClock{now: 0})

	if _, err := k.DepositLiquidity(context.Background(), "lp", 2_000, 0); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	k.RecordBetVolume(500, 100)
	k.RecordBetVolume(500, 100+cfg.NanosPerDay+10)

	if len(k.dailySnapshots) != 1 {
		t.Fatalf("expected exactly one snapshot after crossing one day boundary, got %d", len(k.dailySnapshots))
	}
	if k.dailySnapshots[0].DailyVolume != 500 {
		t.Errorf("expected the closed day's volume to be 500, got %d", k.dailySnapshots[0].DailyVolume)
	}
	if k.dailyAccum.VolumeAccumulated != 500 {
		t.Errorf("expected the new day's accumulator to hold the post-boundary bet, got %d", k.dailyAccum.VolumeAccumulated)
	}
}

func TestTakeDailySnapshotIsNoOpWithinDay(t *testing.T) {
	cfg := smallConfig()
	sim := ledger.NewSim(nil)
	k := newTestKeeper(cfg, sim, &fakeClock{now: 0})

	k.RecordBetVolume(10, 0)
	k.TakeDailySnapshot(10)

	if len(k.dailySnapshots) != 0 {
		t.Errorf("expected no snapshot from a backup sweep within the same day, got %d", len(k.dailySnapshots))
	}
}

func TestApyWithNoSnapshots(t *testing.T) {
	cfg := smallConfig()
	sim := ledger.NewSim(nil)
	k := newTestKeeper(cfg, sim, &fakeClock{now: 0})

	info := k.Apy(0)
	if info.DaysCalculated != 0 {
		t.Errorf("expected zero days calculated with no snapshots, got %d", info.DaysCalculated)
	}
	if info.ActualApyPercent != 0 {
		t.Errorf("expected zero actual APY with no snapshots, got %f", info.ActualApyPercent)
	}
}

func TestApySingleDaySnapshotEstimatesOpeningReserve(t *testing.T) {
	cfg := smallConfig()
	sim := ledger.NewSim(nil)
	k := newTestKeeper(cfg, sim, &fakeClock{now: 0})
	k.dailySnapshots = []types.DailySnapshot{
		{DayTs: 1, PoolReserveEnd: 1_010_000, DailyPoolProfit: 10_000, DailyVolume: 1_000_000},
	}

	info := k.Apy(1)
	if info.DaysCalculated != 1 {
		t.Fatalf("expected 1 day calculated, got %d", info.DaysCalculated)
	}
	// start_reserve estimated as pool_reserve_end - daily_pool_profit = 1,000,000.
	if got, want := info.ActualApyPercent, 365.0; got != want {
		t.Errorf("expected actual APY %v, got %v", want, got)
	}
	if got, want := info.ExpectedApyPercent, 365.0; got != want {
		t.Errorf("expected expected APY %v (1%% edge on matching volume), got %v", want, got)
	}
}

func TestApyWindowExcludesOlderDays(t *testing.T) {
	cfg := smallConfig()
	sim := ledger.NewSim(nil)
	k := newTestKeeper(cfg, sim, &fakeClock{now: 0})
	k.dailySnapshots = []types.DailySnapshot{
		{DayTs: 1, PoolReserveEnd: 1_000_000, DailyPoolProfit: 0, DailyVolume: 500_000},
		{DayTs: 2, PoolReserveEnd: 1_020_000, DailyPoolProfit: 20_000, DailyVolume: 1_000_000},
	}

	info := k.Apy(1)
	if info.DaysCalculated != 1 {
		t.Fatalf("expected the 1-day window to cover only the most recent snapshot, got %d", info.DaysCalculated)
	}
	if info.TotalProfit != 20_000 {
		t.Errorf("expected the window to sum only the most recent day's profit, got %d", info.TotalProfit)
	}
	// start_reserve is the prior day's pool_reserve_end (1,000,000), not the
	// oldest snapshot's opening reserve.
	if got, want := info.ActualApyPercent, 730.0; got != want {
		t.Errorf("expected actual APY %v, got %v", want, got)
	}
	if got, want := info.ExpectedApyPercent, 365.0; got != want {
		t.Errorf("expected expected APY %v, got %v", want, got)
	}
}

func TestApyClampsOutOfRangeDays(t *testing.T) {
	cfg := smallConfig()
	sim := ledger.NewSim(nil)
	k := newTestKeeper(cfg, sim, &fakeClock{now: 0})
	k.dailySnapshots = []types.DailySnapshot{
		{DayTs: 1, PoolReserveEnd: 1_000_000, DailyPoolProfit: 10_000, DailyVolume: 100_000},
	}

	info := k.Apy(10_000)
	if info.DaysCalculated != 1 {
		t.Errorf("expected the window to be bounded by available history, got %d days", info.DaysCalculated)
	}
}
