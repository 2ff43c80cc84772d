package types

// DailySnapshot is one append-only historical record of a day's pool
// performance. DailyPoolProfit is signed: the house can lose money on a bad
// day, and the series must represent that rather than saturate at zero.
type DailySnapshot struct {
	DayTs          int64
	PoolReserveEnd Amount
	DailyPoolProfit int64
	DailyVolume    Amount
	SharePrice     float64
}

// DailyAccumulator is the single current-day running total; it is replaced
// (not mutated in place across a day boundary) by the statistics collector.
type DailyAccumulator struct {
	DayStartTs       int64
	VolumeAccumulated Amount
	LastPoolReserve  Amount
}

// ApyInfo is the computed-on-demand APY query result.
type ApyInfo struct {
	ActualApyPercent   float64
	ExpectedApyPercent float64
	DaysCalculated     int
	TotalVolume        Amount
	TotalProfit        int64
}
