package aggregator

import (
	"context"
	"math"
	"math/rand"
	"testing"

	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	logger_mock "github.com/MaheshUmale/orderflow/pkg/logger/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestAggregator(t *testing.T, params Params) *Aggregator {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logger_mock.NewMockInterface(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	a, err := New(params, log)
	require.NoError(t, err)
	return a
}

// tickAt builds a tick n seconds past a fixed base time.
func tickAt(n int64, price, qty float64) v1.Tick {
	return v1.Tick{
		Price:       price,
		Quantity:    qty,
		TimestampMs: 1_700_000_000_000 + n*1000,
	}
}

func TestNew_RejectsInvalidParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := logger_mock.NewMockInterface(ctrl)

	params := DefaultParams()
	params.PriceStep = 0

	_, err := New(params, log)
	assert.Error(t, err)
}

// 100 ticks at a constant price with ticksPerCandle=100 form exactly one
// candle. The first tick classifies as a buy and equal prices carry the side
// forward, so the whole volume lands on the buy side.
func TestProcessTick_ConstantPriceSeries(t *testing.T) {
	params := DefaultParams()
	a := newTestAggregator(t, params)

	for i := int64(0); i < 100; i++ {
		events := a.ProcessTick(tickAt(i, 100.00, 10))
		require.NotEmpty(t, events)
	}

	series := a.Series()
	require.Len(t, series, 1)

	c := series[0]
	assert.Equal(t, 100.00, c.Open)
	assert.Equal(t, 100.00, c.High)
	assert.Equal(t, 100.00, c.Low)
	assert.Equal(t, 100.00, c.Close)
	assert.Equal(t, 1000.0, c.Volume)
	assert.Equal(t, 1000.0, c.Delta)
	assert.Equal(t, 1000.0, c.CVD)
	assert.Equal(t, 1000.0, a.CVD())

	require.Len(t, c.Footprint, 1)
	cell := c.Footprint[a.step.FromPrice(100.00)]
	require.NotNil(t, cell)
	assert.Equal(t, 1000.0, cell.Buy)
	assert.Equal(t, 0.0, cell.Sell)
}

func TestProcessTick_DropsMalformedTicks(t *testing.T) {
	a := newTestAggregator(t, DefaultParams())

	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -5, 0} {
		events := a.ProcessTick(tickAt(0, price, 1))
		assert.Nil(t, events)
	}

	assert.Empty(t, a.Series())
	assert.Equal(t, uint64(5), a.DroppedTicks())
	assert.Equal(t, 0, a.HistoryLen())
}

func TestProcessTick_NegativeQuantityClampsToZero(t *testing.T) {
	a := newTestAggregator(t, DefaultParams())

	events := a.ProcessTick(tickAt(0, 100.00, -3))
	require.NotEmpty(t, events)

	series := a.Series()
	require.Len(t, series, 1)
	assert.Equal(t, 0.0, series[0].Volume)
	assert.Equal(t, 100.00, series[0].Close)
}

func TestProcessTick_AggressorSideRule(t *testing.T) {
	params := DefaultParams()
	a := newTestAggregator(t, params)

	// First tick is a buy by construction, a downtick is a sell, and an
	// unchanged level carries the previous side.
	a.ProcessTick(tickAt(0, 100.00, 1))
	a.ProcessTick(tickAt(1, 99.00, 2))
	a.ProcessTick(tickAt(2, 99.00, 4))
	a.ProcessTick(tickAt(3, 100.00, 8))

	series := a.Series()
	require.Len(t, series, 1)
	c := series[0]

	buyLevel := c.Footprint[a.step.FromPrice(100.00)]
	require.NotNil(t, buyLevel)
	assert.Equal(t, 9.0, buyLevel.Buy) // first tick + uptick back
	assert.Equal(t, 0.0, buyLevel.Sell)

	sellLevel := c.Footprint[a.step.FromPrice(99.00)]
	require.NotNil(t, sellLevel)
	assert.Equal(t, 6.0, sellLevel.Sell) // downtick + carried side
	assert.Equal(t, 0.0, sellLevel.Buy)

	assert.Equal(t, 9.0-6.0, c.Delta)
}

func TestProcessTick_EventProtocol(t *testing.T) {
	params := DefaultParams()
	params.TicksPerCandle = 2
	a := newTestAggregator(t, params)

	events := a.ProcessTick(tickAt(0, 100.00, 1))
	require.Len(t, events, 1)
	assert.Equal(t, v1.EventNew, events[0].Kind)

	events = a.ProcessTick(tickAt(1, 100.05, 1))
	require.Len(t, events, 1)
	assert.Equal(t, v1.EventUpdate, events[0].Kind)

	// Third tick closes the full candle and opens the next: a final update
	// for the closed candle, then the new one.
	events = a.ProcessTick(tickAt(2, 100.10, 1))
	require.Len(t, events, 2)
	assert.Equal(t, v1.EventUpdate, events[0].Kind)
	assert.Equal(t, v1.EventNew, events[1].Kind)
	assert.NotSame(t, events[0].Candle, events[1].Candle)
	assert.Equal(t, a.Series()[0], events[0].Candle)
}

// Every candle's footprint volume must add up to the candle volume, and CVD
// must chain across candles: candle[n].cvd = candle[n-1].cvd + candle[n].delta.
func TestProcessTick_ConservationProperties(t *testing.T) {
	params := DefaultParams()
	params.TicksPerCandle = 17
	a := newTestAggregator(t, params)

	rng := rand.New(rand.NewSource(42))
	price := 100.0
	for i := int64(0); i < 500; i++ {
		price += (rng.Float64() - 0.5) * 0.4
		a.ProcessTick(tickAt(i, price, float64(rng.Intn(10))))
	}

	series := a.Series()
	require.NotEmpty(t, series)

	prevCVD := 0.0
	for _, c := range series {
		footprintVolume := 0.0
		for _, cell := range c.Footprint {
			assert.GreaterOrEqual(t, cell.Buy, 0.0)
			assert.GreaterOrEqual(t, cell.Sell, 0.0)
			footprintVolume += cell.Buy + cell.Sell
		}
		assert.InDelta(t, c.Volume, footprintVolume, 1e-9)
		assert.InDelta(t, prevCVD+c.Delta, c.CVD, 1e-9)
		prevCVD = c.CVD
	}
}

func TestProcessTick_CandleTimesStrictlyIncreasing(t *testing.T) {
	params := DefaultParams()
	params.TicksPerCandle = 1
	a := newTestAggregator(t, params)

	// All ticks share one timestamp; the clamp must still space candle
	// times one second apart.
	for i := 0; i < 10; i++ {
		a.ProcessTick(tickAt(0, 100.00, 1))
	}

	series := a.Series()
	require.Len(t, series, 10)
	for i := 1; i < len(series); i++ {
		assert.Greater(t, series[i].Time, series[i-1].Time)
	}
}

func TestProcessTick_WallClockSubstitutedForMissingTimestamp(t *testing.T) {
	a := newTestAggregator(t, DefaultParams())

	events := a.ProcessTick(v1.Tick{Price: 100.00, Quantity: 1})
	require.NotEmpty(t, events)
	assert.Greater(t, a.Series()[0].Time, int64(0))
}

func TestLoadHistory_Deterministic(t *testing.T) {
	params := DefaultParams()
	params.TicksPerCandle = 23
	a := newTestAggregator(t, params)

	rng := rand.New(rand.NewSource(7))
	ticks := make([]v1.Tick, 1000)
	price := 250.0
	for i := range ticks {
		price += (rng.Float64() - 0.5) * 0.8
		ticks[i] = tickAt(int64(i), price, float64(1+rng.Intn(5)))
	}

	require.NoError(t, a.LoadHistory(context.Background(), ticks))
	first := a.Series()
	require.NotEmpty(t, first)

	require.NoError(t, a.LoadHistory(context.Background(), ticks))
	second := a.Series()

	assert.Equal(t, first, second)
}

func TestLoadHistory_Cancelled(t *testing.T) {
	a := newTestAggregator(t, DefaultParams())

	ticks := make([]v1.Tick, 2*replayBatchSize)
	for i := range ticks {
		ticks[i] = tickAt(int64(i), 100.00, 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, a.LoadHistory(ctx, ticks))
}

// Loading 1,000 ticks at 50 ticks per candle yields 20 candles; reaggregating
// the same resident history at 100 ticks per candle yields 10, with the first
// candle's open unchanged.
func TestReconfigure_RebuildsSeries(t *testing.T) {
	params := DefaultParams()
	params.TicksPerCandle = 50
	a := newTestAggregator(t, params)

	rng := rand.New(rand.NewSource(3))
	ticks := make([]v1.Tick, 1000)
	price := 100.0
	for i := range ticks {
		price += (rng.Float64() - 0.5) * 0.3
		ticks[i] = tickAt(int64(i), price, 1)
	}

	require.NoError(t, a.LoadHistory(context.Background(), ticks))
	require.Len(t, a.Series(), 20)
	firstOpen := a.Series()[0].Open

	params.TicksPerCandle = 100
	require.NoError(t, a.Reconfigure(context.Background(), params))

	series := a.Series()
	require.Len(t, series, 10)
	assert.Equal(t, firstOpen, series[0].Open)
}

func TestReconfigure_RejectsInvalidAndKeepsState(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero ticks per candle", func(p *Params) { p.TicksPerCandle = 0 }},
		{"negative price step", func(p *Params) { p.PriceStep = -0.05 }},
		{"zero box size in renko mode", func(p *Params) { p.Mode = ModeRenko; p.BoxSize = 0 }},
		{"value area percent above one", func(p *Params) { p.ValueAreaPercent = 1.5 }},
		{"zero imbalance ratio", func(p *Params) { p.ImbalanceRatio = 0 }},
		{"zero history capacity", func(p *Params) { p.HistoryCapacity = 0 }},
		{"zero series capacity", func(p *Params) { p.SeriesCapacity = 0 }},
		{"unknown mode", func(p *Params) { p.Mode = "volume" }},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			a := newTestAggregator(t, DefaultParams())
			for i := int64(0); i < 10; i++ {
				a.ProcessTick(tickAt(i, 100.00, 1))
			}
			before := a.Series()

			bad := a.Params()
			testCase.mutate(&bad)

			err := a.Reconfigure(context.Background(), bad)
			require.Error(t, err)
			assert.Equal(t, DefaultParams(), a.Params())
			assert.Equal(t, before, a.Series())
		})
	}
}

func TestSeriesCapacity_EvictsOldest(t *testing.T) {
	params := DefaultParams()
	params.TicksPerCandle = 1
	params.SeriesCapacity = 5
	a := newTestAggregator(t, params)

	for i := int64(0); i < 20; i++ {
		a.ProcessTick(tickAt(i, 100.00, 1))
	}

	series := a.Series()
	require.Len(t, series, 5)
	// Newest candles survive.
	assert.Equal(t, int64(1_700_000_000+19), series[4].Time)
}

// Reaggregation is only lossless for ticks still resident in the history
// ring; older ticks are gone after FIFO eviction.
func TestReconfigure_BoundedByHistoryCapacity(t *testing.T) {
	params := DefaultParams()
	params.TicksPerCandle = 10
	params.HistoryCapacity = 100
	a := newTestAggregator(t, params)

	for i := int64(0); i < 150; i++ {
		a.ProcessTick(tickAt(i, 100.00, 1))
	}
	require.Len(t, a.Series(), 15)
	assert.Equal(t, 100, a.HistoryLen())

	require.NoError(t, a.Reconfigure(context.Background(), params))
	assert.Len(t, a.Series(), 10)
}
