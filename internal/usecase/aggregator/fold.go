package aggregator

import (
	"math"

	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/internal/usecase/detector"
	"github.com/MaheshUmale/orderflow/internal/usecase/profile"
	"github.com/MaheshUmale/orderflow/pkg/pricekey"
	"github.com/google/uuid"
)

// foldTick is the pure state transition shared by the live path and both
// replay drivers. The tick must already be validated.
func (a *Aggregator) foldTick(t v1.Tick) []v1.CandleEvent {
	key := a.step.FromPrice(t.Price)
	price := a.step.Price(key)
	side := a.classifySide(key)

	if a.params.Mode == ModeRenko {
		return a.foldRenko(t, key, price, side)
	}
	return a.foldTickCount(t, key, price, side)
}

// foldTickCount rolls the candle over once ticksPerCandle ticks have been
// folded into it.
func (a *Aggregator) foldTickCount(t v1.Tick, key pricekey.Key, price float64, side v1.Side) []v1.CandleEvent {
	var events []v1.CandleEvent
	opened := false

	if a.current == nil || a.tickCount >= a.params.TicksPerCandle {
		if a.current != nil {
			closed := a.current
			a.finalizeCandle(closed, t.TimestampMs)
			events = append(events, v1.CandleEvent{Kind: v1.EventUpdate, Candle: closed})
		}
		c := a.openCandle(t.TimestampMs, price)
		events = append(events, v1.CandleEvent{Kind: v1.EventNew, Candle: c})
		a.tickCount = 0
		opened = true
	}

	a.apply(t, key, price, side)
	a.tickCount++
	a.maybeRecalc(t.TimestampMs)

	if !opened {
		events = append(events, v1.CandleEvent{Kind: v1.EventUpdate, Candle: a.current})
	}
	return events
}

// foldRenko emits one brick per boxSize crossed since the current brick's
// open, then folds the tick into whichever brick is left open. A single tick
// can emit zero, one, or several bricks; sub-box displacement stays in the
// open brick until future ticks accumulate it.
func (a *Aggregator) foldRenko(t v1.Tick, key pricekey.Key, price float64, side v1.Side) []v1.CandleEvent {
	var events []v1.CandleEvent
	opened := false

	if a.current == nil {
		c := a.openCandle(t.TimestampMs, price)
		a.brickOpen = price
		events = append(events, v1.CandleEvent{Kind: v1.EventNew, Candle: c})
		opened = true
	}

	box := a.params.BoxSize
	for math.Abs(price-a.brickOpen) >= box {
		boundary := a.brickOpen + box
		if price < a.brickOpen {
			boundary = a.brickOpen - box
		}

		closed := a.current
		closed.Close = boundary
		if boundary > closed.High {
			closed.High = boundary
		}
		if boundary < closed.Low {
			closed.Low = boundary
		}
		a.finalizeCandle(closed, t.TimestampMs)
		events = append(events, v1.CandleEvent{Kind: v1.EventUpdate, Candle: closed})

		next := a.openCandle(t.TimestampMs, boundary)
		a.brickOpen = boundary
		events = append(events, v1.CandleEvent{Kind: v1.EventNew, Candle: next})
		opened = true
	}

	a.apply(t, key, price, side)
	a.maybeRecalc(t.TimestampMs)

	if !opened {
		events = append(events, v1.CandleEvent{Kind: v1.EventUpdate, Candle: a.current})
	}
	return events
}

// openCandle appends a fresh candle to the series, enforcing strictly
// increasing candle times: a tick timestamp at or before the last candle time
// is clamped to one second past it.
func (a *Aggregator) openCandle(tsMs int64, price float64) *v1.Candle {
	tSec := tsMs / 1000
	if tSec <= a.lastCandleTime {
		tSec = a.lastCandleTime + 1
	}
	a.lastCandleTime = tSec

	c := v1.NewCandle(tSec, price)
	c.CVD = a.cvd
	a.series = append(a.series, c)
	a.current = c
	a.profileDirty = false
	a.lastRecalcMs = tsMs

	if len(a.series) > a.params.SeriesCapacity {
		evicted := a.series[0]
		a.series = a.series[1:]
		delete(a.signals, evicted.Time)
	}
	return c
}

// apply folds one tick into the open candle: OHLC, volume, delta, running
// CVD, and the footprint cell for the tick's price level. O(1) amortized.
func (a *Aggregator) apply(t v1.Tick, key pricekey.Key, price float64, side v1.Side) {
	c := a.current
	if price > c.High {
		c.High = price
	}
	if price < c.Low {
		c.Low = price
	}
	c.Close = price

	c.Volume += t.Quantity
	d := float64(side) * t.Quantity
	c.Delta += d
	a.cvd += d
	c.CVD = a.cvd

	cell := c.Footprint[key]
	if cell == nil {
		cell = &v1.FootprintCell{}
		c.Footprint[key] = cell
	}
	if side == v1.SideBuy {
		cell.Buy += t.Quantity
	} else {
		cell.Sell += t.Quantity
	}
	a.profileDirty = true
}

// maybeRecalc recomputes the open candle's profile and imbalances at most
// once per throttle interval. The interval is measured on the tick clock, not
// the wall clock, so a replay recomputes at the same points as the original
// run and stays deterministic.
func (a *Aggregator) maybeRecalc(nowMs int64) {
	if a.current == nil || !a.profileDirty {
		return
	}
	if nowMs-a.lastRecalcMs < a.params.RecalcThrottleMs {
		return
	}
	a.recompute(a.current)
	a.lastRecalcMs = nowMs
	a.profileDirty = false
}

// recompute refreshes the candle's POC, value area, and imbalance levels.
func (a *Aggregator) recompute(c *v1.Candle) {
	res := profile.Compute(c.Footprint, c.Volume, a.params.ValueAreaPercent)
	c.POC = res.POC
	c.VAH = res.VAH
	c.VAL = res.VAL
	c.Imbalances = detector.Imbalances(c.Footprint, a.params.ImbalanceRatio)
}

// finalizeCandle runs the unconditional close-time recompute and the
// multi-candle pattern detectors. The candle must still be the last in the
// series so its predecessor can be looked up.
func (a *Aggregator) finalizeCandle(c *v1.Candle, nowMs int64) {
	a.recompute(c)
	a.profileDirty = false
	a.lastRecalcMs = nowMs

	var prev *v1.Candle
	if n := len(a.series); n >= 2 && a.series[n-1] == c {
		prev = a.series[n-2]
	}

	var sigs []v1.Signal
	if stackedBuy, stackedSell := detector.Stacked(c); stackedBuy || stackedSell {
		if stackedBuy {
			price, _ := c.MaxImbalancePrice(v1.SideBuy)
			sigs = append(sigs, a.newSignal(v1.SignalStackedBuy, c.Time, price))
		}
		if stackedSell {
			price, _ := c.MaxImbalancePrice(v1.SideSell)
			sigs = append(sigs, a.newSignal(v1.SignalStackedSell, c.Time, price))
		}
	}

	if bullish, bearish := detector.Divergence(c, prev); bullish || bearish {
		if bullish {
			sigs = append(sigs, a.newSignal(v1.SignalBullishDivergence, c.Time, a.step.FromPrice(c.Low)))
		}
		if bearish {
			sigs = append(sigs, a.newSignal(v1.SignalBearishDivergence, c.Time, a.step.FromPrice(c.High)))
		}
	}

	if level, absorbed := detector.Absorbed(c, a.step); absorbed {
		sigs = append(sigs, a.newSignal(v1.SignalAbsorption, c.Time, level))
	}
	if detector.AIP(prev, c, a.step) {
		sigs = append(sigs, a.newSignal(v1.SignalAIPEntry, c.Time, a.step.FromPrice(c.Close)))
	}

	if len(sigs) > 0 {
		a.signals[c.Time] = append(a.signals[c.Time], sigs...)
	}
}

func (a *Aggregator) newSignal(kind v1.SignalKind, candleTime int64, price pricekey.Key) v1.Signal {
	return v1.Signal{
		ID:         uuid.New(),
		Kind:       kind,
		CandleTime: candleTime,
		Price:      price,
	}
}
