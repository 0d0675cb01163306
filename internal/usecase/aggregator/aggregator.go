// Package aggregator folds a raw trade tick stream into footprint candles
// with running CVD, volume profile, and order-flow pattern annotations.
package aggregator

import (
	"context"

	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/pkg/errors"
	"github.com/MaheshUmale/orderflow/pkg/logger"
	"github.com/MaheshUmale/orderflow/pkg/pricekey"
)

// replayBatchSize bounds how many ticks a replay folds between context
// checks, so a long reaggregation stays cancellable.
const replayBatchSize = 500

// Aggregator owns all mutable aggregation state for one instrument. It is
// push-driven and single-threaded: ticks must be delivered from one goroutine
// at a time, which is why there is no lock anywhere in the hot path.
type Aggregator struct {
	params Params
	step   pricekey.Step
	log    logger.Interface

	series  []*v1.Candle
	signals map[int64][]v1.Signal
	current *v1.Candle

	tickCount      int
	cvd            float64
	lastKey        pricekey.Key
	lastSide       v1.Side
	lastCandleTime int64

	// brickOpen is the open price of the current Renko brick, equal to the
	// previous brick's close.
	brickOpen float64

	profileDirty bool
	lastRecalcMs int64

	history *tickRing
	dropped uint64
}

// New creates an Aggregator with the given parameters.
func New(params Params, log logger.Interface) (*Aggregator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	a := &Aggregator{
		params:  params,
		step:    pricekey.NewStep(params.PriceStep),
		log:     log,
		signals: make(map[int64][]v1.Signal),
		history: newTickRing(params.HistoryCapacity),
	}
	a.resetDerived()
	return a, nil
}

// ProcessTick validates one tick, folds it into the candle series, and
// returns the resulting lifecycle events. Malformed ticks are dropped,
// counted, and logged at debug level; the result is then nil. In Renko mode a
// single tick can open several candles, so the result is a slice.
func (a *Aggregator) ProcessTick(t v1.Tick) []v1.CandleEvent {
	nt, ok := a.validate(t)
	if !ok {
		a.dropped++
		a.log.Debug("tick dropped", logger.Field{
			Key:   "price",
			Value: t.Price,
		})
		return nil
	}
	a.history.Push(nt)
	return a.foldTick(nt)
}

// LoadHistory resets all state, including the tick history, and replays the
// given tick sequence in bounded batches. The context is checked between
// batches so a stale load can be abandoned; a new LoadHistory or Reconfigure
// simply supersedes the partial state.
func (a *Aggregator) LoadHistory(ctx context.Context, ticks []v1.Tick) error {
	a.resetDerived()
	a.history.Reset()

	for start := 0; start < len(ticks); start += replayBatchSize {
		if err := ctx.Err(); err != nil {
			return errors.TracerFromError(err)
		}
		end := start + replayBatchSize
		if end > len(ticks) {
			end = len(ticks)
		}
		for _, t := range ticks[start:end] {
			nt, ok := a.validate(t)
			if !ok {
				a.dropped++
				continue
			}
			a.history.Push(nt)
			a.foldTick(nt)
		}
	}

	a.refreshOpenCandle()
	a.log.Info("history loaded", logger.Field{
		Key:   "ticks",
		Value: a.history.Len(),
	}, logger.Field{
		Key:   "candles",
		Value: len(a.series),
	})
	return nil
}

// Reconfigure validates the new parameters and, on success, rebuilds the
// candle series by replaying the resident tick history. On failure the prior
// configuration stays in effect and no state changes.
func (a *Aggregator) Reconfigure(ctx context.Context, params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	a.params = params
	a.step = pricekey.NewStep(params.PriceStep)
	a.history.Resize(params.HistoryCapacity)

	resident := a.history.Snapshot()
	a.resetDerived()

	for start := 0; start < len(resident); start += replayBatchSize {
		if err := ctx.Err(); err != nil {
			return errors.TracerFromError(err)
		}
		end := start + replayBatchSize
		if end > len(resident) {
			end = len(resident)
		}
		for _, t := range resident[start:end] {
			// Ticks in the ring were validated on arrival.
			a.foldTick(t)
		}
	}

	a.refreshOpenCandle()
	a.log.Info("reaggregated", logger.Field{
		Key:   "ticks",
		Value: len(resident),
	}, logger.Field{
		Key:   "candles",
		Value: len(a.series),
	})
	return nil
}

// Series returns the candle sequence, oldest first. The slice is a copy; the
// candles themselves are shared, and only the last one may still mutate.
func (a *Aggregator) Series() []*v1.Candle {
	out := make([]*v1.Candle, len(a.series))
	copy(out, a.series)
	return out
}

// Signals returns the accumulated pattern signals keyed by candle time.
func (a *Aggregator) Signals() map[int64][]v1.Signal {
	out := make(map[int64][]v1.Signal, len(a.signals))
	for t, sigs := range a.signals {
		out[t] = append([]v1.Signal(nil), sigs...)
	}
	return out
}

// CVD returns the running cumulative volume delta.
func (a *Aggregator) CVD() float64 {
	return a.cvd
}

// Params returns the active aggregation parameters.
func (a *Aggregator) Params() Params {
	return a.params
}

// DroppedTicks returns how many malformed ticks have been dropped.
func (a *Aggregator) DroppedTicks() uint64 {
	return a.dropped
}

// HistoryLen returns the number of ticks resident in the history ring.
func (a *Aggregator) HistoryLen() int {
	return a.history.Len()
}

// resetDerived clears everything rebuilt by a replay. The tick history ring
// is left alone.
func (a *Aggregator) resetDerived() {
	a.series = nil
	a.signals = make(map[int64][]v1.Signal)
	a.current = nil
	a.tickCount = 0
	a.cvd = 0
	a.lastKey = 0
	a.lastSide = v1.SideBuy
	a.lastCandleTime = 0
	a.brickOpen = 0
	a.profileDirty = false
	a.lastRecalcMs = 0
}

// refreshOpenCandle forces a profile recompute of the open candle so a
// snapshot taken right after a bulk replay is not up to a throttle interval
// stale.
func (a *Aggregator) refreshOpenCandle() {
	if a.current == nil {
		return
	}
	a.recompute(a.current)
	a.profileDirty = false
}
