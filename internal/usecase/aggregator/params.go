package aggregator

import (
	"fmt"

	"github.com/MaheshUmale/orderflow/pkg/errors"
)

// Mode selects the candle boundary policy.
type Mode string

const (
	// ModeTickCount closes a candle after a fixed number of ticks.
	ModeTickCount Mode = "tick"
	// ModeRenko closes a candle on fixed price displacement, independent of
	// time or tick count.
	ModeRenko Mode = "renko"
)

// Params are the aggregation parameters. Changing them requires a replay of
// the resident tick history, so they go through Reconfigure rather than being
// poked directly.
type Params struct {
	Mode             Mode
	TicksPerCandle   int
	PriceStep        float64
	BoxSize          float64
	ValueAreaPercent float64
	ImbalanceRatio   float64
	RecalcThrottleMs int64
	HistoryCapacity  int
	SeriesCapacity   int
}

// DefaultParams returns the documented engine defaults.
func DefaultParams() Params {
	return Params{
		Mode:             ModeTickCount,
		TicksPerCandle:   100,
		PriceStep:        0.05,
		BoxSize:          10,
		ValueAreaPercent: 0.70,
		ImbalanceRatio:   3.0,
		RecalcThrottleMs: 250,
		HistoryCapacity:  20000,
		SeriesCapacity:   1500,
	}
}

// Validate rejects parameter sets the engine cannot run with. Callers keep
// their previous configuration when this fails.
func (p Params) Validate() error {
	switch p.Mode {
	case ModeTickCount, ModeRenko:
	default:
		return errors.NewTracer(fmt.Sprintf("unknown aggregation mode %q", p.Mode))
	}
	if p.TicksPerCandle <= 0 {
		return errors.NewTracer("ticks per candle must be positive")
	}
	if p.PriceStep <= 0 {
		return errors.NewTracer("price step must be positive")
	}
	if p.Mode == ModeRenko && p.BoxSize <= 0 {
		return errors.NewTracer("box size must be positive in renko mode")
	}
	if p.ValueAreaPercent <= 0 || p.ValueAreaPercent > 1 {
		return errors.NewTracer("value area percent must be in (0, 1]")
	}
	if p.ImbalanceRatio <= 0 {
		return errors.NewTracer("imbalance ratio must be positive")
	}
	if p.RecalcThrottleMs < 0 {
		return errors.NewTracer("recalc throttle must not be negative")
	}
	if p.HistoryCapacity <= 0 {
		return errors.NewTracer("history capacity must be positive")
	}
	if p.SeriesCapacity <= 0 {
		return errors.NewTracer("candle series capacity must be positive")
	}
	return nil
}
