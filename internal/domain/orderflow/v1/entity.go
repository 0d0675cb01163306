package v1

import (
	"github.com/MaheshUmale/orderflow/pkg/pricekey"
	"github.com/google/uuid"
)

// Tick represents a single trade event from the feed.
type Tick struct {
	Price       float64
	Quantity    float64
	TimestampMs int64
}

// Side is the inferred aggressor side of a trade.
type Side int8

const (
	// SideBuy marks a buyer-initiated trade.
	SideBuy Side = 1
	// SideSell marks a seller-initiated trade.
	SideSell Side = -1
)

// FootprintCell accumulates buy and sell volume at one price level. Volumes
// only grow while the owning candle is open.
type FootprintCell struct {
	Buy  float64
	Sell float64
}

// Total returns the combined traded volume at the level.
func (c *FootprintCell) Total() float64 {
	return c.Buy + c.Sell
}

// Imbalance marks a diagonal buy or sell imbalance at a price level.
type Imbalance struct {
	Price pricekey.Key
	Side  Side
}

// Candle is one footprint candle (or Renko brick). It is mutated only while
// it is the last candle of the series; once superseded it is immutable.
type Candle struct {
	// Time is the candle open time in seconds, strictly increasing across
	// the series.
	Time int64

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64
	Delta  float64
	// CVD is the cumulative volume delta of the whole series as of this
	// candle's last folded tick.
	CVD float64

	Footprint map[pricekey.Key]*FootprintCell

	// POC, VAH and VAL are recomputed on a throttle while the candle is
	// open and once more when it closes. Zero until the first recompute.
	POC pricekey.Key
	VAH pricekey.Key
	VAL pricekey.Key

	Imbalances []Imbalance
}

// NewCandle returns an open candle seeded at the given rounded price.
func NewCandle(timeSec int64, price float64) *Candle {
	return &Candle{
		Time:      timeSec,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
		Footprint: make(map[pricekey.Key]*FootprintCell),
	}
}

// ImbalanceCount returns the number of imbalance levels on the given side.
func (c *Candle) ImbalanceCount(side Side) int {
	n := 0
	for _, imb := range c.Imbalances {
		if imb.Side == side {
			n++
		}
	}
	return n
}

// MaxImbalancePrice returns the highest imbalance level on the given side
// and whether any exists.
func (c *Candle) MaxImbalancePrice(side Side) (pricekey.Key, bool) {
	var max pricekey.Key
	found := false
	for _, imb := range c.Imbalances {
		if imb.Side != side {
			continue
		}
		if !found || imb.Price > max {
			max = imb.Price
			found = true
		}
	}
	return max, found
}

// SignalKind identifies a detected order-flow pattern.
type SignalKind string

const (
	// SignalStackedBuy marks a candle with 3+ buy imbalance levels.
	SignalStackedBuy SignalKind = "stacked_buy"
	// SignalStackedSell marks a candle with 3+ sell imbalance levels.
	SignalStackedSell SignalKind = "stacked_sell"
	// SignalBullishDivergence marks a lower low with a higher CVD.
	SignalBullishDivergence SignalKind = "bullish_divergence"
	// SignalBearishDivergence marks a higher high with a lower CVD.
	SignalBearishDivergence SignalKind = "bearish_divergence"
	// SignalAbsorption marks aggressive selling absorbed without the close
	// breaking down.
	SignalAbsorption SignalKind = "absorption"
	// SignalAIPEntry marks an absorption candle confirmed by buying on the
	// next candle.
	SignalAIPEntry SignalKind = "aip_entry"
)

// Signal is an advisory annotation anchored at a candle. Signals never
// mutate price or volume fields.
type Signal struct {
	ID         uuid.UUID
	Kind       SignalKind
	CandleTime int64
	Price      pricekey.Key
}

// EventKind distinguishes candle lifecycle events.
type EventKind string

const (
	// EventNew is emitted when a candle opens.
	EventNew EventKind = "new"
	// EventUpdate is emitted when the open candle mutates, and once more
	// with its final state when it closes.
	EventUpdate EventKind = "update"
)

// CandleEvent is a candle lifecycle event delivered to the caller.
type CandleEvent struct {
	Kind   EventKind
	Candle *Candle
}
