package aggregator

import (
	"math"
	"time"

	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/pkg/pricekey"
)

// validate rejects malformed ticks and normalizes the salvageable fields.
//
// A non-finite or non-positive price makes the tick unusable and drops it. A
// missing or negative quantity clamps to zero instead; the tick still moves
// price. A missing or non-positive timestamp is replaced with the current
// wall clock, trading strict ordering under a degraded feed for forward
// progress.
func (a *Aggregator) validate(t v1.Tick) (v1.Tick, bool) {
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) || t.Price <= 0 {
		return t, false
	}
	if math.IsNaN(t.Quantity) || t.Quantity < 0 {
		t.Quantity = 0
	}
	if t.TimestampMs <= 0 {
		t.TimestampMs = time.Now().UnixMilli()
	}
	return t, true
}

// classifySide applies the tick rule: up-tick is a buy, down-tick is a sell,
// an unchanged level carries the previous side forward. The last traded level
// starts at zero, so the first tick of a series always classifies as a buy;
// that is a long-standing artifact kept for compatibility.
func (a *Aggregator) classifySide(key pricekey.Key) v1.Side {
	side := a.lastSide
	if key > a.lastKey {
		side = v1.SideBuy
	} else if key < a.lastKey {
		side = v1.SideSell
	}
	a.lastKey = key
	a.lastSide = side
	return side
}
