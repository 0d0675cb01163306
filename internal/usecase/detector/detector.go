// Package detector flags diagonal imbalances and multi-candle order-flow
// patterns. All outputs are advisory; nothing here mutates price or volume.
package detector

import (
	"sort"

	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/pkg/pricekey"
)

// StackedThreshold is the number of same-side imbalance levels that make a
// candle a stacked-imbalance candle.
const StackedThreshold = 3

// Imbalances returns the diagonal imbalance levels of a footprint, sorted by
// price ascending.
//
// A buy imbalance at level P compares P's buy volume against the sell volume
// one step below; a sell imbalance compares P's sell volume against the buy
// volume one step above. Both terms must be strictly positive, and the
// aggressor side must be at least ratio times the opposing side.
func Imbalances(footprint map[pricekey.Key]*v1.FootprintCell, ratio float64) []v1.Imbalance {
	var out []v1.Imbalance
	for key, cell := range footprint {
		if below, ok := footprint[key-1]; ok {
			if cell.Buy > 0 && below.Sell > 0 && cell.Buy >= ratio*below.Sell {
				out = append(out, v1.Imbalance{Price: key, Side: v1.SideBuy})
			}
		}
		if above, ok := footprint[key+1]; ok {
			if cell.Sell > 0 && above.Buy > 0 && cell.Sell >= ratio*above.Buy {
				out = append(out, v1.Imbalance{Price: key, Side: v1.SideSell})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Side > out[j].Side
	})
	return out
}

// Stacked reports whether the candle carries a stacked buy or stacked sell
// imbalance signal.
func Stacked(c *v1.Candle) (stackedBuy, stackedSell bool) {
	return c.ImbalanceCount(v1.SideBuy) >= StackedThreshold,
		c.ImbalanceCount(v1.SideSell) >= StackedThreshold
}

// Divergence compares a closed candle against its immediate predecessor.
// Bullish: lower low with a higher CVD. Bearish: higher high with a lower CVD.
func Divergence(c, prev *v1.Candle) (bullish, bearish bool) {
	if prev == nil {
		return false, false
	}
	bullish = c.Low < prev.Low && c.CVD > prev.CVD
	bearish = c.High > prev.High && c.CVD < prev.CVD
	return bullish, bearish
}

// Absorbed reports whether the candle shows absorption: at least one sell
// imbalance with the close holding above the highest sell-imbalance level.
// Returns that level when it holds.
func Absorbed(c *v1.Candle, step pricekey.Step) (pricekey.Key, bool) {
	max, ok := c.MaxImbalancePrice(v1.SideSell)
	if !ok || c.Close <= step.Price(max) {
		return 0, false
	}
	return max, true
}

// Initiation reports whether the candle confirms buying initiative: at least
// one buy imbalance with the close holding above the highest buy-imbalance
// level. Returns that level when it holds.
func Initiation(c *v1.Candle, step pricekey.Step) (pricekey.Key, bool) {
	max, ok := c.MaxImbalancePrice(v1.SideBuy)
	if !ok || c.Close <= step.Price(max) {
		return 0, false
	}
	return max, true
}

// AIP reports whether candles (a, b) form an absorption-initiation pattern:
// absorption on a followed by confirmed buying on b. The entry anchors at b.
func AIP(a, b *v1.Candle, step pricekey.Step) bool {
	if a == nil || b == nil {
		return false
	}
	if _, absorbed := Absorbed(a, step); !absorbed {
		return false
	}
	_, initiated := Initiation(b, step)
	return initiated
}
