// Package profile derives the point of control and value area from a candle
// footprint.
package profile

import (
	"sort"

	v1 "github.com/MaheshUmale/orderflow/internal/domain/orderflow/v1"
	"github.com/MaheshUmale/orderflow/pkg/pricekey"
)

// Result holds the derived volume profile of one candle.
type Result struct {
	POC pricekey.Key
	VAH pricekey.Key
	VAL pricekey.Key
}

// Compute scans the footprint once ascending and returns the point of control
// and value area bounds.
//
// The POC is the first strict volume maximum in ascending order, so ties
// resolve to the lowest level. The value area grows outward from the POC one
// level at a time, always toward the heavier open boundary, until the band
// holds valueAreaPercent of the candle's total volume or both boundaries are
// exhausted. On an exact volume tie the band extends downward; that tie-break
// is kept for compatibility with the prior behavior, it is not a
// market-structure statement. The band is a greedy approximation, not a
// guaranteed-minimal value area.
func Compute(footprint map[pricekey.Key]*v1.FootprintCell, totalVolume, valueAreaPercent float64) Result {
	if len(footprint) == 0 {
		return Result{}
	}

	keys := make([]pricekey.Key, 0, len(footprint))
	for k := range footprint {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	volumes := make([]float64, len(keys))
	pocIdx := 0
	for i, k := range keys {
		volumes[i] = footprint[k].Total()
		if volumes[i] > volumes[pocIdx] {
			pocIdx = i
		}
	}

	lo, hi := pocIdx, pocIdx
	acc := volumes[pocIdx]
	target := valueAreaPercent * totalVolume
	for acc < target {
		hasLower := lo > 0
		hasHigher := hi < len(keys)-1
		if !hasLower && !hasHigher {
			break
		}
		switch {
		case !hasHigher:
			lo--
			acc += volumes[lo]
		case !hasLower:
			hi++
			acc += volumes[hi]
		case volumes[lo-1] >= volumes[hi+1]:
			lo--
			acc += volumes[lo]
		default:
			hi++
			acc += volumes[hi]
		}
	}

	return Result{
		POC: keys[pocIdx],
		VAH: keys[hi],
		VAL: keys[lo],
	}
}
