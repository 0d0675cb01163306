// Package pricekey maps float prices onto integer-scaled price levels.
//
// Footprint maps are keyed by price level. Keying them by float64 invites
// equality bugs (0.1+0.2 != 0.3), so a level is the price divided by the
// instrument's price step, rounded to the nearest integer. Conversions go
// through shopspring/decimal so that steps like 0.05 survive the round trip.
package pricekey

import "github.com/shopspring/decimal"

// Key is an integer-scaled price level: round(price / step).
type Key int64

// Step is a decimal price step used for key conversions. Build one with
// NewStep and reuse it; constructing decimals per tick is wasteful.
type Step struct {
	step decimal.Decimal
}

// NewStep returns a Step for the given price increment. The caller is
// responsible for rejecting non-positive steps before calling.
func NewStep(step float64) Step {
	return Step{step: decimal.NewFromFloat(step)}
}

// Float returns the step as a float64.
func (s Step) Float() float64 {
	return s.step.InexactFloat64()
}

// FromPrice converts a price to its level key, rounding to the nearest step.
func (s Step) FromPrice(price float64) Key {
	return Key(decimal.NewFromFloat(price).Div(s.step).Round(0).IntPart())
}

// Price converts a level key back to its float price.
func (s Step) Price(k Key) float64 {
	return s.step.Mul(decimal.NewFromInt(int64(k))).InexactFloat64()
}

// Round snaps a price to the nearest step.
func (s Step) Round(price float64) float64 {
	return s.Price(s.FromPrice(price))
}

// Format renders a level as a display price with two decimal places.
func (s Step) Format(k Key) string {
	return s.step.Mul(decimal.NewFromInt(int64(k))).StringFixed(2)
}
