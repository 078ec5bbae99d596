package book

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoLiquidity is returned when the relevant book side is empty or the
// target cannot consume even part of the first level.
var ErrNoLiquidity = errors.New("no liquidity on book side")

var hundred = decimal.NewFromInt(100)

// WalkQuantity simulates filling qty base units against the snapshot,
// consuming asks for buys and bids for sells in price-priority order. It is
// a pure function of its inputs and safe to call repeatedly for what-if
// analysis.
func WalkQuantity(snap *Snapshot, side string, qty decimal.Decimal) (*Fill, error) {
	if !qty.IsPositive() {
		return nil, errors.New("quantity must be positive")
	}
	levels := sideLevels(snap, side)
	if len(levels) == 0 {
		return nil, ErrNoLiquidity
	}

	fill := &Fill{
		Requested: qty,
		BestPrice: levels[0].Price,
	}

	remaining := qty
	for _, lvl := range levels {
		consumed := decimal.Min(remaining, lvl.Quantity)
		fill.AchievedQuantity = fill.AchievedQuantity.Add(consumed)
		fill.AchievedNotional = fill.AchievedNotional.Add(consumed.Mul(lvl.Price))
		remaining = remaining.Sub(consumed)
		if remaining.IsZero() {
			break
		}
	}

	fill.BookExhausted = remaining.IsPositive()
	return finalize(fill)
}

// WalkNotional simulates spending (buy) or receiving (sell) a quote-value
// target instead of a base quantity.
func WalkNotional(snap *Snapshot, side string, notional decimal.Decimal) (*Fill, error) {
	if !notional.IsPositive() {
		return nil, errors.New("notional must be positive")
	}
	levels := sideLevels(snap, side)
	if len(levels) == 0 {
		return nil, ErrNoLiquidity
	}

	fill := &Fill{
		Requested: notional,
		BestPrice: levels[0].Price,
	}

	remaining := notional
	for _, lvl := range levels {
		if !lvl.Price.IsPositive() {
			continue
		}
		levelNotional := lvl.Quantity.Mul(lvl.Price)
		consumedNotional := decimal.Min(remaining, levelNotional)
		consumedQty := consumedNotional.Div(lvl.Price)

		fill.AchievedQuantity = fill.AchievedQuantity.Add(consumedQty)
		fill.AchievedNotional = fill.AchievedNotional.Add(consumedNotional)
		remaining = remaining.Sub(consumedNotional)
		if remaining.IsZero() {
			break
		}
	}

	fill.BookExhausted = remaining.IsPositive()
	return finalize(fill)
}

// finalize derives average price and slippage from the accumulators.
func finalize(fill *Fill) (*Fill, error) {
	if fill.AchievedQuantity.IsZero() || !fill.BestPrice.IsPositive() {
		return nil, ErrNoLiquidity
	}
	fill.AveragePrice = fill.AchievedNotional.Div(fill.AchievedQuantity)
	fill.SlippagePercent = fill.AveragePrice.Sub(fill.BestPrice).Abs().
		Div(fill.BestPrice).Mul(hundred)
	return fill, nil
}

// sideLevels picks the book side the order would trade against.
func sideLevels(snap *Snapshot, side string) []Level {
	if side == "SELL" {
		return snap.Bids
	}
	return snap.Asks
}
