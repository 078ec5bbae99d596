package filters

import (
	"github.com/shopspring/decimal"
)

// NormalizeQuantity floors raw to the symbol's step size, truncated to the
// step's precision. Rounding only ever moves down; a quantity is never
// inflated to reach a minimum. Returns a LOT_SIZE violation when the
// floored result is zero or below the minimum quantity.
func (fs *FilterSet) NormalizeQuantity(raw decimal.Decimal) (decimal.Decimal, error) {
	q := raw
	if fs.StepSize.IsPositive() {
		q = raw.Div(fs.StepSize).Floor().Mul(fs.StepSize)
	}
	q = q.Truncate(int32(fs.QuantityPrecision))

	if q.IsZero() || (fs.MinQuantity.IsPositive() && q.LessThan(fs.MinQuantity)) {
		return decimal.Zero, newViolation(ConstraintLotSize,
			"quantity %s is below minimum %s for %s",
			raw.String(), fs.MinQuantity.String(), fs.Symbol).withNearest(fs.MinQuantity)
	}
	if fs.MaxQuantity.IsPositive() && q.GreaterThan(fs.MaxQuantity) {
		return decimal.Zero, newViolation(ConstraintLotSize,
			"quantity %s is above maximum %s for %s",
			raw.String(), fs.MaxQuantity.String(), fs.Symbol).withNearest(fs.MaxQuantity)
	}
	return q, nil
}

// NormalizePrice snaps raw onto the symbol's tick grid. Buy prices are
// floored and sell prices are ceiled so the snapped price never crosses
// further into the band than the price the user asked for.
func (fs *FilterSet) NormalizePrice(raw decimal.Decimal, side string) (decimal.Decimal, error) {
	if !raw.IsPositive() {
		return decimal.Zero, newViolation(ConstraintPriceFilter,
			"price %s must be positive", raw.String())
	}

	p := raw
	if fs.TickSize.IsPositive() {
		ticks := raw.Div(fs.TickSize)
		if side == "SELL" {
			ticks = ticks.Ceil()
		} else {
			ticks = ticks.Floor()
		}
		p = ticks.Mul(fs.TickSize)
	}
	p = p.Round(int32(fs.PricePrecision))

	if p.IsZero() {
		return decimal.Zero, newViolation(ConstraintPriceFilter,
			"price %s rounds to zero at tick size %s",
			raw.String(), fs.TickSize.String()).withNearest(fs.TickSize)
	}
	return p, nil
}

// ValidateNotional checks quantity*price against the symbol's notional
// bounds.
func (fs *FilterSet) ValidateNotional(quantity, price decimal.Decimal) error {
	notional := quantity.Mul(price)
	if notional.LessThan(fs.MinNotional) {
		return newViolation(ConstraintMinNotional,
			"order value %s %s is below minimum notional %s %s",
			notional.String(), fs.QuoteAsset,
			fs.MinNotional.String(), fs.QuoteAsset).withNearest(fs.MinNotional)
	}
	if fs.MaxNotional.IsPositive() && notional.GreaterThan(fs.MaxNotional) {
		return newViolation(ConstraintMaxNotional,
			"order value %s %s is above maximum notional %s %s",
			notional.String(), fs.QuoteAsset,
			fs.MaxNotional.String(), fs.QuoteAsset).withNearest(fs.MaxNotional)
	}
	return nil
}

// ValidatePriceBand checks that a limit price falls inside the allowed
// percentage band around the mark price.
func (fs *FilterSet) ValidatePriceBand(markPrice, limitPrice decimal.Decimal) error {
	if !markPrice.IsPositive() {
		return newViolation(ConstraintPercentPrice,
			"mark price %s must be positive", markPrice.String())
	}

	lower := markPrice.Mul(decimal.NewFromInt(1).Sub(fs.MinPriceBandPct))
	upper := markPrice.Mul(decimal.NewFromInt(1).Add(fs.MaxPriceBandPct))

	if limitPrice.LessThan(lower) {
		return newViolation(ConstraintPercentPrice,
			"limit price %s is below the allowed band [%s, %s]",
			limitPrice.String(), lower.String(), upper.String()).withNearest(lower)
	}
	if limitPrice.GreaterThan(upper) {
		return newViolation(ConstraintPercentPrice,
			"limit price %s is above the allowed band [%s, %s]",
			limitPrice.String(), lower.String(), upper.String()).withNearest(upper)
	}
	return nil
}

// stepPrecision counts the decimal places of a step or tick size, ignoring
// trailing zeros so "0.00100000" yields 3 rather than 8.
func stepPrecision(step decimal.Decimal) int {
	if step.IsZero() {
		return 8
	}

	str := step.String()
	dotIndex := -1
	for i, c := range str {
		if c == '.' {
			dotIndex = i
			break
		}
	}
	if dotIndex == -1 {
		return 0
	}

	precision := 0
	for i := dotIndex + 1; i < len(str); i++ {
		if str[i] != '0' {
			precision = i - dotIndex
		}
	}
	return precision
}
