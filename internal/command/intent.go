package command

import (
	"github.com/shopspring/decimal"
)

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderType distinguishes market and limit orders.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// SizeUnit tags how the size value is denominated.
type SizeUnit string

const (
	// SizeUnitBase sizes the order in base-asset units (0.1 ETH).
	SizeUnitBase SizeUnit = "BASE"
	// SizeUnitQuote sizes the order in quote currency (100 USDT).
	SizeUnitQuote SizeUnit = "QUOTE"
	// SizeUnitPercent sizes the order as a percentage of available balance.
	SizeUnitPercent SizeUnit = "PERCENT"
)

// SizeSpec is the tagged size variant carried on a TradeIntent.
type SizeSpec struct {
	Unit  SizeUnit
	Value decimal.Decimal
}

// BaseAmount builds a base-asset-denominated size.
func BaseAmount(v decimal.Decimal) SizeSpec {
	return SizeSpec{Unit: SizeUnitBase, Value: v}
}

// QuoteAmount builds a quote-currency-denominated size.
func QuoteAmount(v decimal.Decimal) SizeSpec {
	return SizeSpec{Unit: SizeUnitQuote, Value: v}
}

// PercentOfBalance builds a percentage-of-balance size.
func PercentOfBalance(v decimal.Decimal) SizeSpec {
	return SizeSpec{Unit: SizeUnitPercent, Value: v}
}

// TradeIntent is the canonical parsed form of a trading instruction. It is
// immutable once produced; downstream stages derive new values from it and
// never write back.
type TradeIntent struct {
	Symbol    string
	Side      Side
	Size      SizeSpec
	Leverage  int // 0 when the user gave none
	OrderType OrderType

	// LimitPrice is set only when OrderType is OrderTypeLimit.
	LimitPrice decimal.Decimal

	// StopLossPercent and TakeProfitPercent are distances from the entry
	// price in percent; zero means not requested.
	StopLossPercent   decimal.Decimal
	TakeProfitPercent decimal.Decimal

	ReduceOnly bool
}
