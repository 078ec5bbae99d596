package filters

import (
	"github.com/shopspring/decimal"
)

// Constraint names mirror the exchange's filter types so a rejection can be
// matched against the exchange error that would have been returned.
const (
	ConstraintLotSize      = "LOT_SIZE"
	ConstraintPriceFilter  = "PRICE_FILTER"
	ConstraintMinNotional  = "MIN_NOTIONAL"
	ConstraintMaxNotional  = "MAX_NOTIONAL"
	ConstraintPercentPrice = "PERCENT_PRICE"
)

// FilterSet holds the numeric trading rules for one symbol. It is built once
// when exchange metadata is loaded and never mutated afterwards; concurrent
// previews share it by reference.
type FilterSet struct {
	Symbol     string
	BaseAsset  string
	QuoteAsset string

	StepSize    decimal.Decimal
	TickSize    decimal.Decimal
	MinQuantity decimal.Decimal
	MaxQuantity decimal.Decimal
	MinNotional decimal.Decimal
	MaxNotional decimal.Decimal // zero when the exchange defines no cap

	// Allowed limit-price band around the mark price, as fractions:
	// [mark * (1 - MinPriceBandPct), mark * (1 + MaxPriceBandPct)].
	MinPriceBandPct decimal.Decimal
	MaxPriceBandPct decimal.Decimal

	QuantityPrecision int
	PricePrecision    int
}

// SymbolMetadata is the raw per-symbol record from exchange metadata.
// Filter values arrive as decimal strings and are parsed during registry
// load, never on the preview path.
type SymbolMetadata struct {
	Symbol     string      `json:"symbol"`
	Status     string      `json:"status"`
	BaseAsset  string      `json:"baseAsset"`
	QuoteAsset string      `json:"quoteAsset"`
	Filters    []RawFilter `json:"filters"`
}

// RawFilter is a single filter entry from exchange metadata, discriminated
// by FilterType. Fields not used by a given type stay empty.
type RawFilter struct {
	FilterType     string `json:"filterType"`
	MinPrice       string `json:"minPrice,omitempty"`
	MaxPrice       string `json:"maxPrice,omitempty"`
	TickSize       string `json:"tickSize,omitempty"`
	MinQty         string `json:"minQty,omitempty"`
	MaxQty         string `json:"maxQty,omitempty"`
	StepSize       string `json:"stepSize,omitempty"`
	MinNotional    string `json:"minNotional,omitempty"`
	MaxNotional    string `json:"maxNotional,omitempty"`
	MultiplierUp   string `json:"multiplierUp,omitempty"`
	MultiplierDown string `json:"multiplierDown,omitempty"`
}
