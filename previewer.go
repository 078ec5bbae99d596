// Package previewer turns free-form trading instructions into
// exchange-compliant order previews. It parses command text into a trade
// intent, normalizes sizes and prices against per-symbol exchange filters,
// walks an order book snapshot to estimate the achievable fill, and
// assembles the result into a preview or a structured rejection. The whole
// pipeline is pure: no network I/O and no shared mutable state beyond the
// atomically swapped filter registry.
package previewer

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"previewer/internal/book"
	"previewer/internal/command"
	"previewer/internal/filters"
	"previewer/internal/preview"
)

// Re-exported types so collaborators only import this package.
type (
	TradeIntent  = command.TradeIntent
	SizeSpec     = command.SizeSpec
	Side         = command.Side
	OrderType    = command.OrderType
	ParseError   = command.ParseError
	Parser       = command.Parser
	FilterSet    = filters.FilterSet
	Registry     = filters.Registry
	Violation    = filters.Violation
	Snapshot     = book.Snapshot
	Level        = book.Level
	Fill         = book.Fill
	RiskSettings = preview.RiskSettings
	TradePreview = preview.TradePreview
	Rejection    = preview.Rejection
	Assembler    = preview.Assembler
)

const (
	SideBuy         = command.SideBuy
	SideSell        = command.SideSell
	OrderTypeMarket = command.OrderTypeMarket
	OrderTypeLimit  = command.OrderTypeLimit
)

var defaultParser = command.NewParser(command.DefaultQuoteAsset, command.DefaultLeverageCap)

// Parse parses command text with the default parser (USDT quote asset,
// exchange-maximum leverage cap). Use NewParser for other settings.
func Parse(text string) (*TradeIntent, *ParseError) {
	return defaultParser.Parse(text)
}

// NewParser creates a parser with an explicit quote asset and leverage cap.
func NewParser(quoteAsset string, leverageCap int) *Parser {
	return command.NewParser(quoteAsset, leverageCap)
}

// ParserFor creates a parser whose symbol inference appends the registry's
// configured quote asset, so typed commands resolve to pairs the registry
// can actually look up.
func ParserFor(registry *Registry, leverageCap int) *Parser {
	return command.NewParser(registry.QuoteAsset(), leverageCap)
}

// NewRegistry creates an empty filter registry.
func NewRegistry(quoteAsset string, logger zerolog.Logger) *Registry {
	return filters.NewRegistry(quoteAsset, logger)
}

// NewAssembler creates a preview assembler with the given logger.
func NewAssembler(logger zerolog.Logger) *Assembler {
	return preview.NewAssembler(logger)
}

// BuildPreview assembles a preview with a silent logger. On rejection the
// returned error is a *Rejection listing every failed constraint.
func BuildPreview(
	intent *TradeIntent,
	snapshot *Snapshot,
	filterSet *FilterSet,
	risk RiskSettings,
	balance decimal.Decimal,
) (*TradePreview, error) {
	return preview.NewAssembler(zerolog.Nop()).Build(intent, snapshot, filterSet, risk, balance)
}
