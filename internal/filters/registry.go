package filters

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Registry maps symbols to their filter sets. The backing table is an
// immutable map held in an atomic.Value: Load builds a complete new map and
// swaps it in wholesale, so readers need no lock and never observe a
// partially populated table. Load must be called from a single goroutine.
type Registry struct {
	table      atomic.Value // map[string]*FilterSet
	quoteAsset string
	logger     zerolog.Logger
}

// NewRegistry creates an empty registry. quoteAsset is the quote currency
// appended when a bare base asset is given ("ETH" -> "ETHUSDT").
func NewRegistry(quoteAsset string, logger zerolog.Logger) *Registry {
	r := &Registry{
		quoteAsset: quoteAsset,
		logger:     logger,
	}
	r.table.Store(map[string]*FilterSet{})
	return r
}

// QuoteAsset returns the registry's configured quote currency.
func (r *Registry) QuoteAsset() string {
	return r.quoteAsset
}

// Load replaces the whole table from raw exchange metadata. Symbols that
// are not trading or carry unparsable filters are skipped with a warning
// rather than failing the load.
func (r *Registry) Load(symbols []SymbolMetadata) error {
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols in exchange metadata")
	}

	newTable := make(map[string]*FilterSet, len(symbols))
	for _, meta := range symbols {
		if meta.Status != "" && meta.Status != "TRADING" {
			continue
		}

		fs, err := buildFilterSet(meta)
		if err != nil {
			r.logger.Warn().
				Str("symbol", meta.Symbol).
				Err(err).
				Msg("Skipping symbol with bad filter metadata")
			continue
		}
		newTable[fs.Symbol] = fs
	}

	if len(newTable) == 0 {
		return fmt.Errorf("exchange metadata produced no usable symbols")
	}

	r.table.Store(newTable)
	r.logger.Info().
		Int("symbol_count", len(newTable)).
		Msg("Filter registry loaded")
	return nil
}

// Get returns the filter set for symbol, or ErrUnknownSymbol.
func (r *Registry) Get(symbol string) (*FilterSet, error) {
	table := r.table.Load().(map[string]*FilterSet)
	fs, ok := table[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return fs, nil
}

// Len returns the number of symbols currently loaded.
func (r *Registry) Len() int {
	return len(r.table.Load().(map[string]*FilterSet))
}

// buildFilterSet parses one symbol's raw filters into an immutable
// FilterSet.
func buildFilterSet(meta SymbolMetadata) (*FilterSet, error) {
	if meta.Symbol == "" {
		return nil, fmt.Errorf("symbol name is empty")
	}

	fs := &FilterSet{
		Symbol:     meta.Symbol,
		BaseAsset:  meta.BaseAsset,
		QuoteAsset: meta.QuoteAsset,
	}

	for _, f := range meta.Filters {
		switch f.FilterType {
		case "PRICE_FILTER":
			tick, err := parseFilterValue(f.TickSize)
			if err != nil {
				return nil, fmt.Errorf("tickSize: %w", err)
			}
			fs.TickSize = tick
			fs.PricePrecision = stepPrecision(tick)

		case "LOT_SIZE":
			step, err := parseFilterValue(f.StepSize)
			if err != nil {
				return nil, fmt.Errorf("stepSize: %w", err)
			}
			minQty, err := parseFilterValue(f.MinQty)
			if err != nil {
				return nil, fmt.Errorf("minQty: %w", err)
			}
			maxQty, err := parseFilterValue(f.MaxQty)
			if err != nil {
				return nil, fmt.Errorf("maxQty: %w", err)
			}
			fs.StepSize = step
			fs.MinQuantity = minQty
			fs.MaxQuantity = maxQty
			fs.QuantityPrecision = stepPrecision(step)

		case "MIN_NOTIONAL", "NOTIONAL":
			minNotional, err := parseFilterValue(f.MinNotional)
			if err != nil {
				return nil, fmt.Errorf("minNotional: %w", err)
			}
			fs.MinNotional = minNotional
			if f.MaxNotional != "" {
				maxNotional, err := parseFilterValue(f.MaxNotional)
				if err != nil {
					return nil, fmt.Errorf("maxNotional: %w", err)
				}
				fs.MaxNotional = maxNotional
			}

		case "PERCENT_PRICE", "PERCENT_PRICE_BY_SIDE":
			// The exchange reports multipliers (0.9 / 1.1); the band is
			// carried as fractional distances from the mark price.
			if f.MultiplierDown != "" {
				down, err := parseFilterValue(f.MultiplierDown)
				if err != nil {
					return nil, fmt.Errorf("multiplierDown: %w", err)
				}
				fs.MinPriceBandPct = decimal.NewFromInt(1).Sub(down)
			}
			if f.MultiplierUp != "" {
				up, err := parseFilterValue(f.MultiplierUp)
				if err != nil {
					return nil, fmt.Errorf("multiplierUp: %w", err)
				}
				fs.MaxPriceBandPct = up.Sub(decimal.NewFromInt(1))
			}
		}
	}

	if !fs.StepSize.IsPositive() {
		return nil, fmt.Errorf("symbol %s has no LOT_SIZE step", meta.Symbol)
	}
	if !fs.TickSize.IsPositive() {
		return nil, fmt.Errorf("symbol %s has no PRICE_FILTER tick", meta.Symbol)
	}
	return fs, nil
}

// parseFilterValue parses a decimal-string filter field.
func parseFilterValue(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad decimal %q", s)
	}
	return d, nil
}
