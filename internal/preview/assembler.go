package preview

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"previewer/internal/book"
	"previewer/internal/command"
	"previewer/internal/filters"
)

var hundred = decimal.NewFromInt(100)

var errBalanceRequired = errors.New("available balance is required for percentage sizing")

// sizing is how an intent's size spec resolved to a base quantity. For
// quote and percentage sizes the notional walk may run out of book; that
// exhaustion must survive into the preview even though the follow-up
// quantity walk consumes the book exactly.
type sizing struct {
	quantity          decimal.Decimal
	exhausted         bool
	achievedNotional  decimal.Decimal
	requestedNotional decimal.Decimal
}

// Assembler is the composition point: intent + snapshot + filter set +
// risk settings in, exchange-compliant preview or structured rejection out.
// It holds no state between calls; concurrent Build calls are safe.
type Assembler struct {
	logger zerolog.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(logger zerolog.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Build produces a TradePreview, or a *Rejection error listing every hard
// reason the order could not legally reach the exchange. balance is only
// consulted for percentage-of-balance sizing and may be zero otherwise.
// None of the inputs are mutated.
func (a *Assembler) Build(
	intent *command.TradeIntent,
	snap *book.Snapshot,
	fs *filters.FilterSet,
	risk RiskSettings,
	balance decimal.Decimal,
) (*TradePreview, error) {
	if intent == nil || snap == nil || fs == nil {
		return nil, fmt.Errorf("intent, snapshot and filter set are required")
	}
	if intent.Symbol != fs.Symbol {
		return nil, fmt.Errorf("filter set is for %s, intent is for %s", fs.Symbol, intent.Symbol)
	}
	if err := risk.Validate(); err != nil {
		return nil, fmt.Errorf("invalid risk settings: %w", err)
	}

	rejection := NewRejection(intent.Symbol)
	var notes []string

	// 1. Leverage: explicit value or default, clamped to [1, cap].
	// Clamping is informational, not an error.
	leverage := intent.Leverage
	if leverage == 0 {
		leverage = risk.DefaultLeverage
	}
	if leverage > risk.LeverageCap {
		notes = append(notes, fmt.Sprintf("leverage clamped from %dx to %dx", leverage, risk.LeverageCap))
		leverage = risk.LeverageCap
	}
	if leverage < 1 {
		leverage = 1
	}

	// 2. Resolve the target base quantity.
	sz, err := a.resolveQuantity(intent, snap, balance)
	if err != nil {
		switch {
		case errors.Is(err, errBalanceRequired):
			rejection.Add(ConstraintBalance, err)
		case errors.Is(err, book.ErrNoLiquidity):
			rejection.Add(ConstraintLiquidity, err)
		default:
			rejection.Add(ConstraintInput, err)
		}
		return nil, rejection
	}
	if sz.exhausted {
		notes = append(notes, fmt.Sprintf(
			"only %s of %s %s available in the book",
			sz.achievedNotional.String(), sz.requestedNotional.String(), fs.QuoteAsset))
	}

	// 3. Walk the book for the resolved quantity.
	fill, err := book.WalkQuantity(snap, string(intent.Side), sz.quantity)
	if err != nil {
		rejection.Add(ConstraintLiquidity, err)
		return nil, rejection
	}

	// Exhaustion during size resolution counts: the quantity walk consumes
	// exactly what the notional walk could reach, so its own flag alone
	// would read false for an under-filled quote or percentage request.
	bookExhausted := fill.BookExhausted || sz.exhausted

	maxSlippage := risk.maxSlippagePercent()
	slippageExceeded := fill.SlippagePercent.GreaterThan(maxSlippage)
	if fill.BookExhausted {
		notes = append(notes, fmt.Sprintf(
			"only %s of %s available in the book",
			fill.AchievedQuantity.String(), sz.quantity.String()))
	}

	// 4. Normalize quantity (and limit price) through the filter set.
	// A normalization failure means the exchange would reject the order.
	baseSize, err := fs.NormalizeQuantity(fill.AchievedQuantity)
	if err != nil {
		rejection.Add(filters.ConstraintLotSize, err)
		return nil, rejection
	}

	estimatedPrice := fill.AveragePrice
	if intent.OrderType == command.OrderTypeLimit {
		limitPrice, err := fs.NormalizePrice(intent.LimitPrice, string(intent.Side))
		if err != nil {
			rejection.Add(filters.ConstraintPriceFilter, err)
			return nil, rejection
		}
		estimatedPrice = limitPrice

		// 5b. Band check against the top of book as the mark proxy.
		if err := fs.ValidatePriceBand(fill.BestPrice, limitPrice); err != nil {
			rejection.Add(filters.ConstraintPercentPrice, err)
			return nil, rejection
		}
	}

	// 5. Notional bounds on the final numbers.
	if err := fs.ValidateNotional(baseSize, estimatedPrice); err != nil {
		rejection.Add(filters.ConstraintMinNotional, err)
		return nil, rejection
	}

	// 6. Fees on the quote value.
	quoteSize := baseSize.Mul(estimatedPrice)
	estimatedFees := quoteSize.Mul(risk.FeeRate)

	p := &TradePreview{
		ID:             uuid.New(),
		Symbol:         intent.Symbol,
		Side:           intent.Side,
		OrderType:      intent.OrderType,
		BaseSize:       baseSize,
		QuoteSize:      quoteSize,
		Leverage:       leverage,
		EstimatedPrice: estimatedPrice,
		EstimatedFees:  estimatedFees,

		SlippagePercent:     fill.SlippagePercent,
		SlippageWarning:     slippageExceeded || bookExhausted,
		MaxSlippageExceeded: slippageExceeded,
		BookExhausted:       bookExhausted,

		ReduceOnly: intent.ReduceOnly,
		Notes:      notes,
		CreatedAt:  time.Now().UTC(),
	}

	// 7. Stop loss / take profit relative to the estimated entry, rounded
	// through the same price normalization. The exits trade the opposite
	// side.
	exitSide := string(command.SideSell)
	if intent.Side == command.SideSell {
		exitSide = string(command.SideBuy)
	}
	if intent.StopLossPercent.IsPositive() {
		slPrice, err := fs.NormalizePrice(offsetPrice(estimatedPrice, intent.StopLossPercent, intent.Side, true), exitSide)
		if err != nil {
			rejection.Add(filters.ConstraintPriceFilter, err)
			return nil, rejection
		}
		p.StopLossPrice = slPrice
	}
	if intent.TakeProfitPercent.IsPositive() {
		tpPrice, err := fs.NormalizePrice(offsetPrice(estimatedPrice, intent.TakeProfitPercent, intent.Side, false), exitSide)
		if err != nil {
			rejection.Add(filters.ConstraintPriceFilter, err)
			return nil, rejection
		}
		p.TakeProfitPrice = tpPrice
	}

	a.logger.Debug().
		Str("symbol", p.Symbol).
		Str("side", string(p.Side)).
		Str("base_size", p.BaseSize.String()).
		Str("quote_size", p.QuoteSize.String()).
		Int("leverage", p.Leverage).
		Str("slippage_pct", p.SlippagePercent.String()).
		Bool("book_exhausted", p.BookExhausted).
		Msg("Preview assembled")

	return p, nil
}

// resolveQuantity converts the intent's size spec into a base quantity.
// Quote and percentage sizes are converted through the walker's estimated
// average price for the notional; normalization downstream is the final
// authority on the exact quantity.
func (a *Assembler) resolveQuantity(
	intent *command.TradeIntent,
	snap *book.Snapshot,
	balance decimal.Decimal,
) (sizing, error) {
	switch intent.Size.Unit {
	case command.SizeUnitBase:
		return sizing{quantity: intent.Size.Value}, nil

	case command.SizeUnitQuote:
		return notionalSizing(snap, intent.Side, intent.Size.Value)

	case command.SizeUnitPercent:
		if !balance.IsPositive() {
			return sizing{}, errBalanceRequired
		}
		notional := balance.Mul(intent.Size.Value).Div(hundred)
		return notionalSizing(snap, intent.Side, notional)
	}
	return sizing{}, fmt.Errorf("unknown size unit %q", intent.Size.Unit)
}

// notionalSizing walks a quote-value target and keeps the exhaustion state
// alongside the achieved quantity.
func notionalSizing(snap *book.Snapshot, side command.Side, notional decimal.Decimal) (sizing, error) {
	fill, err := book.WalkNotional(snap, string(side), notional)
	if err != nil {
		return sizing{}, err
	}
	return sizing{
		quantity:          fill.AchievedQuantity,
		exhausted:         fill.BookExhausted,
		achievedNotional:  fill.AchievedNotional,
		requestedNotional: notional,
	}, nil
}

// offsetPrice moves entry by pct percent in the losing direction for stop
// losses and the winning direction for take profits, relative to side.
func offsetPrice(entry, pct decimal.Decimal, side command.Side, isStopLoss bool) decimal.Decimal {
	delta := entry.Mul(pct).Div(hundred)
	down := isStopLoss
	if side == command.SideSell {
		down = !isStopLoss
	}
	if down {
		return entry.Sub(delta)
	}
	return entry.Add(delta)
}
