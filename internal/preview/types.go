package preview

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"previewer/internal/command"
)

// RiskSettings are the caller-owned knobs applied to every preview. They
// come from user settings storage, not from this package.
type RiskSettings struct {
	DefaultLeverage int
	LeverageCap     int
	MaxSlippageBps  int
	FeeRate         decimal.Decimal
}

// Validate checks that the settings are internally consistent.
func (r *RiskSettings) Validate() error {
	if r.DefaultLeverage < 1 {
		return fmt.Errorf("default leverage must be at least 1")
	}
	if r.LeverageCap < 1 {
		return fmt.Errorf("leverage cap must be at least 1")
	}
	if r.DefaultLeverage > r.LeverageCap {
		return fmt.Errorf("default leverage %d exceeds cap %d", r.DefaultLeverage, r.LeverageCap)
	}
	if r.MaxSlippageBps < 0 {
		return fmt.Errorf("max slippage must not be negative")
	}
	if r.FeeRate.IsNegative() {
		return fmt.Errorf("fee rate must not be negative")
	}
	return nil
}

// maxSlippagePercent converts the basis-point allowance to percent.
func (r *RiskSettings) maxSlippagePercent() decimal.Decimal {
	return decimal.NewFromInt(int64(r.MaxSlippageBps)).Div(decimal.NewFromInt(100))
}

// TradePreview is the terminal artifact: every size and price on it already
// satisfies the symbol's filter set and could be sent to the exchange
// as-is. The ID lets the presentation layer correlate a confirm/cancel
// callback with the preview it was rendered from.
type TradePreview struct {
	ID        uuid.UUID
	Symbol    string
	Side      command.Side
	OrderType command.OrderType

	BaseSize       decimal.Decimal
	QuoteSize      decimal.Decimal
	Leverage       int
	EstimatedPrice decimal.Decimal
	EstimatedFees  decimal.Decimal

	SlippagePercent     decimal.Decimal
	SlippageWarning     bool
	MaxSlippageExceeded bool
	BookExhausted       bool

	StopLossPrice   decimal.Decimal
	TakeProfitPrice decimal.Decimal
	ReduceOnly      bool

	// Notes are informational only: leverage clamping, partial liquidity.
	Notes []string

	CreatedAt time.Time
}
