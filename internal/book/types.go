package book

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Level is one price level of a depth snapshot.
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Snapshot is an order book at one instant: bids descending, asks
// ascending. It is a value object supplied fresh per preview and is never
// mutated by this package.
type Snapshot struct {
	Symbol    string
	Bids      []Level
	Asks      []Level
	Timestamp time.Time
}

// ParseLevels converts the [price, quantity] decimal-string pairs of a raw
// depth payload into levels. Levels with zero quantity are dropped, the way
// depth feeds signal level removal.
func ParseLevels(raw [][2]string) ([]Level, error) {
	levels := make([]Level, 0, len(raw))
	for i, pair := range raw {
		price, err := decimal.NewFromString(pair[0])
		if err != nil {
			return nil, fmt.Errorf("level %d: bad price %q", i, pair[0])
		}
		qty, err := decimal.NewFromString(pair[1])
		if err != nil {
			return nil, fmt.Errorf("level %d: bad quantity %q", i, pair[1])
		}
		if qty.IsZero() {
			continue
		}
		levels = append(levels, Level{Price: price, Quantity: qty})
	}
	return levels, nil
}

// Fill is the outcome of walking the book for one target. When
// BookExhausted is set the fill is partial; callers decide whether that is
// a warning or a reason to refuse.
type Fill struct {
	Requested        decimal.Decimal
	AchievedQuantity decimal.Decimal
	AchievedNotional decimal.Decimal
	AveragePrice     decimal.Decimal
	BestPrice        decimal.Decimal
	SlippagePercent  decimal.Decimal
	BookExhausted    bool
}
