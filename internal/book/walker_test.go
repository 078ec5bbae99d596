package book

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Symbol: "BTCUSDT",
		Asks: []Level{
			{Price: decimal.NewFromInt(100), Quantity: decimal.RequireFromString("1.0")},
			{Price: decimal.NewFromInt(105), Quantity: decimal.RequireFromString("2.0")},
		},
		Bids: []Level{
			{Price: decimal.NewFromInt(99), Quantity: decimal.RequireFromString("1.0")},
			{Price: decimal.NewFromInt(95), Quantity: decimal.RequireFromString("2.0")},
		},
		Timestamp: time.Now(),
	}
}

func TestWalkQuantity(t *testing.T) {
	t.Run("single level fill has no slippage", func(t *testing.T) {
		fill, err := WalkQuantity(testSnapshot(), "BUY", decimal.RequireFromString("0.5"))
		require.NoError(t, err)

		assert.Equal(t, "100", fill.AveragePrice.String())
		assert.Equal(t, "100", fill.BestPrice.String())
		assert.True(t, fill.SlippagePercent.IsZero())
		assert.False(t, fill.BookExhausted)
	})

	t.Run("walks into the second level", func(t *testing.T) {
		fill, err := WalkQuantity(testSnapshot(), "BUY", decimal.RequireFromString("2.0"))
		require.NoError(t, err)

		// (1.0*100 + 1.0*105) / 2.0
		assert.Equal(t, "102.5", fill.AveragePrice.String())
		assert.Equal(t, "2.5", fill.SlippagePercent.String())
		assert.False(t, fill.BookExhausted)
	})

	t.Run("sells consume the bids", func(t *testing.T) {
		fill, err := WalkQuantity(testSnapshot(), "SELL", decimal.RequireFromString("2.0"))
		require.NoError(t, err)

		// (1.0*99 + 1.0*95) / 2.0
		assert.Equal(t, "97", fill.AveragePrice.String())
		assert.Equal(t, "99", fill.BestPrice.String())
	})

	t.Run("flags exhaustion and returns the partial fill", func(t *testing.T) {
		fill, err := WalkQuantity(testSnapshot(), "BUY", decimal.NewFromInt(10))
		require.NoError(t, err)

		assert.True(t, fill.BookExhausted)
		assert.Equal(t, "3", fill.AchievedQuantity.String())
		assert.Equal(t, "310", fill.AchievedNotional.String())
	})

	t.Run("slippage never decreases as size grows", func(t *testing.T) {
		snap := testSnapshot()
		prev := decimal.Zero
		for _, qty := range []string{"0.25", "0.5", "1", "1.5", "2", "2.5", "3", "5"} {
			fill, err := WalkQuantity(snap, "BUY", decimal.RequireFromString(qty))
			require.NoError(t, err)
			assert.True(t, fill.SlippagePercent.GreaterThanOrEqual(prev),
				"slippage dropped from %s to %s at qty %s", prev, fill.SlippagePercent, qty)
			prev = fill.SlippagePercent
		}
	})

	t.Run("rejects empty book side", func(t *testing.T) {
		snap := testSnapshot()
		snap.Asks = nil
		_, err := WalkQuantity(snap, "BUY", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrNoLiquidity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := WalkQuantity(testSnapshot(), "BUY", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("does not mutate the snapshot", func(t *testing.T) {
		snap := testSnapshot()
		_, err := WalkQuantity(snap, "BUY", decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.Equal(t, "1", snap.Asks[0].Quantity.String())
		assert.Equal(t, "2", snap.Asks[1].Quantity.String())
	})

	t.Run("repeated calls return identical fills", func(t *testing.T) {
		snap := testSnapshot()
		first, err := WalkQuantity(snap, "BUY", decimal.NewFromInt(2))
		require.NoError(t, err)
		second, err := WalkQuantity(snap, "BUY", decimal.NewFromInt(2))
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestWalkNotional(t *testing.T) {
	t.Run("converts a quote target into base quantity", func(t *testing.T) {
		fill, err := WalkNotional(testSnapshot(), "BUY", decimal.NewFromInt(100))
		require.NoError(t, err)

		assert.Equal(t, "1", fill.AchievedQuantity.String())
		assert.Equal(t, "100", fill.AveragePrice.String())
		assert.True(t, fill.SlippagePercent.IsZero())
	})

	t.Run("spends across levels", func(t *testing.T) {
		fill, err := WalkNotional(testSnapshot(), "BUY", decimal.NewFromInt(310))
		require.NoError(t, err)

		assert.Equal(t, "3", fill.AchievedQuantity.String())
		assert.Equal(t, "310", fill.AchievedNotional.String())
		assert.False(t, fill.BookExhausted)
	})

	t.Run("flags exhaustion when the book is too thin", func(t *testing.T) {
		fill, err := WalkNotional(testSnapshot(), "BUY", decimal.NewFromInt(415))
		require.NoError(t, err)

		assert.True(t, fill.BookExhausted)
		assert.Equal(t, "310", fill.AchievedNotional.String())
	})

	t.Run("rejects empty book side", func(t *testing.T) {
		snap := testSnapshot()
		snap.Bids = nil
		_, err := WalkNotional(snap, "SELL", decimal.NewFromInt(50))
		assert.ErrorIs(t, err, ErrNoLiquidity)
	})
}

func TestParseLevels(t *testing.T) {
	t.Run("parses decimal strings", func(t *testing.T) {
		levels, err := ParseLevels([][2]string{
			{"42000.50", "0.25"},
			{"42001.00", "1.5"},
		})
		require.NoError(t, err)
		require.Len(t, levels, 2)
		assert.Equal(t, "42000.5", levels[0].Price.String())
		assert.Equal(t, "0.25", levels[0].Quantity.String())
	})

	t.Run("drops zero-quantity levels", func(t *testing.T) {
		levels, err := ParseLevels([][2]string{
			{"42000.50", "0"},
			{"42001.00", "1.5"},
		})
		require.NoError(t, err)
		require.Len(t, levels, 1)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		_, err := ParseLevels([][2]string{{"oops", "1"}})
		assert.Error(t, err)

		_, err = ParseLevels([][2]string{{"1", "oops"}})
		assert.Error(t, err)
	})
}
