package filters

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFilterSet() *FilterSet {
	return &FilterSet{
		Symbol:            "BTCUSDT",
		BaseAsset:         "BTC",
		QuoteAsset:        "USDT",
		StepSize:          decimal.RequireFromString("0.001"),
		TickSize:          decimal.RequireFromString("0.01"),
		MinQuantity:       decimal.RequireFromString("0.001"),
		MaxQuantity:       decimal.RequireFromString("10000"),
		MinNotional:       decimal.RequireFromString("5"),
		MinPriceBandPct:   decimal.RequireFromString("0.1"),
		MaxPriceBandPct:   decimal.RequireFromString("0.1"),
		QuantityPrecision: 3,
		PricePrecision:    2,
	}
}

func TestNormalizeQuantity(t *testing.T) {
	fs := testFilterSet()

	t.Run("floors to step size", func(t *testing.T) {
		q, err := fs.NormalizeQuantity(decimal.RequireFromString("0.12345"))
		require.NoError(t, err)
		assert.Equal(t, "0.123", q.String())
	})

	t.Run("exact multiple is unchanged", func(t *testing.T) {
		q, err := fs.NormalizeQuantity(decimal.RequireFromString("0.5"))
		require.NoError(t, err)
		assert.True(t, q.Equal(decimal.RequireFromString("0.5")))
	})

	t.Run("result is always a step multiple and never rounds up", func(t *testing.T) {
		inputs := []string{"0.0017", "1.9999", "42.12345678", "0.001", "123.456"}
		for _, raw := range inputs {
			t.Run(raw, func(t *testing.T) {
				in := decimal.RequireFromString(raw)
				q, err := fs.NormalizeQuantity(in)
				require.NoError(t, err)
				assert.True(t, q.Mod(fs.StepSize).IsZero(), "not a step multiple: %s", q)
				assert.True(t, q.LessThanOrEqual(in), "rounded up: %s > %s", q, in)
			})
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		once, err := fs.NormalizeQuantity(decimal.RequireFromString("7.7777"))
		require.NoError(t, err)
		twice, err := fs.NormalizeQuantity(once)
		require.NoError(t, err)
		assert.True(t, once.Equal(twice))
	})

	t.Run("rejects quantity that floors to zero", func(t *testing.T) {
		_, err := fs.NormalizeQuantity(decimal.RequireFromString("0.0004"))
		require.Error(t, err)

		v, ok := AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, ConstraintLotSize, v.Constraint)
		assert.True(t, v.HasNearest)
		assert.True(t, v.Nearest.Equal(fs.MinQuantity))
	})

	t.Run("rejects quantity above maximum", func(t *testing.T) {
		_, err := fs.NormalizeQuantity(decimal.RequireFromString("999999"))
		require.Error(t, err)

		v, ok := AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, ConstraintLotSize, v.Constraint)
	})
}

func TestNormalizePrice(t *testing.T) {
	fs := testFilterSet()

	t.Run("floors buy prices to tick", func(t *testing.T) {
		p, err := fs.NormalizePrice(decimal.RequireFromString("100.019"), "BUY")
		require.NoError(t, err)
		assert.Equal(t, "100.01", p.String())
	})

	t.Run("ceils sell prices to tick", func(t *testing.T) {
		p, err := fs.NormalizePrice(decimal.RequireFromString("100.011"), "SELL")
		require.NoError(t, err)
		assert.Equal(t, "100.02", p.String())
	})

	t.Run("is idempotent", func(t *testing.T) {
		once, err := fs.NormalizePrice(decimal.RequireFromString("42123.456"), "BUY")
		require.NoError(t, err)
		twice, err := fs.NormalizePrice(once, "BUY")
		require.NoError(t, err)
		assert.True(t, once.Equal(twice))
	})

	t.Run("result is a tick multiple", func(t *testing.T) {
		for _, raw := range []string{"0.019", "1.005", "99999.999"} {
			p, err := fs.NormalizePrice(decimal.RequireFromString(raw), "BUY")
			require.NoError(t, err)
			assert.True(t, p.Mod(fs.TickSize).IsZero(), "not a tick multiple: %s", p)
		}
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		_, err := fs.NormalizePrice(decimal.Zero, "BUY")
		assert.Error(t, err)
	})

	t.Run("rejects price that floors to zero", func(t *testing.T) {
		_, err := fs.NormalizePrice(decimal.RequireFromString("0.004"), "BUY")
		assert.Error(t, err)
	})
}

func TestValidateNotional(t *testing.T) {
	fs := testFilterSet()

	t.Run("passes at the minimum", func(t *testing.T) {
		err := fs.ValidateNotional(decimal.RequireFromString("0.05"), decimal.RequireFromString("100"))
		assert.NoError(t, err)
	})

	t.Run("rejects below minimum and names the shortfall", func(t *testing.T) {
		err := fs.ValidateNotional(decimal.RequireFromString("0.0499"), decimal.RequireFromString("100"))
		require.Error(t, err)

		v, ok := AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, ConstraintMinNotional, v.Constraint)
		assert.Contains(t, v.Message, "4.99")
		assert.Contains(t, v.Message, "below minimum notional 5")
		assert.True(t, v.Nearest.Equal(fs.MinNotional))
	})

	t.Run("rejects above maximum when defined", func(t *testing.T) {
		capped := testFilterSet()
		capped.MaxNotional = decimal.RequireFromString("1000")

		err := capped.ValidateNotional(decimal.RequireFromString("20"), decimal.RequireFromString("100"))
		require.Error(t, err)

		v, ok := AsViolation(err)
		require.True(t, ok)
		assert.Equal(t, ConstraintMaxNotional, v.Constraint)
	})
}

func TestValidatePriceBand(t *testing.T) {
	fs := testFilterSet()
	mark := decimal.RequireFromString("100")

	testCases := []struct {
		name    string
		limit   string
		wantErr bool
	}{
		{name: "inside band", limit: "100.5", wantErr: false},
		{name: "at lower bound", limit: "90", wantErr: false},
		{name: "at upper bound", limit: "110", wantErr: false},
		{name: "below band", limit: "89.99", wantErr: true},
		{name: "above band", limit: "110.01", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := fs.ValidatePriceBand(mark, decimal.RequireFromString(tc.limit))
			if tc.wantErr {
				require.Error(t, err)
				v, ok := AsViolation(err)
				require.True(t, ok)
				assert.Equal(t, ConstraintPercentPrice, v.Constraint)
				assert.True(t, v.HasNearest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStepPrecision(t *testing.T) {
	testCases := []struct {
		step string
		want int
	}{
		{step: "0.001", want: 3},
		{step: "0.01", want: 2},
		{step: "1", want: 0},
		{step: "0.1", want: 1},
		{step: "0.00000001", want: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.step, func(t *testing.T) {
			assert.Equal(t, tc.want, stepPrecision(decimal.RequireFromString(tc.step)))
		})
	}
}
