package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPickAmount(t *testing.T) {
	dec := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("bad decimal %q: %v", s, err)
		}
		return d
	}

	t.Run("explicit amount overrides the carried one", func(t *testing.T) {
		// 下一期显式传入金额时，不沿用本期结清金额
		override := dec("5000000")
		got := pickAmount(&override, dec("6000000"))
		if !got.Equal(dec("5000000")) {
			t.Fatalf("amount = %s, want the explicit 5000000", got)
		}
	})

	t.Run("explicit amount is rounded to cents", func(t *testing.T) {
		override := dec("1234.567")
		got := pickAmount(&override, decimal.Zero)
		if !got.Equal(dec("1234.57")) {
			t.Fatalf("amount = %s, want 1234.57", got)
		}
	})

	t.Run("missing amount carries the awarded one", func(t *testing.T) {
		got := pickAmount(nil, dec("80000"))
		if !got.Equal(dec("80000")) {
			t.Fatalf("amount = %s, want the carried 80000", got)
		}
	})

	t.Run("missing amount with nothing to carry is zero", func(t *testing.T) {
		got := pickAmount(nil, decimal.Zero)
		if !got.IsZero() {
			t.Fatalf("amount = %s, want 0", got)
		}
	})

	t.Run("explicit zero beats a nonzero carry", func(t *testing.T) {
		// 显式传 0 视为主动清零，而不是缺省
		zero := decimal.Zero
		got := pickAmount(&zero, dec("4000"))
		if !got.IsZero() {
			t.Fatalf("amount = %s, want the explicit 0", got)
		}
	})
}
