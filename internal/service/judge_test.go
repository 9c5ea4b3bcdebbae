package service

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/phitthaya2548/lottobackend/internal/model"
)

func closedDraw(win1, win2, win3, last3, last2 string, amounts [5]int64) *model.Draw {
	ns := func(s string) sql.NullString {
		return sql.NullString{String: s, Valid: s != ""}
	}
	return &model.Draw{
		DrawNumber:   42,
		Status:       "CLOSED",
		Win1Full:     ns(win1),
		Win2Full:     ns(win2),
		Win3Full:     ns(win3),
		WinLast3:     ns(last3),
		WinLast2:     ns(last2),
		Prize1Amount: decimal.NewFromInt(amounts[0]),
		Prize2Amount: decimal.NewFromInt(amounts[1]),
		Prize3Amount: decimal.NewFromInt(amounts[2]),
		Last3Amount:  decimal.NewFromInt(amounts[3]),
		Last2Amount:  decimal.NewFromInt(amounts[4]),
	}
}

func TestJudge(t *testing.T) {
	t.Run("full match wins highest tier and records all matched tiers", func(t *testing.T) {
		// 一等奖号码的末三位/末二位派生自号码本身，一张票可同时命中三个奖级
		d := closedDraw("123456", "654321", "111111", "456", "56",
			[5]int64{6000000, 200000, 80000, 4000, 2000})

		r := Judge("123456", d)
		if !r.Won() {
			t.Fatal("expected a win")
		}
		if r.Best != TierPrize1 {
			t.Fatalf("best tier = %s, want PRIZE1", r.Best)
		}
		if !r.Amount.Equal(decimal.NewFromInt(6000000)) {
			t.Fatalf("amount = %s, want 6000000", r.Amount)
		}
		if len(r.Matched) != 3 {
			t.Fatalf("matched = %v, want 3 tiers", r.Matched)
		}
	})

	t.Run("equal amounts keep the earlier tier", func(t *testing.T) {
		d := closedDraw("999999", "888888", "777777", "456", "56",
			[5]int64{100, 100, 100, 500, 500})

		r := Judge("123456", d)
		if r.Best != TierLast3 {
			t.Fatalf("best tier = %s, want LAST3 on amount tie", r.Best)
		}
		if !r.Amount.Equal(decimal.NewFromInt(500)) {
			t.Fatalf("amount = %s, want 500", r.Amount)
		}
		if len(r.Matched) != 2 {
			t.Fatalf("matched = %v, want LAST3 and LAST2", r.Matched)
		}
	})

	t.Run("last two digits only", func(t *testing.T) {
		d := closedDraw("999999", "888888", "777777", "000", "56",
			[5]int64{6000000, 200000, 80000, 4000, 2000})

		r := Judge("123456", d)
		if r.Best != TierLast2 {
			t.Fatalf("best tier = %s, want LAST2", r.Best)
		}
		if !r.Amount.Equal(decimal.NewFromInt(2000)) {
			t.Fatalf("amount = %s, want 2000", r.Amount)
		}
	})

	t.Run("no match loses", func(t *testing.T) {
		d := closedDraw("999999", "888888", "777777", "000", "00",
			[5]int64{6000000, 200000, 80000, 4000, 2000})

		r := Judge("123456", d)
		if r.Won() {
			t.Fatalf("expected no win, got %s %s", r.Best, r.Amount)
		}
	})

	t.Run("second and third full prizes pay their own amounts", func(t *testing.T) {
		d := closedDraw("999999", "123456", "777777", "000", "00",
			[5]int64{6000000, 200000, 80000, 4000, 2000})

		r := Judge("123456", d)
		if r.Best != TierPrize2 {
			t.Fatalf("best tier = %s, want PRIZE2", r.Best)
		}
		if !r.Amount.Equal(decimal.NewFromInt(200000)) {
			t.Fatalf("amount = %s, want 200000", r.Amount)
		}
	})

	t.Run("zero amount tier is not a win", func(t *testing.T) {
		d := closedDraw("999999", "888888", "777777", "000", "56",
			[5]int64{6000000, 200000, 80000, 4000, 0})

		r := Judge("123456", d)
		if r.Won() {
			t.Fatal("zero-amount tier must not count as a win")
		}
		if len(r.Matched) != 1 {
			t.Fatalf("matched = %v, want the hit recorded even without payout", r.Matched)
		}
	})

	t.Run("undrawn numbers never match", func(t *testing.T) {
		d := &model.Draw{DrawNumber: 1, Status: "OPEN"}
		r := Judge("123456", d)
		if r.Won() || len(r.Matched) != 0 {
			t.Fatalf("open draw must not produce matches, got %v", r.Matched)
		}
	})

	t.Run("short ticket number is rejected", func(t *testing.T) {
		d := closedDraw("123456", "", "", "456", "56",
			[5]int64{6000000, 0, 0, 4000, 2000})
		r := Judge("456", d)
		if r.Won() {
			t.Fatal("short number must not win via suffix coincidence")
		}
	})
}
