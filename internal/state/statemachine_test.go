package state

import "testing"

func TestNextDrawState(t *testing.T) {
	t.Run("open draw settles to closed", func(t *testing.T) {
		next, err := NextDrawState(DrawOpen, EvtSettle)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != DrawClosed {
			t.Fatalf("next = %s, want CLOSED", next)
		}
	})

	t.Run("closed draw cannot settle again", func(t *testing.T) {
		if _, err := NextDrawState(DrawClosed, EvtSettle); err == nil {
			t.Fatal("expected error for CLOSED --settle-->")
		}
	})

	t.Run("unknown event rejected", func(t *testing.T) {
		if _, err := NextDrawState(DrawOpen, "reopen"); err == nil {
			t.Fatal("expected error for unknown event")
		}
	})
}

func TestNextTicketState(t *testing.T) {
	t.Run("sold ticket redeems", func(t *testing.T) {
		next, err := NextTicketState(TicketSold, EvtRedeem)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != TicketRedeemed {
			t.Fatalf("next = %s, want REDEEMED", next)
		}
	})

	t.Run("redeemed ticket cannot redeem again", func(t *testing.T) {
		if _, err := NextTicketState(TicketRedeemed, EvtRedeem); err == nil {
			t.Fatal("expected error for REDEEMED --redeem-->")
		}
	})
}
