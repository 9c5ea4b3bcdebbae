package helper

import "testing"

func TestIsTicketNumberFormat(t *testing.T) {
	valid := []string{"000000", "123456", "999999"}
	for _, s := range valid {
		if !IsTicketNumberFormat(s) {
			t.Fatalf("%q should be valid", s)
		}
	}
	invalid := []string{"", "12345", "1234567", "12345a", "12 456", "12-456", "１２３４５６"}
	for _, s := range invalid {
		if IsTicketNumberFormat(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestIsMoneyFormat(t *testing.T) {
	valid := []string{"0", "100", "100.5", "100.50", "0.01"}
	for _, s := range valid {
		if !IsMoneyFormat(s) {
			t.Fatalf("%q should be valid money", s)
		}
	}
	invalid := []string{"", "-1", "1.234", "01", "1,000", "abc", "."}
	for _, s := range invalid {
		if IsMoneyFormat(s) {
			t.Fatalf("%q should be invalid money", s)
		}
	}
}

func TestValidateBuy(t *testing.T) {
	t.Run("valid with explicit draw", func(t *testing.T) {
		in := BuyParsed{DrawNumber: 12, TicketNumber: "012345"}
		if ok, msg := ValidateBuy(&in); !ok {
			t.Fatalf("unexpected reject: %s", msg)
		}
	})
	t.Run("valid without draw means current draw", func(t *testing.T) {
		in := BuyParsed{TicketNumber: "012345"}
		if ok, msg := ValidateBuy(&in); !ok {
			t.Fatalf("unexpected reject: %s", msg)
		}
	})
	t.Run("bad ticket number", func(t *testing.T) {
		in := BuyParsed{DrawNumber: 12, TicketNumber: "12345"}
		if ok, _ := ValidateBuy(&in); ok {
			t.Fatal("expected reject for short number")
		}
	})
}

func TestValidateClaim(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := ClaimParsed{DrawNumber: 3, TicketNumber: "000001"}
		if ok, msg := ValidateClaim(&in); !ok {
			t.Fatalf("unexpected reject: %s", msg)
		}
	})
	t.Run("draw number required", func(t *testing.T) {
		in := ClaimParsed{TicketNumber: "000001"}
		if ok, _ := ValidateClaim(&in); ok {
			t.Fatal("expected reject without draw_number")
		}
	})
}

func TestValidateSettle(t *testing.T) {
	t.Run("empty input is fine", func(t *testing.T) {
		in := SettleParsed{}
		if ok, msg := ValidateSettle(&in); !ok {
			t.Fatalf("unexpected reject: %s", msg)
		}
	})
	t.Run("source mode checked", func(t *testing.T) {
		in := SettleParsed{SourceMode: "RANDOM"}
		if ok, _ := ValidateSettle(&in); ok {
			t.Fatal("expected reject for bad source_mode")
		}
	})
	t.Run("amounts checked", func(t *testing.T) {
		in := SettleParsed{Prize1Amount: "12.345"}
		if ok, _ := ValidateSettle(&in); ok {
			t.Fatal("expected reject for 3-decimal amount")
		}
	})
	t.Run("next draw date format checked", func(t *testing.T) {
		in := SettleParsed{NextDrawDate: "30-08-2026"}
		if ok, _ := ValidateSettle(&in); ok {
			t.Fatal("expected reject for bad date format")
		}
	})
}

func TestValidateCredentials(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := CredentialsParsed{Username: "alice", Password: "secret1"}
		if ok, msg := ValidateCredentials(&in); !ok {
			t.Fatalf("unexpected reject: %s", msg)
		}
	})
	t.Run("short password", func(t *testing.T) {
		in := CredentialsParsed{Username: "alice", Password: "123"}
		if ok, _ := ValidateCredentials(&in); ok {
			t.Fatal("expected reject for short password")
		}
	})
	t.Run("short username", func(t *testing.T) {
		in := CredentialsParsed{Username: "al", Password: "secret1"}
		if ok, _ := ValidateCredentials(&in); ok {
			t.Fatal("expected reject for short username")
		}
	})
}

func TestValidateProfileEdit(t *testing.T) {
	t.Run("valid phone", func(t *testing.T) {
		in := ProfileEditParsed{Phone: "0812345678"}
		if ok, msg := ValidateProfileEdit(&in); !ok {
			t.Fatalf("unexpected reject: %s", msg)
		}
	})
	t.Run("empty phone clears the field", func(t *testing.T) {
		in := ProfileEditParsed{Phone: ""}
		if ok, msg := ValidateProfileEdit(&in); !ok {
			t.Fatalf("unexpected reject: %s", msg)
		}
	})
	t.Run("overlong phone", func(t *testing.T) {
		in := ProfileEditParsed{Phone: "123456789012345678901"}
		if ok, _ := ValidateProfileEdit(&in); ok {
			t.Fatal("expected reject for phone over 20 characters")
		}
	})
}
