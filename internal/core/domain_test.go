package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestBankText(t *testing.T) {
	for _, b := range Banks() {
		text, err := b.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", b, err)
		}
		var got Bank
		if err := got.UnmarshalText(text); err != nil || got != b {
			t.Fatalf("unmarshal %q: %v %v", text, got, err)
		}
	}
	var b Bank
	if err := b.UnmarshalText([]byte("Santander")); !errors.Is(err, ErrUnknownBank) {
		t.Fatalf("expected ErrUnknownBank, got %v", err)
	}
	if _, err := Bank(0).MarshalText(); !errors.Is(err, ErrUnknownBank) {
		t.Fatalf("expected ErrUnknownBank for zero bank, got %v", err)
	}
}

func TestParseBankMemberNames(t *testing.T) {
	cases := map[string]Bank{
		"BBVA":       BankBBVA,
		"BANAMEX":    BankBanamex,
		"Banamex":    BankBanamex,
		"HSBC":       BankHSBC,
		"LIVERPOOL":  BankLiverpool,
		"VW_LEASING": BankVWLeasing,
		"VW Leasing": BankVWLeasing,
	}
	for in, want := range cases {
		got, err := ParseBank(in)
		if err != nil || got != want {
			t.Errorf("ParseBank(%q)=%v, %v want %v", in, got, err, want)
		}
	}
	for _, in := range []string{"banamex", "vw leasing", "VW-LEASING", ""} {
		if _, err := ParseBank(in); !errors.Is(err, ErrUnknownBank) {
			t.Errorf("ParseBank(%q) expected ErrUnknownBank, got %v", in, err)
		}
	}
	if text, _ := BankVWLeasing.MarshalText(); string(text) != "VW Leasing" {
		t.Errorf("marshal writes %q, want the display name", text)
	}
}

func TestCurrencyText(t *testing.T) {
	if got, err := ParseCurrency("USD"); err != nil || got != CurrencyUSD {
		t.Fatalf("ParseCurrency(USD)=%v, %v", got, err)
	}
	if _, err := ParseCurrency("EUR"); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestCreditValidate(t *testing.T) {
	good := Credit{Name: "HSBC Viva", Bank: BankHSBC, ClosingDay: 10, DueDays: 20, Currency: CurrencyMXN}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Credit{
		{Name: " ", Bank: BankHSBC, ClosingDay: 10, Currency: CurrencyMXN},
		{Name: "a", ClosingDay: 10, Currency: CurrencyMXN},
		{Name: "a", Bank: BankHSBC, ClosingDay: 10},
		{Name: "a", Bank: BankHSBC, ClosingDay: 0, Currency: CurrencyMXN},
		{Name: "a", Bank: BankHSBC, ClosingDay: 32, Currency: CurrencyMXN},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	cases := []struct {
		y, m, d int
		ok      bool
	}{
		{2024, 2, 29, true},
		{2023, 2, 29, false},
		{2023, 4, 31, false},
		{2023, 13, 1, false},
		{2023, 12, 31, true},
		{2023, 1, 0, false},
	}
	for _, tc := range cases {
		if got := IsValidDate(tc.y, tc.m, tc.d); got != tc.ok {
			t.Errorf("IsValidDate(%d,%d,%d)=%v want %v", tc.y, tc.m, tc.d, got, tc.ok)
		}
	}
}

func TestCreditJSON(t *testing.T) {
	c := Credit{Name: "VW Tiguan 2023", Bank: BankVWLeasing, ClosingDay: 1, DueDays: 0, Currency: CurrencyMXN}
	if _, err := c.CreateNextStatement(NewDate(2023, 5, 8)); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"bank":"VW Leasing"`, `"currency":"MXN"`, `"closing_date":"2023-05-01"`, `"last_date_payed":null`, `"payments":[]`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}

	var back Credit
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Bank != BankVWLeasing || !back.Statements[0].ClosingDate.Equal(NewDate(2023, 5, 1)) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"23/05/2023"`), &d); err == nil {
		t.Fatalf("expected error")
	}
	if err := json.Unmarshal([]byte(`20230523`), &d); err == nil {
		t.Fatalf("expected error")
	}
}
