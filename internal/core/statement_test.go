package core

import (
	"errors"
	"testing"
)

func pay(y, m, d int, cents int64) Payment {
	return Payment{PaymentDate: NewDate(y, m, d), Amount: Cents(cents), ProofOfPayment: "ref"}
}

func TestStatementRecompute(t *testing.T) {
	cases := []struct {
		name                       string
		min1, min2, full           int64
		payments                   []Payment
		payed, pend1, pend2, pendF int64
	}{
		{"empty", 1000, 2000, 5000, nil, 0, 1000, 2000, 5000},
		{"partial", 1000, 2000, 5000, []Payment{pay(2023, 6, 1, 1500)}, 1500, 0, 500, 3500},
		{"several", 1000, 2000, 5000, []Payment{pay(2023, 6, 1, 1500), pay(2023, 6, 2, 700)}, 2200, 0, 0, 2800},
		{"over", 1000, 2000, 5000, []Payment{pay(2023, 6, 1, 9000)}, 9000, 0, 0, 0},
		{"zero amounts", 0, 0, 0, []Payment{pay(2023, 6, 1, 0)}, 0, 0, 0, 0},
	}
	for _, tc := range cases {
		s := Statement{
			RequiredMinPayment1: Cents(tc.min1),
			RequiredMinPayment2: Cents(tc.min2),
			RequiredFullPayment: Cents(tc.full),
			Payments:            tc.payments,
		}
		s.Recompute()
		if s.Payed.Cents != tc.payed {
			t.Errorf("%s: payed=%d want %d", tc.name, s.Payed.Cents, tc.payed)
		}
		if s.PendingForMinPayment1.Cents != tc.pend1 || s.PendingForMinPayment2.Cents != tc.pend2 || s.PendingForFullPayment.Cents != tc.pendF {
			t.Errorf("%s: pending=(%d,%d,%d) want (%d,%d,%d)", tc.name,
				s.PendingForMinPayment1.Cents, s.PendingForMinPayment2.Cents, s.PendingForFullPayment.Cents,
				tc.pend1, tc.pend2, tc.pendF)
		}
		if s.NumberOfPayments != len(tc.payments) {
			t.Errorf("%s: number_of_payments=%d want %d", tc.name, s.NumberOfPayments, len(tc.payments))
		}
	}
}

func TestStatementRecomputeIdempotent(t *testing.T) {
	s := Statement{
		RequiredMinPayment1: Cents(100),
		RequiredFullPayment: Cents(1000),
		Payments:            []Payment{pay(2023, 6, 1, 400), pay(2023, 6, 3, 50)},
	}
	s.Recompute()
	first := s.Clone()
	s.Recompute()
	if s.Payed != first.Payed || s.PendingForFullPayment != first.PendingForFullPayment ||
		s.NumberOfPayments != first.NumberOfPayments || !s.LastDatePayed.Equal(*first.LastDatePayed) {
		t.Fatalf("second recompute changed derived fields: %+v vs %+v", s, first)
	}
}

func TestStatementLastDatePayedBySequence(t *testing.T) {
	s := Statement{Payments: []Payment{pay(2023, 6, 20, 1), pay(2023, 6, 5, 1)}}
	s.Recompute()
	if s.LastDatePayed == nil || !s.LastDatePayed.Equal(NewDate(2023, 6, 5)) {
		t.Fatalf("last_date_payed=%v want 2023-06-05", s.LastDatePayed)
	}

	s.Payments = nil
	s.Recompute()
	if s.LastDatePayed != nil {
		t.Fatalf("expected absent last_date_payed, got %v", s.LastDatePayed)
	}
}

func TestCoveredAndExceeded(t *testing.T) {
	s := Statement{RequiredFullPayment: Cents(1154846), Payments: []Payment{pay(2023, 6, 1, 1154846)}}
	s.Recompute()
	if s.Payed.Cents != 1154846 || s.PendingForFullPayment.Cents != 0 {
		t.Fatalf("payed=%d pending=%d", s.Payed.Cents, s.PendingForFullPayment.Cents)
	}
	if got := FullPaymentStatus(s); got != LabelCovered {
		t.Fatalf("status=%q want Covered", got)
	}

	s.Payments = append(s.Payments, pay(2023, 6, 2, 1))
	s.Recompute()
	if s.Payed.Cents != 1154847 {
		t.Fatalf("payed=%d want 1154847", s.Payed.Cents)
	}
	if got := FullPaymentStatus(s); got != LabelExceeded {
		t.Fatalf("status=%q want Exceeded", got)
	}
}

func TestPendingLabel(t *testing.T) {
	s := Statement{RequiredFullPayment: Cents(1154846), RequiredMinPayment1: Cents(50000)}
	s.Recompute()
	sum := Summarize(s)
	if sum.FullPaymentStatus != "Pending 11,548.46" {
		t.Fatalf("full status=%q", sum.FullPaymentStatus)
	}
	if sum.MinPayment1Status != "Pending 500.00" {
		t.Fatalf("min1 status=%q", sum.MinPayment1Status)
	}
	if sum.MinPayment2Status != LabelCovered {
		t.Fatalf("min2 status=%q", sum.MinPayment2Status)
	}
	if sum.LastDatePayed != "" {
		t.Fatalf("unexpected last date %q", sum.LastDatePayed)
	}
}

func TestEnsureWeekday(t *testing.T) {
	cases := []struct {
		in, want Date
	}{
		{NewDate(2023, 6, 10), NewDate(2023, 6, 12)}, // Saturday
		{NewDate(2023, 6, 11), NewDate(2023, 6, 12)}, // Sunday
		{NewDate(2023, 6, 12), NewDate(2023, 6, 12)},
		{NewDate(2023, 6, 13), NewDate(2023, 6, 13)},
	}
	for _, tc := range cases {
		if got := EnsureWeekday(tc.in); !got.Equal(tc.want) {
			t.Errorf("EnsureWeekday(%s)=%s want %s", tc.in, got, tc.want)
		}
	}
}

func TestCreateNextStatementFromToday(t *testing.T) {
	c := Credit{Name: "BBVA Azul", Bank: BankBBVA, ClosingDay: 23, DueDays: 20, Currency: CurrencyMXN}
	s, err := c.CreateNextStatement(NewDate(2023, 5, 8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(c.Statements))
	}
	if !s.ClosingDate.Equal(NewDate(2023, 5, 23)) || !s.DueDate.Equal(NewDate(2023, 6, 12)) {
		t.Fatalf("closing=%s due=%s", s.ClosingDate, s.DueDate)
	}
	if s.Month != 5 || s.Year != 2023 {
		t.Fatalf("month/year=%d/%d", s.Month, s.Year)
	}
	if s.RequiredFullPayment.Cents != 0 || s.Payed.Cents != 0 || s.PendingForFullPayment.Cents != 0 ||
		s.NumberOfPayments != 0 || s.LastDatePayed != nil {
		t.Fatalf("expected zero fields, got %+v", s)
	}
}

func TestCreateNextStatementRollsForward(t *testing.T) {
	cases := []struct {
		last        Date
		closingDay  int
		dueDays     int
		wantClosing Date
		wantDue     Date
	}{
		{NewDate(2023, 5, 23), 23, 20, NewDate(2023, 6, 23), NewDate(2023, 7, 13)},
		{NewDate(2023, 12, 15), 15, 20, NewDate(2024, 1, 15), NewDate(2024, 2, 5)}, // due on Sunday
		{NewDate(2023, 11, 15), 15, 0, NewDate(2023, 12, 15), NewDate(2023, 12, 15)},
	}
	for _, tc := range cases {
		c := Credit{Name: "x", Bank: BankHSBC, ClosingDay: tc.closingDay, DueDays: tc.dueDays, Currency: CurrencyMXN,
			Statements: []Statement{NewStatement(tc.last, tc.last)}}
		s, err := c.CreateNextStatement(NewDate(2030, 1, 1))
		if err != nil {
			t.Fatalf("from %s: %v", tc.last, err)
		}
		if !s.ClosingDate.Equal(tc.wantClosing) || !s.DueDate.Equal(tc.wantDue) {
			t.Errorf("from %s: closing=%s due=%s want %s %s", tc.last, s.ClosingDate, s.DueDate, tc.wantClosing, tc.wantDue)
		}
	}
}

func TestCreateNextStatementInvalidDay(t *testing.T) {
	c := Credit{Name: "x", Bank: BankHSBC, ClosingDay: 31, DueDays: 20, Currency: CurrencyMXN,
		Statements: []Statement{NewStatement(NewDate(2023, 3, 31), NewDate(2023, 4, 20))}}
	_, err := c.CreateNextStatement(NewDate(2023, 4, 1))
	if !errors.Is(err, ErrInvalidClosingDate) {
		t.Fatalf("expected ErrInvalidClosingDate, got %v", err)
	}
	if len(c.Statements) != 1 {
		t.Fatalf("credit mutated on error")
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := Credit{Name: "x", Statements: []Statement{{Payments: []Payment{pay(2023, 1, 1, 5)}}}}
	c.Statements[0].Recompute()
	cp := c.Clone()
	cp.Statements[0].Payments[0].Amount = Cents(99)
	*cp.Statements[0].LastDatePayed = NewDate(2000, 1, 1)
	if c.Statements[0].Payments[0].Amount.Cents != 5 {
		t.Fatalf("payments shared")
	}
	if !c.Statements[0].LastDatePayed.Equal(NewDate(2023, 1, 1)) {
		t.Fatalf("last date shared")
	}
}

func TestRecomputeUndatedLastPayment(t *testing.T) {
	s := Statement{Payments: []Payment{pay(2023, 6, 1, 100), {Amount: Cents(50)}}}
	s.Recompute()
	if s.LastDatePayed != nil {
		t.Fatalf("expected no last date for an undated last payment, got %v", *s.LastDatePayed)
	}
	if s.Payed.Cents != 150 || s.NumberOfPayments != 2 {
		t.Fatalf("payed=%d count=%d", s.Payed.Cents, s.NumberOfPayments)
	}
}
