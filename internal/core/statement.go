package core

import (
	"fmt"
	"time"
)

// NewPayment returns the blank payment appended by "new payment": dated
// today, zero amount, placeholder proof.
func NewPayment(today Date) Payment {
	return Payment{PaymentDate: today, Amount: Money{}, ProofOfPayment: PlaceholderProof}
}

// NewStatement returns an empty statement for the given closing and due
// dates. Month and year follow the closing date.
func NewStatement(closing, due Date) Statement {
	s := Statement{
		Month:       closing.Month(),
		Year:        closing.Year(),
		ClosingDate: closing,
		DueDate:     due,
		Payments:    []Payment{},
	}
	s.Recompute()
	return s
}

// Recompute derives payed, the pending tiers, the payment count and the
// last payment date from Payments. Every tier is measured against the
// same cumulative total. The last payment date is the one of the last
// element in sequence order, not the latest date; an undated last
// payment leaves it absent.
func (s *Statement) Recompute() {
	var payed Money
	for _, p := range s.Payments {
		payed = payed.Add(p.Amount)
	}
	s.Payed = payed
	s.PendingForMinPayment1 = Pending(s.RequiredMinPayment1, payed)
	s.PendingForMinPayment2 = Pending(s.RequiredMinPayment2, payed)
	s.PendingForFullPayment = Pending(s.RequiredFullPayment, payed)
	s.NumberOfPayments = len(s.Payments)
	s.LastDatePayed = nil
	if n := len(s.Payments); n > 0 && !s.Payments[n-1].PaymentDate.IsZero() {
		last := s.Payments[n-1].PaymentDate
		s.LastDatePayed = &last
	}
}

// Clone returns a copy that shares no slices or pointers with s. A nil
// payment list comes back empty.
func (s Statement) Clone() Statement {
	out := s
	out.Payments = append([]Payment{}, s.Payments...)
	if s.LastDatePayed != nil {
		d := *s.LastDatePayed
		out.LastDatePayed = &d
	}
	return out
}

// Clone returns a deep copy of the credit and its statements. A nil
// statement list comes back empty.
func (c Credit) Clone() Credit {
	out := c
	out.Statements = make([]Statement, len(c.Statements))
	for i, s := range c.Statements {
		out.Statements[i] = s.Clone()
	}
	return out
}

// EnsureWeekday moves a Saturday forward two days and a Sunday forward one.
func EnsureWeekday(d Date) Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(2)
	case time.Sunday:
		return d.AddDays(1)
	}
	return d
}

// NextClosingAndDueDate computes the dates of the statement that follows
// the last one. A credit without statements starts in today's month.
//
// The month overflow is folded with year += month/12, month %= 12, which
// is only reached with month == 13. A closing day that the target month
// does not have (31 in April, 30 in February) yields ErrInvalidClosingDate.
func (c Credit) NextClosingAndDueDate(today Date) (closing, due Date, err error) {
	var year, month int
	if n := len(c.Statements); n == 0 {
		year, month = today.Year(), today.Month()
	} else {
		last := c.Statements[n-1].ClosingDate
		year, month = last.Year(), last.Month()+1
	}
	if month > 12 {
		year += month / 12
		month %= 12
	}
	if !IsValidDate(year, month, c.ClosingDay) {
		return Date{}, Date{}, fmt.Errorf("%w: %04d-%02d-%02d for %q",
			ErrInvalidClosingDate, year, month, c.ClosingDay, c.Name)
	}
	closing = NewDate(year, month, c.ClosingDay)
	due = EnsureWeekday(closing.AddDays(c.DueDays))
	return closing, due, nil
}

// NextStatement builds the statement CreateNextStatement would append,
// without modifying c.
func (c Credit) NextStatement(today Date) (Statement, error) {
	closing, due, err := c.NextClosingAndDueDate(today)
	if err != nil {
		return Statement{}, err
	}
	return NewStatement(closing, due), nil
}

// CreateNextStatement appends the next empty statement and returns it.
// On error the credit is left unchanged.
func (c *Credit) CreateNextStatement(today Date) (Statement, error) {
	s, err := c.NextStatement(today)
	if err != nil {
		return Statement{}, err
	}
	c.Statements = append(c.Statements, s)
	return s, nil
}
