package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	BankBBVA Bank = iota + 1
	BankBanamex
	BankHSBC
	BankLiverpool
	BankVWLeasing
)

const (
	CurrencyMXN Currency = iota + 1
	CurrencyUSD
)

// PlaceholderProof is the proof label given to a freshly added payment.
const PlaceholderProof = "PATH"

type (
	// Bank is the closed set of issuers a credit line can belong to.
	Bank int

	// Currency is the closed set of currencies a credit line is billed in.
	Currency int

	Payment struct {
		PaymentDate    Date   `json:"payment_date"`
		Amount         Money  `json:"amount"`
		ProofOfPayment string `json:"proof_of_payment"`
	}

	// Statement is one billing cycle of a Credit. The fields after
	// RequiredFullPayment are derived from Payments and are only
	// consistent after Recompute.
	Statement struct {
		Month               int   `json:"month"`
		Year                int   `json:"year"`
		ClosingDate         Date  `json:"closing_date"`
		DueDate             Date  `json:"due_date"`
		RequiredMinPayment1 Money `json:"required_min_payment1"`
		RequiredMinPayment2 Money `json:"required_min_payment2"`
		RequiredFullPayment Money `json:"required_full_payment"`

		Payed                 Money     `json:"payed"`
		PendingForMinPayment1 Money     `json:"pending_for_min_payment1"`
		PendingForMinPayment2 Money     `json:"pending_for_min_payment2"`
		PendingForFullPayment Money     `json:"pending_for_full_payment"`
		LastDatePayed         *Date     `json:"last_date_payed"`
		NumberOfPayments      int       `json:"number_of_payments"`
		Payments              []Payment `json:"payments"`
	}

	Credit struct {
		Name       string      `json:"name"`
		Bank       Bank        `json:"bank"`
		ClosingDay int         `json:"closing_day"`
		DueDays    int         `json:"due_days"`
		Currency   Currency    `json:"currency"`
		Statements []Statement `json:"statements"`
	}
)

var (
	ErrUnknownBank        = errors.New("unknown bank")
	ErrUnknownCurrency    = errors.New("unknown currency")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidClosingDay  = errors.New("invalid closing day")
	ErrInvalidClosingDate = errors.New("closing day does not exist in month")
	ErrEmptyName          = errors.New("empty credit name")
)

var bankNames = map[Bank]string{
	BankBBVA:      "BBVA",
	BankBanamex:   "Banamex",
	BankHSBC:      "HSBC",
	BankLiverpool: "Liverpool",
	BankVWLeasing: "VW Leasing",
}

// bankKeys are the enum member names older datasets were written with.
var bankKeys = map[Bank]string{
	BankBBVA:      "BBVA",
	BankBanamex:   "BANAMEX",
	BankHSBC:      "HSBC",
	BankLiverpool: "LIVERPOOL",
	BankVWLeasing: "VW_LEASING",
}

var currencyNames = map[Currency]string{
	CurrencyMXN: "MXN",
	CurrencyUSD: "USD",
}

// Banks returns every supported bank in declaration order.
func Banks() []Bank {
	return []Bank{BankBBVA, BankBanamex, BankHSBC, BankLiverpool, BankVWLeasing}
}

func (b Bank) String() string {
	if name, ok := bankNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bank(%d)", int(b))
}

func (b Bank) IsValid() bool {
	_, ok := bankNames[b]
	return ok
}

// ParseBank accepts the display name ("VW Leasing") or the member name
// ("VW_LEASING"). Both are matched exactly.
func ParseBank(s string) (Bank, error) {
	for _, b := range Banks() {
		if bankNames[b] == s || bankKeys[b] == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBank, s)
}

func (b Bank) MarshalText() ([]byte, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBank, int(b))
	}
	return []byte(bankNames[b]), nil
}

func (b *Bank) UnmarshalText(text []byte) error {
	v, err := ParseBank(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (c Currency) String() string {
	if name, ok := currencyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Currency(%d)", int(c))
}

func (c Currency) IsValid() bool {
	_, ok := currencyNames[c]
	return ok
}

// ParseCurrency matches the currency code exactly. Codes and member
// names coincide.
func ParseCurrency(s string) (Currency, error) {
	for c, name := range currencyNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
}

func (c Currency) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurrency, int(c))
	}
	return []byte(currencyNames[c]), nil
}

func (c *Currency) UnmarshalText(text []byte) error {
	v, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Validate checks the fields a credit line cannot roll forward without.
func (c Credit) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Bank.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownBank, int(c.Bank))
	}
	if !c.Currency.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownCurrency, int(c.Currency))
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return fmt.Errorf("%w: %d", ErrInvalidClosingDay, c.ClosingDay)
	}
	return nil
}
