package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"tarjetas/internal/core"
	"tarjetas/internal/ledger"
)

const maxBodyBytes = 1 << 20

// pathIndex reads an integer URL parameter. Negative values are passed
// through; callers decide whether they count from the end.
func pathIndex(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errBadRequest, name, raw)
	}
	return v, nil
}

// decodeJSON reads the request body into v. Amount errors keep their
// core.ErrInvalidAmount identity so they surface as validation failures.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// amountField accepts minor units as a JSON integer or a display string
// such as "11,065.41".
type amountField struct {
	core.Money
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		cents, err := core.ParseAmount(s)
		if err != nil {
			return err
		}
		a.Money = core.Cents(cents)
		return nil
	}
	return a.Money.UnmarshalJSON(data)
}

type statementRequest struct {
	Month       int        `json:"month"`
	Year        int        `json:"year"`
	ClosingDate *core.Date `json:"closing_date"`
	// closing_sate is what older clients send.
	ClosingSate         *core.Date  `json:"closing_sate"`
	DueDate             *core.Date  `json:"due_date"`
	RequiredMinPayment1 amountField `json:"required_min_payment1"`
	RequiredMinPayment2 amountField `json:"required_min_payment2"`
	RequiredFullPayment amountField `json:"required_full_payment"`
}

func (req statementRequest) toInput() (ledger.StatementInput, error) {
	if req.Month < 1 || req.Month > 12 {
		return ledger.StatementInput{}, fmt.Errorf("%w: month %d", errInvalidInput, req.Month)
	}
	if req.Year < 1 {
		return ledger.StatementInput{}, fmt.Errorf("%w: year %d", errInvalidInput, req.Year)
	}
	closing := req.ClosingDate
	if closing == nil {
		closing = req.ClosingSate
	}
	if err := requireDate("closing_date", closing); err != nil {
		return ledger.StatementInput{}, err
	}
	if err := requireDate("due_date", req.DueDate); err != nil {
		return ledger.StatementInput{}, err
	}
	return ledger.StatementInput{
		Month:               req.Month,
		Year:                req.Year,
		ClosingDate:         *closing,
		DueDate:             *req.DueDate,
		RequiredMinPayment1: req.RequiredMinPayment1.Money,
		RequiredMinPayment2: req.RequiredMinPayment2.Money,
		RequiredFullPayment: req.RequiredFullPayment.Money,
	}, nil
}

type paymentRequest struct {
	PaymentDate    *core.Date  `json:"payment_date"`
	Amount         amountField `json:"amount"`
	ProofOfPayment string      `json:"proof_of_payment"`
}

func (req paymentRequest) toPayment() (core.Payment, error) {
	if err := requireDate("payment_date", req.PaymentDate); err != nil {
		return core.Payment{}, err
	}
	return core.Payment{
		PaymentDate:    *req.PaymentDate,
		Amount:         req.Amount.Money,
		ProofOfPayment: sanitizeInput(req.ProofOfPayment),
	}, nil
}

// requireDate rejects a date that is absent or null.
func requireDate(name string, d *core.Date) error {
	if d == nil || d.IsZero() {
		return fmt.Errorf("%w: %s is required", errInvalidInput, name)
	}
	return nil
}

// sanitizeInput drops control characters other than tab and newlines
// and trims surrounding whitespace.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
