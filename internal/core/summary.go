package core

const (
	LabelCovered  = "Covered"
	LabelExceeded = "Exceeded"
	LabelPending  = "Pending"
)

// StatementSummary is the display form of a statement: every amount
// formatted and each payment tier classified.
type StatementSummary struct {
	Month               int    `json:"month"`
	Year                int    `json:"year"`
	ClosingDate         string `json:"closing_date"`
	DueDate             string `json:"due_date"`
	LastDatePayed       string `json:"last_date_payed,omitempty"`
	NumberOfPayments    int    `json:"number_of_payments"`
	Payed               string `json:"payed"`
	RequiredMinPayment1 string `json:"required_min_payment1"`
	RequiredMinPayment2 string `json:"required_min_payment2"`
	RequiredFullPayment string `json:"required_full_payment"`
	MinPayment1Status   string `json:"min_payment1_status"`
	MinPayment2Status   string `json:"min_payment2_status"`
	FullPaymentStatus   string `json:"full_payment_status"`
}

// PaymentStatus classifies a minimum tier: "Covered" once nothing is
// pending, otherwise "Pending <amount>".
func PaymentStatus(pending Money) string {
	if pending.Cents == 0 {
		return LabelCovered
	}
	return LabelPending + " " + pending.String()
}

// FullPaymentStatus classifies the full-payment tier. Paying exactly the
// required amount is "Covered"; only paying more is "Exceeded".
func FullPaymentStatus(s Statement) string {
	if s.Payed.Cents > s.RequiredFullPayment.Cents {
		return LabelExceeded
	}
	return PaymentStatus(s.PendingForFullPayment)
}

// Summarize renders s for display. It reads the derived fields as they
// are; call Recompute first if payments changed.
func Summarize(s Statement) StatementSummary {
	sum := StatementSummary{
		Month:               s.Month,
		Year:                s.Year,
		ClosingDate:         s.ClosingDate.String(),
		DueDate:             s.DueDate.String(),
		NumberOfPayments:    s.NumberOfPayments,
		Payed:               s.Payed.String(),
		RequiredMinPayment1: s.RequiredMinPayment1.String(),
		RequiredMinPayment2: s.RequiredMinPayment2.String(),
		RequiredFullPayment: s.RequiredFullPayment.String(),
		MinPayment1Status:   PaymentStatus(s.PendingForMinPayment1),
		MinPayment2Status:   PaymentStatus(s.PendingForMinPayment2),
		FullPaymentStatus:   FullPaymentStatus(s),
	}
	if s.LastDatePayed != nil {
		sum.LastDatePayed = s.LastDatePayed.String()
	}
	return sum
}
