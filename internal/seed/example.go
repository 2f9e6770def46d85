// Package seed provides the example dataset written by tarjetas-seed.
package seed

import "tarjetas/internal/core"

func date(y, m, d int) core.Date { return core.NewDate(y, m, d) }

func payment(d core.Date, cents int64, proof string) core.Payment {
	return core.Payment{PaymentDate: d, Amount: core.Cents(cents), ProofOfPayment: proof}
}

func statement(month, year int, closing, due core.Date, min1, min2, full int64, payments ...core.Payment) core.Statement {
	s := core.Statement{
		Month:               month,
		Year:                year,
		ClosingDate:         closing,
		DueDate:             due,
		RequiredMinPayment1: core.Cents(min1),
		RequiredMinPayment2: core.Cents(min2),
		RequiredFullPayment: core.Cents(full),
		Payments:            append([]core.Payment{}, payments...),
	}
	s.Recompute()
	return s
}

// Example returns five credit lines with the May and June 2023
// statements already filled in and recomputed.
func Example() []core.Credit {
	return []core.Credit{
		{
			Name: "BBVA Azul", Bank: core.BankBBVA, ClosingDay: 23, DueDays: 20, Currency: core.CurrencyMXN,
			Statements: []core.Statement{
				statement(5, 2023, date(2023, 5, 22), date(2023, 6, 12), 719251, 2571942, 11065415,
					payment(date(2023, 5, 31), 2571942, "BBVA m05 PP 1 de 2 2023-05-31.jpg"),
					payment(date(2023, 6, 10), 8493473, "BBVA m05 PP 2 de 2 2023-06-10.pdf")),
				statement(6, 2023, date(2023, 6, 22), date(2023, 7, 12), 528000, 697800, 1742565,
					payment(date(2023, 6, 27), 1742565, "BBVA m06 PPNGI 2023-06-27.pdf")),
			},
		},
		{
			Name: "Banamex Costco", Bank: core.BankBanamex, ClosingDay: 13, DueDays: 20, Currency: core.CurrencyMXN,
			Statements: []core.Statement{
				statement(5, 2023, date(2023, 5, 13), date(2023, 6, 2), 250000, 1968855, 11167676,
					payment(date(2023, 5, 31), 1968855, "Banamex m05 PP 1 de 3 2023-05-31.pdf"),
					payment(date(2023, 6, 10), 3500000, "Banamex m05 PP 2 de 3 2023-06-10.pdf")),
				statement(6, 2023, date(2023, 6, 13), date(2023, 7, 3), 789000, 1622009, 7315362,
					payment(date(2023, 7, 3), 5800000, "Banamex m06 PP 1 de 2 2023-07-03.pdf"),
					payment(date(2023, 7, 6), 1515362, "Banamex m06 PP 2 de 2 2023-07-06.pdf")),
			},
		},
		{
			Name: "HSBC Viva", Bank: core.BankHSBC, ClosingDay: 19, DueDays: 20, Currency: core.CurrencyMXN,
			Statements: []core.Statement{
				statement(5, 2023, date(2023, 5, 19), date(2023, 6, 10), 93750, 492690, 2546076,
					payment(date(2023, 6, 1), 2546076, "HSBC m05 PPNGI 2023-06-01.jpeg")),
				statement(6, 2023, date(2023, 6, 19), date(2023, 7, 9), 93750, 537033, 2176203,
					payment(date(2023, 6, 27), 2176203, "HSBC m06 PPNGI 2023-06-27.pdf")),
			},
		},
		{
			Name: "Liverpool PP", Bank: core.BankLiverpool, ClosingDay: 20, DueDays: 30, Currency: core.CurrencyMXN,
			Statements: []core.Statement{
				statement(5, 2023, date(2023, 5, 11), date(2023, 6, 11), 2, 2, 2,
					payment(date(2023, 5, 31), 2, "Liverpool m05 PPNGI 2023-05-31.pdf")),
				statement(6, 2023, date(2023, 6, 11), date(2023, 7, 11), 0, 0, 0),
			},
		},
		{
			Name: "VW Tiguan 2023", Bank: core.BankVWLeasing, ClosingDay: 1, DueDays: 15, Currency: core.CurrencyMXN,
			Statements: []core.Statement{
				statement(6, 2023, date(2023, 6, 1), date(2023, 6, 16), 1154846, 1154846, 1154846,
					payment(date(2023, 6, 16), 1154846, "VW m06 statement")),
			},
		},
	}
}
