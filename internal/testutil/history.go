package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/scadenziario/internal/model"
)

// History builds a payment history for one company with a fluent API.
//
//	txns := testutil.NewHistory("LNC").
//		Monthly("PAGAMENTO F24", "2024-01-16", 4, 450).
//		Quarterly("ENEL ENERGIA", "2024-01-05", 3, 310).
//		Build()
type History struct {
	company string
	txns    []model.Transaction
}

// NewHistory starts an empty history for company.
func NewHistory(company string) *History {
	return &History{company: company}
}

// Monthly adds n outflows one calendar month apart, starting on first.
func (h *History) Monthly(description, first string, n int, amount float64) *History {
	return h.every(description, first, n, 1, amount)
}

// Quarterly adds n outflows three calendar months apart.
func (h *History) Quarterly(description, first string, n int, amount float64) *History {
	return h.every(description, first, n, 3, amount)
}

// Annual adds n outflows one year apart.
func (h *History) Annual(description, first string, n int, amount float64) *History {
	return h.every(description, first, n, 12, amount)
}

// Outflow adds a single payment.
func (h *History) Outflow(description, date string, amount float64) *History {
	h.add(description, date, 0, amount)
	return h
}

// Inflow adds a single receipt.
func (h *History) Inflow(description, date string, amount float64) *History {
	h.add(description, date, amount, 0)
	return h
}

// Build returns the movements in insertion order.
func (h *History) Build() []model.Transaction {
	return append([]model.Transaction(nil), h.txns...)
}

func (h *History) every(description, first string, n, months int, amount float64) *History {
	start, err := time.Parse(model.DateLayout, first)
	if err != nil {
		panic(fmt.Sprintf("testutil: bad date %q: %v", first, err))
	}
	for i := 0; i < n; i++ {
		h.add(description, start.AddDate(0, i*months, 0).Format(model.DateLayout), 0, amount)
	}
	return h
}

func (h *History) add(description, date string, inflow, outflow float64) {
	h.txns = append(h.txns, model.Transaction{
		ID:          fmt.Sprintf("%s-%03d", h.company, len(h.txns)+1),
		Company:     h.company,
		Date:        date,
		Description: description,
		Inflow:      inflow,
		Outflow:     outflow,
	})
}
