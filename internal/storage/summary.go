package storage

import "mybudget/internal/models"

// Summary aggregates a set of transactions: money in (sum of positive
// amounts), money out (sum of magnitudes of negative amounts), and the
// difference floored at zero. All values are cents. Summaries are derived
// on demand and never persisted.
type Summary struct {
	MoneyIn        int64 `json:"money_in"`
	MoneyOut       int64 `json:"money_out"`
	MoneyRemaining int64 `json:"money_remaining"`
}

// Summarize aggregates any transaction list; it is not tied to storage.
func Summarize(transactions []models.Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		if t.Amount > 0 {
			s.MoneyIn += t.Amount
		} else {
			s.MoneyOut += -t.Amount
		}
	}
	if s.MoneyIn > s.MoneyOut {
		s.MoneyRemaining = s.MoneyIn - s.MoneyOut
	}
	return s
}
