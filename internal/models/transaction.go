package models

// Transaction is a single ledger entry against one account. Amount is
// signed cents with the asset/liability semantics already resolved.
// PreviousAmount and NewAmount snapshot the account balance around this
// entry at write time and are never recomputed; for every stored row
// NewAmount-PreviousAmount == Amount.
type Transaction struct {
	ID             int64           `json:"id"`
	AccountID      int64           `json:"account_id"`
	Amount         int64           `json:"transaction_amount"`
	Kind           TransactionKind `json:"transaction_type"`
	NeedCategory   NeedCategory    `json:"need_category"`
	WantCategory   WantCategory    `json:"want_category"`
	PreviousAmount int64           `json:"previous_amount"`
	NewAmount      int64           `json:"new_amount"`
	Date           int64           `json:"transaction_date"`
	Name           string          `json:"transaction_name"`
	Note           string          `json:"note"`
}

// Category returns the stored category string for Need and Want
// transactions and the empty string for every other kind, which is
// persisted as NULL.
func (t *Transaction) Category() string {
	switch t.Kind {
	case Need:
		return t.NeedCategory.String()
	case Want:
		return t.WantCategory.String()
	default:
		return ""
	}
}

// SetCategory decodes a stored category string onto the field matching the
// transaction's kind; the other field stays at its default.
func (t *Transaction) SetCategory(s string) {
	switch t.Kind {
	case Need:
		t.NeedCategory = ParseNeedCategory(s)
	case Want:
		t.WantCategory = ParseWantCategory(s)
	}
}
