package models

import "encoding/json"

// AccountKind classifies an account. The string form is the storage and API
// encoding; anything unrecognized decodes to Checking.
type AccountKind int

const (
	Checking AccountKind = iota
	Savings
	Investments
	CreditCard
	Loan
	Mortgage
	OtherAccount
)

var accountKindNames = map[AccountKind]string{
	Checking:     "Checking",
	Savings:      "Savings",
	Investments:  "Investments",
	CreditCard:   "Credit Card",
	Loan:         "Loan",
	Mortgage:     "Mortgage",
	OtherAccount: "Other",
}

// String returns the wire encoding of the kind.
func (k AccountKind) String() string {
	if s, ok := accountKindNames[k]; ok {
		return s
	}
	return "Checking"
}

// ParseAccountKind decodes a stored kind string. Unknown strings fall back
// to Checking, unlike the transaction enums which fall back to Other.
func ParseAccountKind(s string) AccountKind {
	for k, name := range accountKindNames {
		if name == s {
			return k
		}
	}
	return Checking
}

// IsAsset reports the default asset/liability classification for the kind.
// Callers may override it per account.
func (k AccountKind) IsAsset() bool {
	return k == Checking || k == Savings || k == Investments
}

func (k AccountKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *AccountKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseAccountKind(s)
	return nil
}

// TransactionKind classifies a transaction.
type TransactionKind int

const (
	Need TransactionKind = iota
	Want
	SavingsTransaction
	InternalTransfer
	Income
	Gift
	Dividends
	OtherTransaction
)

var transactionKindNames = map[TransactionKind]string{
	Need:               "Need",
	Want:               "Want",
	SavingsTransaction: "Savings",
	InternalTransfer:   "Internal_transfer",
	Income:             "Income",
	Gift:               "Gift",
	Dividends:          "Dividends",
	OtherTransaction:   "Other",
}

func (k TransactionKind) String() string {
	if s, ok := transactionKindNames[k]; ok {
		return s
	}
	return "Other"
}

// ParseTransactionKind decodes a stored kind string, falling back to Other.
func ParseTransactionKind(s string) TransactionKind {
	for k, name := range transactionKindNames {
		if name == s {
			return k
		}
	}
	return OtherTransaction
}

func (k TransactionKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *TransactionKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseTransactionKind(s)
	return nil
}

// NeedCategory sub-classifies Need transactions.
type NeedCategory int

const (
	NeedHousing NeedCategory = iota
	NeedFood
	NeedTransportation
	NeedUtilities
	NeedHealthcare
	NeedDebt
	NeedDependants
	NeedOther
)

var needCategoryNames = map[NeedCategory]string{
	NeedHousing:        "Housing",
	NeedFood:           "Food",
	NeedTransportation: "Transportation",
	NeedUtilities:      "Utilities",
	NeedHealthcare:     "Healthcare",
	NeedDebt:           "Debt",
	NeedDependants:     "Dependants",
	NeedOther:          "Other",
}

func (c NeedCategory) String() string {
	if s, ok := needCategoryNames[c]; ok {
		return s
	}
	return "Other"
}

// ParseNeedCategory decodes a stored category string, falling back to Other.
func ParseNeedCategory(s string) NeedCategory {
	for c, name := range needCategoryNames {
		if name == s {
			return c
		}
	}
	return NeedOther
}

func (c NeedCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *NeedCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseNeedCategory(s)
	return nil
}

// WantCategory sub-classifies Want transactions.
type WantCategory int

const (
	WantShopping WantCategory = iota
	WantEntertainment
	WantEatingOut
	WantTravel
	WantLeisure
	WantGifts
	WantOther
)

var wantCategoryNames = map[WantCategory]string{
	WantShopping:      "Shopping",
	WantEntertainment: "Entertainment",
	WantEatingOut:     "Eating_out",
	WantTravel:        "Travel",
	WantLeisure:       "Leisure",
	WantGifts:         "Gifts",
	WantOther:         "Other",
}

func (c WantCategory) String() string {
	if s, ok := wantCategoryNames[c]; ok {
		return s
	}
	return "Other"
}

// ParseWantCategory decodes a stored category string, falling back to Other.
func ParseWantCategory(s string) WantCategory {
	for c, name := range wantCategoryNames {
		if name == s {
			return c
		}
	}
	return WantOther
}

func (c WantCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *WantCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseWantCategory(s)
	return nil
}
