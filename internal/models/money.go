package models

import (
	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Compounding frequency convention: days per compounding period.
const (
	CompoundDaily    = 365
	CompoundMonthly  = 12
	CompoundAnnually = 1
)

// BalanceAfter computes the balance after a deposit or withdrawal of a
// non-negative amount in cents. For an asset a deposit increases the
// balance and a withdrawal decreases it; for a liability a payment
// (deposit) decreases the amount owed and a charge (withdrawal) increases
// it. No bounds are enforced: overdrafts and exceeded credit limits are
// allowed.
func BalanceAfter(current, amount int64, isDeposit, isAsset bool) int64 {
	if isDeposit == isAsset {
		return current + amount
	}
	return current - amount
}

var centsFactor = decimal.NewFromInt(100)

// ParseCents converts a user-entered decimal currency string to integer
// cents, rounding half away from zero. The same conversion is used on every
// path that accepts decimal input.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(centsFactor).Round(0).IntPart(), nil
}

// FormatCents renders integer cents for display, e.g. 1234 -> "$12.34".
func FormatCents(cents int64) string {
	return money.New(cents, money.USD).Display()
}
