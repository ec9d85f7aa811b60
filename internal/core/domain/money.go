package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const SavingsLockPeriod = 7 * 24 * time.Hour

// Bounds on accepted amounts. Anything finer than MaxAmountScale decimal
// places or with more than MaxAmountDigits integer digits is malformed.
const (
	MaxAmountScale  = 8
	MaxAmountDigits = 12
	centPlaces      = 2
)

// WeeklyInterestRate is the projected weekly growth of a savings balance.
var WeeklyInterestRate = decimal.RequireFromString("0.05")

// ParseAmount reads a decimal amount from form input. Malformed input is
// treated as zero on purpose: a bad amount field must not fail the whole
// request, and every ledger operation rejects or ignores a zero amount.
// Accepted amounts are rounded to cents.
func ParseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	// Checked on exponent and digit count only. Arithmetic on an
	// out-of-range exponent rescales to it.
	exp := int64(d.Exponent())
	if exp < -MaxAmountScale || int64(d.NumDigits())+exp > MaxAmountDigits {
		return decimal.Zero
	}
	return d.Round(centPlaces)
}

// ProjectSavings returns savings grown by one week of interest. It is a
// display value only and never written back.
func ProjectSavings(savings decimal.Decimal) decimal.Decimal {
	return savings.Mul(decimal.NewFromInt(1).Add(WeeklyInterestRate))
}

// InterestRatePercent is WeeklyInterestRate as a percentage for display.
func InterestRatePercent() decimal.Decimal {
	return WeeklyInterestRate.Mul(decimal.NewFromInt(100))
}
