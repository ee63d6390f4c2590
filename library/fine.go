package library

import (
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is the calendar-date format used in the data file and on
// screen (DD.MM.YYYY, inherited from the legacy records).
const dateLayout = "02.01.2006"

func todayString() string { return time.Now().Format(dateLayout) }

// paidEpsilon is the residue below which a fine counts as settled.
var paidEpsilon = decimal.RequireFromString("0.01")

// Fine is a single monetary penalty attached to a loan.
type Fine struct {
	Amount      decimal.Decimal
	Reason      string
	DateImposed string
	Paid        bool
}

// NewFine creates an unpaid fine dated today.
func NewFine(amount decimal.Decimal, reason string) *Fine {
	return &Fine{Amount: amount, Reason: reason, DateImposed: todayString()}
}

// Reduce lowers the fine by amount, for instance on a partial payment.
// Non-positive amounts and amounts above the current balance are
// silently ignored; the caller bounds what it passes. A residue below
// 0.01 clamps to zero and settles the fine.
func (f *Fine) Reduce(amount decimal.Decimal) {
	if !amount.IsPositive() || amount.GreaterThan(f.Amount) {
		return
	}
	f.Amount = f.Amount.Sub(amount)
	if f.Amount.LessThan(paidEpsilon) {
		f.Amount = decimal.Zero
		f.MarkPaid()
	}
}

// MarkPaid flags the fine as settled. It does not touch the amount;
// Reduce zeroes it when a payment clears the fine.
func (f *Fine) MarkPaid() { f.Paid = true }
