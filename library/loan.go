package library

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// LoanPeriodDays is the grace period before overdue fines accrue.
	LoanPeriodDays = 14
	// MonthThresholdDays is the second penalty tier, assessed only when
	// the book is actually returned.
	MonthThresholdDays = 30
)

// DailyFineRate is charged per day past a threshold.
var DailyFineRate = decimal.NewFromInt(1)

// Loan records one checkout-to-return cycle. The book is referenced by
// title only, and catalog entries are matched first-by-exact-title, so
// two copies sharing a title are indistinguishable here. That is a
// limitation of the record format, kept for compatibility.
//
// A loan is closed by MarkReturned but never deleted; it stays in the
// patron's history together with its fines.
type Loan struct {
	BookTitle      string
	DateCheckedOut string
	CheckedOutAt   time.Time
	Returned       bool
	Fines          []*Fine
}

// NewLoan opens a loan for title, checked out now.
func NewLoan(title string) *Loan {
	now := time.Now()
	return &Loan{
		BookTitle:      title,
		DateCheckedOut: now.Format(dateLayout),
		CheckedOutAt:   now,
	}
}

// ElapsedDays is the number of whole days since checkout.
func (l *Loan) ElapsedDays() int {
	return int(time.Since(l.CheckedOutAt).Seconds() / 86400)
}

// OverdueDays reports how many whole days the loan has run past
// thresholdDays. A returned loan is never overdue.
func (l *Loan) OverdueDays(thresholdDays int) int {
	if l.Returned {
		return 0
	}
	days := l.ElapsedDays() - thresholdDays
	if days < 0 {
		return 0
	}
	return days
}

// OverdueFine is the accrued penalty for the standard loan period.
func (l *Loan) OverdueFine() decimal.Decimal {
	return DailyFineRate.Mul(decimal.NewFromInt(int64(l.OverdueDays(LoanPeriodDays))))
}

// MarkReturned closes the loan. Idempotent. Assessing fines on return
// is the caller's job, see Patron.ReturnBook.
func (l *Loan) MarkReturned() { l.Returned = true }

// AddFine appends to the loan's fine list. The patron-level balance is
// not touched here; callers keep that invariant.
func (l *Loan) AddFine(f *Fine) { l.Fines = append(l.Fines, f) }

// HasUnpaidFine reports whether an unpaid fine with the given reason
// is already on record for this loan.
func (l *Loan) HasUnpaidFine(reason string) bool {
	for _, f := range l.Fines {
		if f.Reason == reason && !f.Paid {
			return true
		}
	}
	return false
}
