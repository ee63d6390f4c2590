package library

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Fine reasons written into the ledger. ReconcileOverdues matches on
// ReasonOverdue14 verbatim to stay idempotent across reloads, so these
// strings are part of the persisted contract.
const (
	ReasonOverdue14    = "held past 14 days"
	ReasonOverdueMonth = "held past one month"

	// AdminLoanTitle names the synthetic loan that holds administrative
	// fines for patrons without an open loan.
	AdminLoanTitle = "Administrative fine"
)

// Patron is a registered reader: personal data, credentials, the full
// loan history, and the running balance of unpaid fines.
//
// FineBalance always equals the sum of unpaid fine amounts across all
// loans. Every operation that adds, reduces, or pays a fine adjusts it
// in the same step.
type Patron struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	LoginName   string
	Password    string
	Loans       []*Loan
	FineBalance decimal.Decimal
}

// NewPatron validates the registration fields and builds a patron.
// The email doubles as the login.
func NewPatron(first, last, email, phone, password string) (*Patron, error) {
	switch {
	case strings.TrimSpace(first) == "":
		return nil, &ValidationError{Field: "firstName", Message: "must not be empty"}
	case strings.TrimSpace(last) == "":
		return nil, &ValidationError{Field: "lastName", Message: "must not be empty"}
	case !strings.Contains(email, "@"):
		return nil, &ValidationError{Field: "email", Message: "must contain '@'"}
	case !digitsOnly(phone):
		return nil, &ValidationError{Field: "phone", Message: "must be digits only"}
	case password == "":
		return nil, &ValidationError{Field: "password", Message: "must not be empty"}
	}
	return &Patron{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
		LoginName: email,
		Password:  password,
	}, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *Patron) Login() string { return p.LoginName }
func (p *Patron) Role() Role    { return RolePatron }

// CheckPassword compares verbatim, same as Librarian.
func (p *Patron) CheckPassword(password string) bool {
	return p.Password == password
}

// AddLoan appends to the patron's history.
func (p *Patron) AddLoan(l *Loan) { p.Loans = append(p.Loans, l) }

// OpenLoans lists the loans not yet returned, in checkout order.
func (p *Patron) OpenLoans() []*Loan {
	var out []*Loan
	for _, l := range p.Loans {
		if !l.Returned {
			out = append(out, l)
		}
	}
	return out
}

func (p *Patron) firstOpenLoan() *Loan {
	for _, l := range p.Loans {
		if !l.Returned {
			return l
		}
	}
	return nil
}

// UnpaidTotal sums the unpaid fine amounts across all loans. It must
// equal FineBalance at all times.
func (p *Patron) UnpaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Loans {
		for _, f := range l.Fines {
			if !f.Paid {
				total = total.Add(f.Amount)
			}
		}
	}
	return total
}

// CheckoutBook loans the first available copy with the exact title to
// this patron, marking the catalog entry loaned out.
func (p *Patron) CheckoutBook(catalog *Catalog, title string) (*Loan, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title", Message: "must not be empty"}
	}
	book := catalog.FindAvailable(title)
	if book == nil {
		return nil, ErrNotAvailable
	}
	book.LoanedOut = true
	loan := NewLoan(book.Title)
	p.AddLoan(loan)
	return loan, nil
}

// ReturnBook closes the patron's first open loan for the exact title.
// It assesses the 14-day overdue fine and, independently, the one-month
// fine when more than 30 days have elapsed since checkout; both can
// land on the same return. The first catalog copy with the title is
// freed. The assessed fines are returned for display.
func (p *Patron) ReturnBook(catalog *Catalog, title string) ([]*Fine, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title", Message: "must not be empty"}
	}

	var loan *Loan
	for _, l := range p.Loans {
		if !l.Returned && l.BookTitle == title {
			loan = l
			break
		}
	}
	if loan == nil {
		return nil, ErrNoSuchOpenLoan
	}

	var assessed []*Fine
	if loan.OverdueDays(LoanPeriodDays) > 0 {
		f := NewFine(loan.OverdueFine(), ReasonOverdue14)
		loan.AddFine(f)
		p.FineBalance = p.FineBalance.Add(f.Amount)
		assessed = append(assessed, f)
	}
	if elapsed := loan.ElapsedDays(); elapsed > MonthThresholdDays {
		amount := DailyFineRate.Mul(decimal.NewFromInt(int64(elapsed - MonthThresholdDays)))
		f := NewFine(amount, ReasonOverdueMonth)
		loan.AddFine(f)
		p.FineBalance = p.FineBalance.Add(f.Amount)
		assessed = append(assessed, f)
	}

	loan.MarkReturned()
	if book := catalog.FindByTitle(title); book != nil {
		book.LoanedOut = false
	}
	return assessed, nil
}

// PayFine applies amount to the unpaid fines in loan order, oldest
// first, until it is used up. Amounts that are non-positive or exceed
// the balance are rejected with no state change.
func (p *Patron) PayFine(amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(p.FineBalance) {
		return &ValidationError{Field: "amount", Message: "must be positive and no more than the fine balance"}
	}
	remaining := amount
	for _, loan := range p.Loans {
		for _, f := range loan.Fines {
			if f.Paid || !remaining.IsPositive() {
				continue
			}
			pay := decimal.Min(f.Amount, remaining)
			f.Reduce(pay)
			remaining = remaining.Sub(pay)
			p.FineBalance = p.FineBalance.Sub(pay)
		}
	}
	return nil
}

// AdminFine imposes a fine outside the overdue tiers. It attaches to
// the patron's first open loan; with none open it goes on a synthetic
// "Administrative fine" loan created to hold it.
func (p *Patron) AdminFine(amount decimal.Decimal, reason string) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be positive"}
	}
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Message: "must not be empty"}
	}
	loan := p.firstOpenLoan()
	if loan == nil {
		loan = NewLoan(AdminLoanTitle)
		p.AddLoan(loan)
	}
	loan.AddFine(NewFine(amount, reason))
	p.FineBalance = p.FineBalance.Add(amount)
	return nil
}
