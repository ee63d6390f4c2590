package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPatron(t *testing.T) *Patron {
	t.Helper()
	p, err := NewPatron("Jan", "Kowalski", "jan@example.com", "123456789", "secret")
	require.NoError(t, err)
	return p
}

func testCatalog() *Catalog {
	c := &Catalog{}
	c.Add("1984", "George Orwell")
	c.Add("Animal Farm", "George Orwell")
	return c
}

// balanceInvariant checks that the running balance equals the sum of
// unpaid fine amounts, which must hold after every operation.
func balanceInvariant(t *testing.T, p *Patron) {
	t.Helper()
	require.True(t, p.FineBalance.Equal(p.UnpaidTotal()),
		"balance %s != unpaid total %s", p.FineBalance, p.UnpaidTotal())
}

func TestNewPatronValidation(t *testing.T) {
	cases := []struct {
		name                               string
		first, last, email, phone, password string
	}{
		{"empty first", "", "K", "a@b", "123", "pw"},
		{"empty last", "J", "", "a@b", "123", "pw"},
		{"email without at", "J", "K", "nope", "123", "pw"},
		{"phone with letters", "J", "K", "a@b", "12x3", "pw"},
		{"empty phone", "J", "K", "a@b", "", "pw"},
		{"empty password", "J", "K", "a@b", "123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPatron(tc.first, tc.last, tc.email, tc.phone, tc.password)
			assert.True(t, IsValidation(err), "want validation error, got %v", err)
		})
	}

	p, err := NewPatron("Jan", "Kowalski", "jan@example.com", "123456789", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jan@example.com", p.LoginName, "email becomes the login")
}

func TestCheckoutAndSameDayReturn(t *testing.T) {
	p := testPatron(t)
	c := testCatalog()

	loan, err := p.CheckoutBook(c, "1984")
	require.NoError(t, err)
	assert.True(t, c.Books[0].LoanedOut)
	assert.False(t, loan.Returned)

	fines, err := p.ReturnBook(c, "1984")
	require.NoError(t, err)
	assert.Empty(t, fines, "same-day return accrues nothing")
	assert.True(t, p.FineBalance.IsZero())
	assert.False(t, c.Books[0].LoanedOut)
	assert.True(t, loan.Returned, "loan stays in history, closed")
	balanceInvariant(t, p)
}

func TestCheckoutNotAvailable(t *testing.T) {
	p := testPatron(t)
	c := testCatalog()

	_, err := p.CheckoutBook(c, "1984")
	require.NoError(t, err)
	_, err = p.CheckoutBook(c, "1984")
	assert.ErrorIs(t, err, ErrNotAvailable, "single copy already loaned out")
	_, err = p.CheckoutBook(c, "No Such Book")
	assert.ErrorIs(t, err, ErrNotAvailable)
	_, err = p.CheckoutBook(c, "  ")
	assert.True(t, IsValidation(err))
}

func TestReturnWithoutOpenLoan(t *testing.T) {
	p := testPatron(t)
	c := testCatalog()
	_, err := p.ReturnBook(c, "1984")
	assert.ErrorIs(t, err, ErrNoSuchOpenLoan)
}

func TestReturnAt20DaysChargesFirstTierOnly(t *testing.T) {
	p := testPatron(t)
	c := testCatalog()

	loan, err := p.CheckoutBook(c, "1984")
	require.NoError(t, err)
	loan.CheckedOutAt = time.Now().Add(-20*24*time.Hour - time.Minute)

	fines, err := p.ReturnBook(c, "1984")
	require.NoError(t, err)
	require.Len(t, fines, 1)
	assert.True(t, fines[0].Amount.Equal(dec("6")), "20-14=6 days at 1.0/day, got %s", fines[0].Amount)
	assert.Equal(t, ReasonOverdue14, fines[0].Reason)
	assert.True(t, p.FineBalance.Equal(dec("6")))
	balanceInvariant(t, p)
}

func TestReturnAt40DaysChargesBothTiers(t *testing.T) {
	p := testPatron(t)
	c := testCatalog()

	loan, err := p.CheckoutBook(c, "1984")
	require.NoError(t, err)
	loan.CheckedOutAt = time.Now().Add(-40*24*time.Hour - time.Minute)

	fines, err := p.ReturnBook(c, "1984")
	require.NoError(t, err)
	require.Len(t, fines, 2)
	assert.True(t, fines[0].Amount.Equal(dec("26")), "40-14 days at the standard tier")
	assert.Equal(t, ReasonOverdue14, fines[0].Reason)
	assert.True(t, fines[1].Amount.Equal(dec("10")), "40-30 days at the one-month tier")
	assert.Equal(t, ReasonOverdueMonth, fines[1].Reason)
	assert.True(t, p.FineBalance.Equal(dec("36")))
	assert.False(t, c.Books[0].LoanedOut)
	balanceInvariant(t, p)
}

func TestPayFineExactAmountSettlesOneFine(t *testing.T) {
	p := testPatron(t)
	require.NoError(t, p.AdminFine(dec("6"), "late notice"))
	require.NoError(t, p.AdminFine(dec("10"), "damaged cover"))
	balanceInvariant(t, p)

	require.NoError(t, p.PayFine(dec("6")))

	first := p.Loans[0].Fines[0]
	second := p.Loans[0].Fines[1]
	assert.True(t, first.Paid)
	assert.True(t, first.Amount.IsZero())
	assert.False(t, second.Paid)
	assert.True(t, second.Amount.Equal(dec("10")), "later fine untouched")
	assert.True(t, p.FineBalance.Equal(dec("10")))
	balanceInvariant(t, p)
}

func TestPayFinePartialAcrossFines(t *testing.T) {
	p := testPatron(t)
	require.NoError(t, p.AdminFine(dec("6"), "a"))
	require.NoError(t, p.AdminFine(dec("10"), "b"))

	require.NoError(t, p.PayFine(dec("8")))

	fines := p.Loans[0].Fines
	assert.True(t, fines[0].Paid)
	assert.True(t, fines[1].Amount.Equal(dec("8")), "2 paid off the second fine")
	assert.True(t, p.FineBalance.Equal(dec("8")))
	balanceInvariant(t, p)
}

func TestPayFineRejectsBadAmounts(t *testing.T) {
	p := testPatron(t)
	require.NoError(t, p.AdminFine(dec("5"), "x"))

	assert.True(t, IsValidation(p.PayFine(dec("0"))))
	assert.True(t, IsValidation(p.PayFine(dec("-1"))))
	assert.True(t, IsValidation(p.PayFine(dec("5.01"))), "over the balance")

	assert.True(t, p.FineBalance.Equal(dec("5")), "rejected payments change nothing")
	assert.False(t, p.Loans[0].Fines[0].Paid)
	balanceInvariant(t, p)
}

func TestAdminFineAttachesToOpenLoan(t *testing.T) {
	p := testPatron(t)
	c := testCatalog()
	loan, err := p.CheckoutBook(c, "1984")
	require.NoError(t, err)

	require.NoError(t, p.AdminFine(dec("3"), "noise"))
	require.Len(t, loan.Fines, 1)
	assert.Equal(t, "noise", loan.Fines[0].Reason)
	assert.True(t, p.FineBalance.Equal(dec("3")))
	balanceInvariant(t, p)
}

func TestAdminFineCreatesSyntheticLoan(t *testing.T) {
	p := testPatron(t)
	require.NoError(t, p.AdminFine(dec("3"), "lost card"))

	require.Len(t, p.Loans, 1)
	assert.Equal(t, AdminLoanTitle, p.Loans[0].BookTitle)
	assert.False(t, p.Loans[0].Returned)

	// A second administrative fine reuses the synthetic loan, which
	// counts as open.
	require.NoError(t, p.AdminFine(dec("2"), "second"))
	require.Len(t, p.Loans, 1)
	assert.Len(t, p.Loans[0].Fines, 2)
	assert.True(t, p.FineBalance.Equal(dec("5")))
	balanceInvariant(t, p)
}

func TestAdminFineValidation(t *testing.T) {
	p := testPatron(t)
	assert.True(t, IsValidation(p.AdminFine(dec("0"), "x")))
	assert.True(t, IsValidation(p.AdminFine(dec("-2"), "x")))
	assert.True(t, IsValidation(p.AdminFine(dec("2"), "  ")))
	assert.Empty(t, p.Loans)
	assert.True(t, p.FineBalance.IsZero())
}
