package library

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystem(t *testing.T, path string) *LibrarySystem {
	t.Helper()
	sys, err := NewLibrarySystem(path, testLogger())
	require.NoError(t, err)
	return sys
}

func TestSeedOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.dat")
	sys := newSystem(t, path)

	assert.Len(t, sys.Catalog.Books, 10)
	assert.NotEmpty(t, sys.Users)

	_, err := sys.Login("admin@library.local", "admin")
	assert.NoError(t, err, "seeded librarian can log in")
}

func TestLogin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.dat")
	sys := newSystem(t, path)

	u, err := sys.Login("admin@library.local", "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleLibrarian, u.Role())

	u, err = sys.Login("alice@example.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, RolePatron, u.Role())

	_, err = sys.Login("admin@library.local", "wrong")
	assert.ErrorIs(t, err, ErrAuthFailure)
	_, err = sys.Login("nobody@example.com", "admin")
	assert.ErrorIs(t, err, ErrAuthFailure)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.dat")
	sys := newSystem(t, path)

	p, err := sys.RegisterPatron("Jan", "Kowalski", "jan@example.com", "123456789", "secret")
	require.NoError(t, err)
	_, err = p.CheckoutBook(sys.Catalog, "1984")
	require.NoError(t, err)
	require.NoError(t, p.AdminFine(dec("2.5"), "damaged cover"))
	require.NoError(t, sys.Save())

	reloaded := newSystem(t, path)
	got := reloaded.FindPatron("jan@example.com")
	require.NotNil(t, got)
	assert.Equal(t, "Jan", got.FirstName)
	assert.True(t, got.FineBalance.Equal(dec("2.5")))
	require.Len(t, got.Loans, 1)
	assert.Equal(t, "1984", got.Loans[0].BookTitle)

	book := reloaded.Catalog.FindByTitle("1984")
	require.NotNil(t, book)
	assert.True(t, book.LoanedOut)
}

// Two reloads with no time in between must not double the overdue fine.
func TestReconcileIsIdempotentAcrossReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.dat")
	sys := newSystem(t, path)

	p, err := sys.RegisterPatron("Jan", "Kowalski", "jan@example.com", "123456789", "secret")
	require.NoError(t, err)
	loan, err := p.CheckoutBook(sys.Catalog, "1984")
	require.NoError(t, err)
	loan.CheckedOutAt = time.Now().Add(-20*24*time.Hour - time.Minute)
	require.NoError(t, sys.Save())

	first := newSystem(t, path)
	got := first.FindPatron("jan@example.com")
	require.Len(t, got.Loans[0].Fines, 1)
	assert.Equal(t, ReasonOverdue14, got.Loans[0].Fines[0].Reason)
	assert.True(t, got.FineBalance.Equal(dec("6")))
	require.NoError(t, first.Save())

	second := newSystem(t, path)
	got = second.FindPatron("jan@example.com")
	assert.Len(t, got.Loans[0].Fines, 1, "reload must not add a second fine")
	assert.True(t, got.FineBalance.Equal(dec("6")))
	assert.True(t, got.FineBalance.Equal(got.UnpaidTotal()))
}

// The reconciliation pass applies the 14-day tier only; the one-month
// tier is assessed at return time.
func TestReconcileSkipsMonthTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.dat")
	sys := newSystem(t, path)

	p, err := sys.RegisterPatron("Jan", "Kowalski", "jan@example.com", "123456789", "secret")
	require.NoError(t, err)
	loan, err := p.CheckoutBook(sys.Catalog, "1984")
	require.NoError(t, err)
	loan.CheckedOutAt = time.Now().Add(-40*24*time.Hour - time.Minute)
	require.NoError(t, sys.Save())

	reloaded := newSystem(t, path)
	got := reloaded.FindPatron("jan@example.com")
	require.Len(t, got.Loans[0].Fines, 1)
	assert.Equal(t, ReasonOverdue14, got.Loans[0].Fines[0].Reason)
	assert.True(t, got.Loans[0].Fines[0].Amount.Equal(dec("26")))
	assert.True(t, got.FineBalance.Equal(dec("26")))
}

func TestReconcileSkipsReturnedAndCurrentLoans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.dat")
	sys := newSystem(t, path)

	p, err := sys.RegisterPatron("Jan", "Kowalski", "jan@example.com", "123456789", "secret")
	require.NoError(t, err)

	_, err = p.CheckoutBook(sys.Catalog, "1984")
	require.NoError(t, err)

	late, err := p.CheckoutBook(sys.Catalog, "Animal Farm")
	require.NoError(t, err)
	late.CheckedOutAt = time.Now().Add(-20*24*time.Hour - time.Minute)
	_, err = p.ReturnBook(sys.Catalog, "Animal Farm")
	require.NoError(t, err)
	require.NoError(t, p.PayFine(dec("6")))
	require.NoError(t, sys.Save())

	reloaded := newSystem(t, path)
	got := reloaded.FindPatron("jan@example.com")
	assert.True(t, got.FineBalance.IsZero())
	assert.Empty(t, got.Loans[0].Fines, "current loan accrues nothing")
	assert.Len(t, got.Loans[1].Fines, 1, "returned loan is not re-fined")
}

func TestAddBookValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.dat")
	sys := newSystem(t, path)

	_, err := sys.AddBook(" ", "Author")
	assert.True(t, IsValidation(err))
	_, err = sys.AddBook("Title", "")
	assert.True(t, IsValidation(err))

	b, err := sys.AddBook("Solaris", "Stanislaw Lem")
	require.NoError(t, err)
	assert.Equal(t, "11", b.Identifier, "ten seeded books, next id is 11")
}
