package main

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"library-system/library"
)

func patronMenu(sc *bufio.Scanner, sys *library.LibrarySystem, p *library.Patron) {
	for {
		fmt.Printf("\n=== PATRON MENU (%s %s) ===\n", p.FirstName, p.LastName)
		fmt.Println("1. My loans")
		fmt.Println("2. My fines")
		fmt.Println("3. Pay a fine")
		fmt.Println("4. Check out a book")
		fmt.Println("5. Return a book")
		fmt.Println("0. Log out")

		choice, err := prompt(sc, "Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			showLoans(p)
		case "2":
			showFines(p)
		case "3":
			handlePayFine(sc, p)
		case "4":
			handleCheckout(sc, sys, p)
		case "5":
			handleReturn(sc, sys, p)
		case "0":
			fmt.Println("Logged out.")
			return
		default:
			fmt.Println("Unknown selection.")
		}
	}
}

func showLoans(p *library.Patron) {
	if len(p.Loans) == 0 {
		fmt.Println("No loan history.")
		return
	}
	fmt.Println("\n=== LOAN HISTORY ===")
	for _, l := range p.Loans {
		status := "open"
		if l.Returned {
			status = "returned"
		}
		fmt.Printf("%s (checked out %s, %s)\n", l.BookTitle, l.DateCheckedOut, status)
		if d := l.OverdueDays(library.LoanPeriodDays); d > 0 {
			fmt.Printf("  %d day(s) overdue, accrued fine %s\n", d, l.OverdueFine().StringFixed(2))
		}
		for _, f := range l.Fines {
			state := "unpaid"
			if f.Paid {
				state = "paid"
			}
			fmt.Printf("  fine %s (%s), imposed %s, %s\n", f.Amount.StringFixed(2), f.Reason, f.DateImposed, state)
		}
	}
}

func showFines(p *library.Patron) {
	fmt.Println("\n=== FINES ===")
	fmt.Printf("Outstanding balance: %s\n", p.FineBalance.StringFixed(2))
	if !p.FineBalance.IsPositive() {
		fmt.Println("No outstanding fines.")
		return
	}
	for _, l := range p.Loans {
		for _, f := range l.Fines {
			if f.Paid {
				continue
			}
			fmt.Printf("- %s: %s (%s), imposed %s\n", l.BookTitle, f.Amount.StringFixed(2), f.Reason, f.DateImposed)
		}
	}
}

func handlePayFine(sc *bufio.Scanner, p *library.Patron) {
	if !p.FineBalance.IsPositive() {
		fmt.Println("You have no fines to pay.")
		return
	}
	raw, err := prompt(sc, fmt.Sprintf("Amount to pay (max %s): ", p.FineBalance.StringFixed(2)))
	if err != nil {
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Println("Enter a valid number.")
		return
	}
	if err := p.PayFine(amount); err != nil {
		fmt.Printf("Invalid amount: %v\n", err)
		return
	}
	fmt.Printf("Paid %s. Remaining balance: %s\n", amount.StringFixed(2), p.FineBalance.StringFixed(2))
}

func handleCheckout(sc *bufio.Scanner, sys *library.LibrarySystem, p *library.Patron) {
	available := sys.Catalog.Available()
	if len(available) == 0 {
		fmt.Println("No books available for checkout.")
		return
	}
	fmt.Println("\n=== AVAILABLE BOOKS ===")
	for _, b := range available {
		fmt.Printf("- %s (%s)\n", b.Title, b.Author)
	}

	title, err := prompt(sc, "Title to check out: ")
	if err != nil {
		return
	}
	loan, err := p.CheckoutBook(sys.Catalog, title)
	switch {
	case errors.Is(err, library.ErrNotAvailable):
		fmt.Println("No available copy with that title.")
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Printf("Checked out '%s' on %s.\n", loan.BookTitle, loan.DateCheckedOut)
	}
}

func handleReturn(sc *bufio.Scanner, sys *library.LibrarySystem, p *library.Patron) {
	open := p.OpenLoans()
	if len(open) == 0 {
		fmt.Println("You have no books checked out.")
		return
	}
	fmt.Println("\n=== YOUR OPEN LOANS ===")
	for _, l := range open {
		fmt.Printf("- %s (checked out %s)\n", l.BookTitle, l.DateCheckedOut)
	}

	title, err := prompt(sc, "Title to return: ")
	if err != nil {
		return
	}
	fines, err := p.ReturnBook(sys.Catalog, title)
	switch {
	case errors.Is(err, library.ErrNoSuchOpenLoan):
		fmt.Println("You have no open loan with that title.")
	case err != nil:
		fmt.Printf("Error: %v\n", err)
	default:
		fmt.Println("Book returned.")
		for _, f := range fines {
			fmt.Printf("Assessed fine %s: %s\n", f.Amount.StringFixed(2), f.Reason)
		}
	}
}

func librarianMenu(sc *bufio.Scanner, sys *library.LibrarySystem) {
	for {
		fmt.Println("\n=== LIBRARIAN MENU ===")
		fmt.Println("1. Browse catalog")
		fmt.Println("2. Add a book")
		fmt.Println("3. Search books")
		fmt.Println("4. Register a patron")
		fmt.Println("5. List patrons")
		fmt.Println("6. Manage a patron's fines")
		fmt.Println("0. Log out")

		choice, err := prompt(sc, "Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			showCatalog(sys)
		case "2":
			handleAddBook(sc, sys)
		case "3":
			handleSearch(sc, sys)
		case "4":
			handleRegisterPatron(sc, sys)
		case "5":
			listPatrons(sys)
		case "6":
			handleManageFines(sc, sys)
		case "0":
			fmt.Println("Logged out.")
			return
		default:
			fmt.Println("Unknown selection.")
		}
	}
}

func printBook(b *library.Book) {
	status := "available"
	if b.LoanedOut {
		status = "loaned out"
	}
	fmt.Printf("%-5s %-35s %-25s %s\n", b.Identifier, b.Title, b.Author, status)
}

func showCatalog(sys *library.LibrarySystem) {
	if len(sys.Catalog.Books) == 0 {
		fmt.Println("The catalog is empty.")
		return
	}
	fmt.Println("\n=== CATALOG ===")
	for _, b := range sys.Catalog.Books {
		printBook(b)
	}
}

func handleAddBook(sc *bufio.Scanner, sys *library.LibrarySystem) {
	title, err := prompt(sc, "Title: ")
	if err != nil {
		return
	}
	author, err := prompt(sc, "Author: ")
	if err != nil {
		return
	}
	b, err := sys.AddBook(title, author)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Book added with identifier %s.\n", b.Identifier)
}

func handleSearch(sc *bufio.Scanner, sys *library.LibrarySystem) {
	query, err := prompt(sc, "Search (title/author/identifier): ")
	if err != nil {
		return
	}
	if query == "" {
		fmt.Println("Search query must not be empty.")
		return
	}
	matches := sys.Catalog.Search(query)
	if len(matches) == 0 {
		fmt.Printf("No books match '%s'.\n", query)
		return
	}
	for _, b := range matches {
		printBook(b)
	}
}

func handleRegisterPatron(sc *bufio.Scanner, sys *library.LibrarySystem) {
	first, err := prompt(sc, "First name: ")
	if err != nil {
		return
	}
	last, err := prompt(sc, "Last name: ")
	if err != nil {
		return
	}
	email, err := prompt(sc, "Email: ")
	if err != nil {
		return
	}
	phone, err := prompt(sc, "Phone (digits only): ")
	if err != nil {
		return
	}
	password, err := readPassword(sc, "Password: ")
	if err != nil {
		return
	}

	p, err := sys.RegisterPatron(first, last, email, phone, password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Registered %s %s (login %s).\n", p.FirstName, p.LastName, p.LoginName)
}

func listPatrons(sys *library.LibrarySystem) {
	patrons := sys.Patrons()
	if len(patrons) == 0 {
		fmt.Println("No patrons registered.")
		return
	}
	fmt.Println("\n=== PATRONS ===")
	for _, p := range patrons {
		fmt.Printf("%s %s\n  Email: %s\n  Phone: %s\n  Fine balance: %s\n",
			p.FirstName, p.LastName, p.Email, p.Phone, p.FineBalance.StringFixed(2))
	}
}

func handleManageFines(sc *bufio.Scanner, sys *library.LibrarySystem) {
	email, err := prompt(sc, "Patron email: ")
	if err != nil {
		return
	}
	p := sys.FindPatron(email)
	if p == nil {
		fmt.Println("No patron with that email.")
		return
	}

	for {
		fmt.Printf("\n=== MANAGE FINES (%s %s, balance %s) ===\n",
			p.FirstName, p.LastName, p.FineBalance.StringFixed(2))
		fmt.Println("1. Impose a fine")
		fmt.Println("2. View fines")
		fmt.Println("0. Back")

		choice, err := prompt(sc, "Choice: ")
		if err != nil {
			return
		}
		switch choice {
		case "1":
			handleAdminFine(sc, p)
		case "2":
			showFines(p)
		case "0":
			return
		default:
			fmt.Println("Unknown selection.")
		}
	}
}

func handleAdminFine(sc *bufio.Scanner, p *library.Patron) {
	raw, err := prompt(sc, "Amount: ")
	if err != nil {
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Println("Enter a valid number.")
		return
	}
	reason, err := prompt(sc, "Reason: ")
	if err != nil {
		return
	}
	if err := p.AdminFine(amount, reason); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Fine imposed. New balance: %s\n", p.FineBalance.StringFixed(2))
}
