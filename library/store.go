package library

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// The data file is line oriented with semicolon-separated fields:
//
//	BOOKS
//	<title>;<author>;<identifier>;<0|1>
//	PATRONS
//	BIB;<login>;<password>
//	<first>;<last>;<email>;<phone>;<login>;<balance>;<password>
//	W:<title>;<dateString>;<0|1>;<unixSeconds>
//	K:<amount>;<reason>;<dateString>;<0|1>
//
// W: and K: lines attach to the most recently read patron and loan.
// The record layout and prefixes are byte-compatible with the legacy
// format this system replaced; only the section markers differ.
const (
	sectionBooks   = "BOOKS"
	sectionPatrons = "PATRONS"

	librarianPrefix = "BIB;"
	loanPrefix      = "W:"
	finePrefix      = "K:"
)

// State is the complete persisted dataset.
type State struct {
	Catalog *Catalog
	Users   []User
}

// Patrons filters the user list down to patrons, in file order.
func (s *State) Patrons() []*Patron {
	var out []*Patron
	for _, u := range s.Users {
		if p, ok := u.(*Patron); ok {
			out = append(out, p)
		}
	}
	return out
}

// FindPatron returns the first patron with the exact email, or nil.
func (s *State) FindPatron(email string) *Patron {
	for _, p := range s.Patrons() {
		if p.Email == email {
			return p
		}
	}
	return nil
}

// SaveState rewrites the whole data file at path in one pass.
func SaveState(path string, st *State) error {
	var buf bytes.Buffer
	writeState(&buf, st)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	return nil
}

func writeState(w io.Writer, st *State) {
	fmt.Fprintln(w, sectionBooks)
	for _, b := range st.Catalog.Books {
		fmt.Fprintf(w, "%s;%s;%s;%s\n", b.Title, b.Author, b.Identifier, flag(b.LoanedOut))
	}
	fmt.Fprintln(w, sectionPatrons)
	for _, u := range st.Users {
		switch u := u.(type) {
		case *Librarian:
			fmt.Fprintf(w, "%s%s;%s\n", librarianPrefix, u.LoginName, u.Password)
		case *Patron:
			fmt.Fprintf(w, "%s;%s;%s;%s;%s;%s;%s\n",
				u.FirstName, u.LastName, u.Email, u.Phone,
				u.LoginName, u.FineBalance.String(), u.Password)
			for _, l := range u.Loans {
				fmt.Fprintf(w, "%s%s;%s;%s;%d\n",
					loanPrefix, l.BookTitle, l.DateCheckedOut, flag(l.Returned), l.CheckedOutAt.Unix())
				for _, f := range l.Fines {
					fmt.Fprintf(w, "%s%s;%s;%s;%s\n",
						finePrefix, f.Amount.String(), f.Reason, f.DateImposed, flag(f.Paid))
				}
			}
		}
	}
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// LoadState reads the data file at path. A missing file surfaces as an
// error (fs.ErrNotExist in the chain) so the caller can decide to
// seed; malformed fields inside an existing file are recovered with
// defaults and logged, never fatal.
func LoadState(path string, log *logrus.Logger) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readState(f, log), nil
}

func readState(r io.Reader, log *logrus.Logger) *State {
	st := &State{Catalog: &Catalog{}}
	sc := bufio.NewScanner(r)

	var section string
	var lastPatron *Patron
	var lastLoan *Loan

	for sc.Scan() {
		line := sc.Text()
		if line == sectionBooks || line == sectionPatrons {
			section = line
			continue
		}
		if line == "" {
			continue
		}

		switch section {
		case sectionBooks:
			p := fields(line, 4)
			st.Catalog.Books = append(st.Catalog.Books, &Book{
				Title:      p[0],
				Author:     p[1],
				Identifier: p[2],
				LoanedOut:  p[3] == "1",
			})

		case sectionPatrons:
			switch {
			case strings.HasPrefix(line, librarianPrefix):
				p := fields(line[len(librarianPrefix):], 2)
				st.Users = append(st.Users, &Librarian{LoginName: p[0], Password: p[1]})

			case strings.HasPrefix(line, loanPrefix):
				if lastPatron == nil {
					log.WithField("line", line).Warn("loan record before any patron, skipped")
					continue
				}
				p := fields(line[len(loanPrefix):], 4)
				loan := &Loan{
					BookTitle:      p[0],
					DateCheckedOut: p[1],
					Returned:       p[2] == "1",
					CheckedOutAt:   parseTimestamp(p[3], log),
				}
				if loan.DateCheckedOut == "" {
					loan.DateCheckedOut = todayString()
				}
				lastPatron.AddLoan(loan)
				lastLoan = loan

			case strings.HasPrefix(line, finePrefix):
				if lastLoan == nil {
					log.WithField("line", line).Warn("fine record before any loan, skipped")
					continue
				}
				p := fields(line[len(finePrefix):], 4)
				fine := &Fine{
					Amount:      parseAmount(p[0], log),
					Reason:      p[1],
					DateImposed: p[2],
					Paid:        p[3] == "1",
				}
				if fine.DateImposed == "" {
					fine.DateImposed = todayString()
				}
				lastLoan.AddFine(fine)

			default:
				p := fields(line, 7)
				patron := &Patron{
					FirstName:   p[0],
					LastName:    p[1],
					Email:       p[2],
					Phone:       p[3],
					LoginName:   p[4],
					FineBalance: parseAmount(p[5], log),
					Password:    p[6],
				}
				st.Users = append(st.Users, patron)
				lastPatron = patron
				lastLoan = nil
			}
		}
	}
	return st
}

// fields splits on semicolons and pads to n so short records load with
// empty fields instead of panicking.
func fields(s string, n int) []string {
	parts := strings.Split(s, ";")
	for len(parts) < n {
		parts = append(parts, "")
	}
	return parts
}

func parseAmount(s string, log *logrus.Logger) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.WithField("value", s).Warn("unparseable amount, defaulting to 0")
		return decimal.Zero
	}
	return d
}

func parseTimestamp(s string, log *logrus.Logger) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.WithField("value", s).Warn("unparseable timestamp, defaulting to now")
		return time.Now()
	}
	return time.Unix(n, 0)
}
