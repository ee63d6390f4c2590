package library

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/sirupsen/logrus"
)

// LibrarySystem owns the catalog and user list and orchestrates the
// session lifecycle: load on construction, reconcile overdue fines,
// then save on shutdown. One session is active at a time; nothing here
// is safe for concurrent use and nothing needs to be.
type LibrarySystem struct {
	State

	path string
	log  *logrus.Logger
}

// NewLibrarySystem loads the data file at path, seeding a starter
// dataset when the file does not exist yet, and runs the overdue
// reconciliation pass.
func NewLibrarySystem(path string, log *logrus.Logger) (*LibrarySystem, error) {
	sys := &LibrarySystem{
		State: State{Catalog: &Catalog{}},
		path:  path,
		log:   log,
	}

	st, err := LoadState(path, log)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		sys.seed()
	case err != nil:
		return nil, err
	default:
		sys.State = *st
		log.WithFields(logrus.Fields{
			"books": len(sys.Catalog.Books),
			"users": len(sys.Users),
		}).Debug("loaded library state")
	}

	if added := sys.ReconcileOverdues(); added > 0 {
		log.WithField("fines", added).Info("assessed overdue fines on reload")
	}
	return sys, nil
}

// Save rewrites the data file.
func (s *LibrarySystem) Save() error {
	return SaveState(s.path, &s.State)
}

// Login finds the user matching both credentials exactly. Linear scan,
// plain string comparison, ErrAuthFailure on miss.
func (s *LibrarySystem) Login(login, password string) (User, error) {
	for _, u := range s.Users {
		if u.Login() == login && u.CheckPassword(password) {
			return u, nil
		}
	}
	return nil, ErrAuthFailure
}

// ReconcileOverdues assesses the 14-day fine for every open loan that
// does not already carry an unpaid fine with that reason, so repeated
// restarts never double-charge. The one-month tier is assessed only at
// return time; that asymmetry is inherited behavior and kept as is.
// Returns the number of fines added.
func (s *LibrarySystem) ReconcileOverdues() int {
	added := 0
	for _, p := range s.Patrons() {
		for _, loan := range p.Loans {
			if loan.OverdueDays(LoanPeriodDays) == 0 || loan.HasUnpaidFine(ReasonOverdue14) {
				continue
			}
			f := NewFine(loan.OverdueFine(), ReasonOverdue14)
			loan.AddFine(f)
			p.FineBalance = p.FineBalance.Add(f.Amount)
			added++
			s.log.WithFields(logrus.Fields{
				"patron": p.Email,
				"title":  loan.BookTitle,
				"amount": f.Amount.String(),
			}).Debug("assessed overdue fine")
		}
	}
	return added
}

// AddBook registers a new copy with an auto-assigned identifier.
func (s *LibrarySystem) AddBook(title, author string) (*Book, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if strings.TrimSpace(author) == "" {
		return nil, &ValidationError{Field: "author", Message: "must not be empty"}
	}
	return s.Catalog.Add(title, author), nil
}

// RegisterPatron validates and adds a new patron account.
func (s *LibrarySystem) RegisterPatron(first, last, email, phone, password string) (*Patron, error) {
	p, err := NewPatron(first, last, email, phone, password)
	if err != nil {
		return nil, err
	}
	s.Users = append(s.Users, p)
	s.log.WithField("email", p.Email).Info("registered patron")
	return p, nil
}

// seed fills a brand-new installation with a default librarian, a
// sample patron, and a starter catalog.
func (s *LibrarySystem) seed() {
	s.Users = append(s.Users, &Librarian{LoginName: "admin@library.local", Password: "admin"})

	if p, err := NewPatron("Alice", "Smith", "alice@example.com", "5550100", "alice"); err == nil {
		s.Users = append(s.Users, p)
	}

	starter := []struct{ title, author string }{
		{"1984", "George Orwell"},
		{"Animal Farm", "George Orwell"},
		{"The Art of War", "Sun Tzu"},
		{"The Fellowship of the Ring", "J.R.R. Tolkien"},
		{"The Two Towers", "J.R.R. Tolkien"},
		{"The Return of the King", "J.R.R. Tolkien"},
		{"Romeo and Juliet", "William Shakespeare"},
		{"The Three Musketeers", "Alexandre Dumas"},
		{"Pride and Prejudice", "Jane Austen"},
		{"Crime and Punishment", "Fyodor Dostoevsky"},
	}
	for _, b := range starter {
		s.Catalog.Add(b.title, b.author)
	}
	s.log.Info("no data file found, seeded starter catalog")
}
