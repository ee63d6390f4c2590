package library

// Role selects which menu a logged-in user is offered.
type Role string

const (
	RolePatron    Role = "patron"
	RoleLibrarian Role = "librarian"
)

// User is the closed set of accounts that can log in: *Patron and
// *Librarian. Menu dispatch type-switches over these two; there is no
// third implementation.
type User interface {
	Login() string
	Role() Role
	CheckPassword(password string) bool
}

// Librarian is a staff account. Credentials only, no loan state.
type Librarian struct {
	LoginName string
	Password  string
}

func (b *Librarian) Login() string { return b.LoginName }
func (b *Librarian) Role() Role    { return RoleLibrarian }

// CheckPassword compares the stored password verbatim. The account
// file stores credentials in plain text and login is an exact string
// match on both fields; this system has no real authentication.
func (b *Librarian) CheckPassword(password string) bool {
	return b.Password == password
}
