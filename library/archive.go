package library

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Archive writes queryable SQLite snapshots of the library state for
// reporting. The flat data file stays the system of record; a snapshot
// is a full replace, not an incremental sync. Credentials are not
// exported.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (or creates) the archive database at dbPath and
// applies the schema.
func OpenArchive(dbPath string) (*Archive, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error { return a.db.Close() }

const archiveSchemaVersion = 1

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= archiveSchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            identifier TEXT NOT NULL,
            loaned_out BOOLEAN NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS patrons (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT NOT NULL,
            fine_balance TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS loans (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            patron_id INTEGER NOT NULL REFERENCES patrons(id),
            book_title TEXT NOT NULL,
            date_checked_out TEXT NOT NULL,
            checked_out_at INTEGER NOT NULL,
            returned BOOLEAN NOT NULL DEFAULT 0
        );`,
		`CREATE TABLE IF NOT EXISTS fines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            loan_id INTEGER NOT NULL REFERENCES loans(id),
            amount TEXT NOT NULL,
            reason TEXT NOT NULL,
            date_imposed TEXT NOT NULL,
            paid BOOLEAN NOT NULL DEFAULT 0
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, archiveSchemaVersion); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return tx.Commit()
}

// Snapshot replaces the archive contents with the given state in one
// transaction. Fine amounts and balances are stored as decimal strings
// so nothing rounds on the way through.
func (a *Archive) Snapshot(st *State) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"fines", "loans", "patrons", "books"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return err
		}
	}

	for _, b := range st.Catalog.Books {
		if _, err := tx.Exec(
			`INSERT INTO books(title,author,identifier,loaned_out) VALUES(?,?,?,?)`,
			b.Title, b.Author, b.Identifier, b.LoanedOut,
		); err != nil {
			return err
		}
	}

	for _, p := range st.Patrons() {
		res, err := tx.Exec(
			`INSERT INTO patrons(first_name,last_name,email,phone,fine_balance) VALUES(?,?,?,?,?)`,
			p.FirstName, p.LastName, p.Email, p.Phone, p.FineBalance.String(),
		)
		if err != nil {
			return err
		}
		patronID, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, l := range p.Loans {
			res, err := tx.Exec(
				`INSERT INTO loans(patron_id,book_title,date_checked_out,checked_out_at,returned) VALUES(?,?,?,?,?)`,
				patronID, l.BookTitle, l.DateCheckedOut, l.CheckedOutAt.Unix(), l.Returned,
			)
			if err != nil {
				return err
			}
			loanID, err := res.LastInsertId()
			if err != nil {
				return err
			}

			for _, f := range l.Fines {
				if _, err := tx.Exec(
					`INSERT INTO fines(loan_id,amount,reason,date_imposed,paid) VALUES(?,?,?,?,?)`,
					loanID, f.Amount.String(), f.Reason, f.DateImposed, f.Paid,
				); err != nil {
					return err
				}
			}
		}
	}
	return tx.Commit()
}

// Counts returns row counts per table for the exporter's summary.
func (a *Archive) Counts() (books, patrons, loans, fines int, err error) {
	for _, c := range []struct {
		table string
		dst   *int
	}{
		{"books", &books},
		{"patrons", &patrons},
		{"loans", &loans},
		{"fines", &fines},
	} {
		if err = a.db.QueryRow(`SELECT COUNT(*) FROM ` + c.table).Scan(c.dst); err != nil {
			return 0, 0, 0, 0, err
		}
	}
	return books, patrons, loans, fines, nil
}
