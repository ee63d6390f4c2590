package library

import (
	"strconv"
	"strings"
)

// Book is one physical copy in the catalog.
type Book struct {
	Title      string
	Author     string
	Identifier string
	LoanedOut  bool
}

// Catalog is the ordered, identifier-unique collection of book copies.
type Catalog struct {
	Books []*Book
}

// NextIdentifier returns max(existing numeric identifiers)+1 as a
// string. Identifiers that do not parse as numbers count as zero.
func (c *Catalog) NextIdentifier() string {
	var max int64
	for _, b := range c.Books {
		if n, err := strconv.ParseInt(b.Identifier, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}

// Add registers a new copy with an auto-assigned identifier.
func (c *Catalog) Add(title, author string) *Book {
	b := &Book{Title: title, Author: author, Identifier: c.NextIdentifier()}
	c.Books = append(c.Books, b)
	return b
}

// FindAvailable returns the first free copy with the exact title, or
// nil. Matching is case-sensitive.
func (c *Catalog) FindAvailable(title string) *Book {
	for _, b := range c.Books {
		if b.Title == title && !b.LoanedOut {
			return b
		}
	}
	return nil
}

// FindByTitle returns the first copy with the exact title, loaned out
// or not, or nil.
func (c *Catalog) FindByTitle(title string) *Book {
	for _, b := range c.Books {
		if b.Title == title {
			return b
		}
	}
	return nil
}

// Available lists every copy currently free for checkout.
func (c *Catalog) Available() []*Book {
	var out []*Book
	for _, b := range c.Books {
		if !b.LoanedOut {
			out = append(out, b)
		}
	}
	return out
}

// Search matches query as a substring of title, author, or identifier.
func (c *Catalog) Search(query string) []*Book {
	var out []*Book
	for _, b := range c.Books {
		if strings.Contains(b.Title, query) ||
			strings.Contains(b.Author, query) ||
			strings.Contains(b.Identifier, query) {
			out = append(out, b)
		}
	}
	return out
}
