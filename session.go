package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"library-system/library"
)

// prompt reads one trimmed line, reporting ErrInputClosed at EOF.
func prompt(sc *bufio.Scanner, label string) (string, error) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", library.ErrInputClosed
	}
	return strings.TrimSpace(sc.Text()), nil
}

// readPassword masks input when stdin is a terminal and falls back to
// a plain prompt otherwise (piped input).
func readPassword(sc *bufio.Scanner, label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return prompt(sc, label)
	}
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(b)), nil
}

// runSession drives the login/logout loop until the user declines to
// log in again or input closes. The caller saves state on the way out.
func runSession(sys *library.LibrarySystem) {
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("\n=== LIBRARY SYSTEM ===")
		user, err := loginOnce(sc, sys)
		if errors.Is(err, library.ErrInputClosed) {
			return
		}
		if err != nil {
			fmt.Println("Invalid login or password.")
			continue
		}

		fmt.Printf("Logged in as %s (%s)\n", user.Login(), user.Role())
		switch u := user.(type) {
		case *library.Librarian:
			librarianMenu(sc, sys)
		case *library.Patron:
			patronMenu(sc, sys, u)
		}

		answer, err := prompt(sc, "Log in again? (y/n): ")
		if err != nil || !strings.EqualFold(answer, "y") {
			fmt.Println("Goodbye!")
			return
		}
	}
}

func loginOnce(sc *bufio.Scanner, sys *library.LibrarySystem) (library.User, error) {
	login, err := prompt(sc, "Login (email): ")
	if err != nil {
		return nil, err
	}
	password, err := readPassword(sc, "Password: ")
	if err != nil {
		return nil, err
	}
	return sys.Login(login, password)
}
