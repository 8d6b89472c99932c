package library

import (
	"fmt"
	"io"
	"strings"
)

// View titles per tab, as shown in the dashboard header.
var tabTitles = map[string]string{
	TabDashboard: "Overview",
	TabBooks:     "Catalogue",
	TabLoans:     "Loan Management",
	TabClients:   "Client List",
	TabUsers:     "Staff Access",
}

// RenderNav writes the brand line, the navigation entries for the session's
// role and the signed-in identity.
func RenderNav(w io.Writer, snap Snapshot) {
	fmt.Fprintln(w, "BIBLIO.SYSTEM")
	var entries []string
	for _, tab := range snap.Tabs() {
		if tab == snap.ActiveTab {
			entries = append(entries, "["+tab+"]")
		} else {
			entries = append(entries, tab)
		}
	}
	fmt.Fprintln(w, strings.Join(entries, "  "))
	if snap.Session != nil {
		fmt.Fprintf(w, "signed in as %s (%s)\n", snap.Session.Username, snap.Session.Role)
	}
}

// Render writes the active view.
func Render(w io.Writer, snap Snapshot) {
	fmt.Fprintf(w, "== %s ==\n", tabTitles[snap.ActiveTab])
	switch snap.ActiveTab {
	case TabDashboard:
		renderDashboard(w, snap)
	case TabBooks:
		renderBooks(w, snap)
	case TabLoans:
		renderLoans(w, snap)
	case TabClients:
		renderClients(w, snap)
	case TabUsers:
		renderUsers(w, snap)
	}
}

func renderDashboard(w io.Writer, snap Snapshot) {
	fmt.Fprintf(w, "%-20s %d\n", "BOOKS IN STOCK", snap.TotalStock())
	fmt.Fprintf(w, "%-20s %d\n", "ACTIVE LOANS", snap.ActiveLoanCount())
	fmt.Fprintf(w, "%-20s %d\n", "CLIENTS", len(snap.Clients))
}

func renderBooks(w io.Writer, snap Snapshot) {
	if len(snap.Books) == 0 {
		fmt.Fprintln(w, "No books in catalogue.")
		return
	}
	fmt.Fprintf(w, "%-5s %-30s %-25s %-15s %s\n", "ID", "Title", "Author", "Category", "Available")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, b := range snap.Books {
		fmt.Fprintf(w, "%-5d %-30s %-25s %-15s %d / %d\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			truncateString(b.Category, 15),
			b.Stock, b.TotalQty)
	}
}

func renderLoans(w io.Writer, snap Snapshot) {
	if len(snap.Loans) == 0 {
		fmt.Fprintln(w, "No loans recorded.")
		return
	}
	fmt.Fprintf(w, "%-5s %-30s %-25s %-12s %-10s\n", "ID", "Book", "Client", "Date Out", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, l := range snap.Loans {
		bookTitle := ""
		if l.Book != nil {
			bookTitle = l.Book.Title
		}
		clientName := ""
		if l.Client != nil {
			clientName = l.Client.FullName
		}
		status := l.Status
		if l.Status == LoanActive {
			status = l.Status + " *" // * marks rows the return command accepts
		}
		fmt.Fprintf(w, "%-5d %-30s %-25s %-12s %-10s\n",
			l.ID,
			truncateString(bookTitle, 30),
			truncateString(clientName, 25),
			l.DateOut,
			status)
	}
}

func renderClients(w io.Writer, snap Snapshot) {
	if len(snap.Clients) == 0 {
		fmt.Fprintln(w, "No clients registered.")
		return
	}
	fmt.Fprintf(w, "%-5s %-30s %-15s %-15s %s\n", "ID", "Name", "CIN", "Phone", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, c := range snap.Clients {
		score := fmt.Sprintf("%d", c.Score)
		if !c.Eligible() {
			score += " LOW"
		}
		fmt.Fprintf(w, "%-5d %-30s %-15s %-15s %s\n",
			c.ID,
			truncateString(c.FullName, 30),
			truncateString(c.CIN, 15),
			truncateString(c.Phone, 15),
			score)
	}
}

func renderUsers(w io.Writer, snap Snapshot) {
	if len(snap.Users) == 0 {
		fmt.Fprintln(w, "No staff accounts.")
		return
	}
	fmt.Fprintf(w, "%-5s %-20s %-30s %s\n", "ID", "Username", "Email", "Role")
	fmt.Fprintln(w, strings.Repeat("-", 65))
	for _, u := range snap.Users {
		fmt.Fprintf(w, "%-5d %-20s %-30s %s\n",
			u.ID,
			truncateString(u.Username, 20),
			truncateString(u.Email, 30),
			u.Role)
	}
	if snap.EditingUser != nil {
		fmt.Fprintf(w, "editing user %d (%s)\n", snap.EditingUser.ID, snap.EditingUser.Username)
	}
}

// RenderLoanChoices lists what the loan form offers: eligible clients and
// in-stock books only.
func RenderLoanChoices(w io.Writer, snap Snapshot) {
	fmt.Fprintln(w, "Clients:")
	clients := snap.EligibleClients()
	if len(clients) == 0 {
		fmt.Fprintln(w, "  (none eligible)")
	}
	for _, c := range clients {
		fmt.Fprintf(w, "  %-5d %s\n", c.ID, truncateString(c.FullName, 40))
	}

	fmt.Fprintln(w, "Books:")
	books := snap.LoanableBooks()
	if len(books) == 0 {
		fmt.Fprintln(w, "  (none in stock)")
	}
	for _, b := range books {
		fmt.Fprintf(w, "  %-5d %s\n", b.ID, truncateString(b.Title, 40))
	}
}

// RenderHistory prints journal rows, newest first.
func RenderHistory(w io.Writer, records []ActionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No recorded actions.")
		return
	}
	fmt.Fprintf(w, "%-20s %-15s %-15s %s\n", "At", "Actor", "Action", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 75))
	for _, r := range records {
		fmt.Fprintf(w, "%-20s %-15s %-15s %s\n",
			r.At.Format("2006-01-02 15:04:05"),
			truncateString(r.Actor, 15),
			truncateString(r.Action, 15),
			r.Detail)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
