package library

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDashboardCountersComeFromRawSlices(t *testing.T) {
	snap := Snapshot{
		ActiveTab: TabDashboard,
		Books: []*Book{
			{ID: 1, TotalQty: 3, Stock: 1},
			{ID: 2, TotalQty: 4, Stock: 4},
		},
		Clients: []*Client{{ID: 1}, {ID: 2}, {ID: 3}},
		Loans: []*Loan{
			{ID: 1, Status: LoanActive},
			{ID: 2, Status: LoanReturned},
			{ID: 3, Status: LoanActive},
		},
	}

	if snap.TotalStock() != 7 {
		t.Fatalf("want total stock 7, got %d", snap.TotalStock())
	}
	if snap.ActiveLoanCount() != 2 {
		t.Fatalf("want 2 active loans, got %d", snap.ActiveLoanCount())
	}

	var buf bytes.Buffer
	Render(&buf, snap)
	out := buf.String()
	for _, want := range []string{"BOOKS IN STOCK", "7", "ACTIVE LOANS", "2", "CLIENTS", "3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, out)
		}
	}
}

func TestNavHidesUsersTabForStaff(t *testing.T) {
	var buf bytes.Buffer
	RenderNav(&buf, Snapshot{
		ActiveTab: TabDashboard,
		Session:   &Session{Username: "bob", Role: RoleStaff},
	})
	if strings.Contains(buf.String(), TabUsers) {
		t.Fatalf("staff navigation must not show the users tab:\n%s", buf.String())
	}

	buf.Reset()
	RenderNav(&buf, Snapshot{
		ActiveTab: TabDashboard,
		Session:   &Session{Username: "alice", Role: RoleAdmin},
	})
	if !strings.Contains(buf.String(), TabUsers) {
		t.Fatalf("admin navigation must show the users tab:\n%s", buf.String())
	}
}

func TestClientsViewMarksLowScores(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Snapshot{
		ActiveTab: TabClients,
		Clients: []*Client{
			{ID: 1, FullName: "Good Standing", Score: 80},
			{ID: 2, FullName: "Blocked", Score: 31},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "31 LOW") {
		t.Fatalf("ineligible client not marked:\n%s", out)
	}
	if strings.Contains(out, "80 LOW") {
		t.Fatalf("eligible client wrongly marked:\n%s", out)
	}
}

func TestLoanChoicesListOnlySelectableEntries(t *testing.T) {
	var buf bytes.Buffer
	RenderLoanChoices(&buf, Snapshot{
		Books: []*Book{
			{ID: 1, Title: "Available Title", Stock: 1, TotalQty: 1},
			{ID: 2, Title: "Sold Out Title", Stock: 0, TotalQty: 2},
		},
		Clients: []*Client{
			{ID: 1, FullName: "Eligible Person", Score: 90},
			{ID: 2, FullName: "Blocked Person", Score: 40},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "Available Title") || strings.Contains(out, "Sold Out Title") {
		t.Fatalf("book choices wrong:\n%s", out)
	}
	if !strings.Contains(out, "Eligible Person") || strings.Contains(out, "Blocked Person") {
		t.Fatalf("client choices wrong:\n%s", out)
	}
}

func TestLoansViewHandlesMissingRefs(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, Snapshot{
		ActiveTab: TabLoans,
		Loans: []*Loan{
			{ID: 42, DateOut: "2026-08-01", Status: LoanActive},
		},
	})
	out := buf.String()
	if !strings.Contains(out, "42") || !strings.Contains(out, LoanActive) {
		t.Fatalf("loan row missing:\n%s", out)
	}
}

func TestHistoryRendering(t *testing.T) {
	var buf bytes.Buffer
	RenderHistory(&buf, []ActionRecord{
		{ID: 1, At: time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC), Actor: "alice", Action: "add book", Detail: "Dune"},
	})
	out := buf.String()
	for _, want := range []string{"alice", "add book", "Dune"} {
		if !strings.Contains(out, want) {
			t.Fatalf("history missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	RenderHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No recorded actions") {
		t.Fatalf("empty history not handled:\n%s", buf.String())
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 30); got != "short" {
		t.Fatalf("want unchanged, got %q", got)
	}
	if got := truncateString("a very long title that overflows", 10); got != "a very ..." {
		t.Fatalf("want truncated with ellipsis, got %q", got)
	}
}
