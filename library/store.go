package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Tabs of the authenticated dashboard. Switching tabs is a pure state
// change; the data is already resident from the last refresh.
const (
	TabDashboard = "dashboard"
	TabBooks     = "books"
	TabLoans     = "loans"
	TabClients   = "clients"
	TabUsers     = "users"
)

// Form drafts, field for field the forms of the two views.
type LoginDraft struct {
	Email    string
	Password string
}

type BookDraft struct {
	Title    string
	Author   string
	Category string
	Total    int
}

type ClientDraft struct {
	FullName string
	CIN      string
	Phone    string
}

type LoanDraft struct {
	BookID   int64
	ClientID int64
	DateOut  string
}

type UserDraft struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Store owns every piece of client-side state: the session, the four
// collections mirrored from the server, the active tab and the form drafts.
// All mutation goes through named action methods. The collections are the
// authoritative in-memory cache between fetches; every lookup or aggregate
// is recomputed from the raw slices, no derived indices are kept.
type Store struct {
	api     *APIClient
	log     *slog.Logger
	journal *Journal

	mu      sync.Mutex
	session *Session
	books   []*Book
	clients []*Client
	loans   []*Loan
	users   []*AppUser

	activeTab string
	// gen is bumped whenever the session changes. A refresh captures it
	// before fetching and discards its results if it no longer matches, so a
	// slow response from before a logout/login can never overwrite newer
	// state.
	gen int

	loginDraft  LoginDraft
	bookDraft   BookDraft
	clientDraft ClientDraft
	loanDraft   LoanDraft
	userDraft   UserDraft
	editingUser *AppUser
}

// NewStore wires the store to its API client. logger may be nil; journal may
// be nil when no local audit trail is wanted.
func NewStore(api *APIClient, logger *slog.Logger, journal *Journal) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:       api,
		log:       logger,
		journal:   journal,
		activeTab: TabDashboard,
		bookDraft: BookDraft{Total: 1},
		userDraft: UserDraft{Role: RoleStaff},
		loanDraft: LoanDraft{DateOut: time.Now().Format("2006-01-02")},
	}
}

// ------------------ Session ------------------

// Login authenticates and, on success, resets the view to the dashboard and
// performs the initial full refresh. Both fields are required; nothing is
// sent when either is empty.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return ErrFieldsRequired
	}

	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session = session
	s.activeTab = TabDashboard
	s.loginDraft = LoginDraft{}
	s.gen++
	s.mu.Unlock()

	s.RefreshAll(ctx)
	return nil
}

// Logout clears the session and the login draft without contacting the
// server. The collections stay resident but any in-flight refresh from the
// old session is invalidated.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.loginDraft = LoginDraft{}
	s.activeTab = TabDashboard
	s.editingUser = nil
	s.gen++
}

// ------------------ Synchronization ------------------

// RefreshAll re-fetches every collection and replaces each one wholesale
// (last full fetch wins, no merge). The requests fail independently: a
// failure leaves the previous data in place and is only logged, partial
// success is expected. Staff accounts are fetched only for ADMIN sessions.
func (s *Store) RefreshAll(ctx context.Context) {
	s.mu.Lock()
	gen := s.gen
	admin := s.session != nil && s.session.Role == RoleAdmin
	s.mu.Unlock()

	if books, err := s.api.ListBooks(ctx); err != nil {
		s.log.Warn("refresh books", "err", err)
	} else {
		s.install(gen, func() { s.books = books })
	}

	if clients, err := s.api.ListClients(ctx); err != nil {
		s.log.Warn("refresh clients", "err", err)
	} else {
		s.install(gen, func() { s.clients = clients })
	}

	if loans, err := s.api.ListLoans(ctx); err != nil {
		s.log.Warn("refresh loans", "err", err)
	} else {
		s.install(gen, func() { s.loans = loans })
	}

	if admin {
		if users, err := s.api.ListUsers(ctx); err != nil {
			s.log.Warn("refresh users", "err", err)
		} else {
			s.install(gen, func() { s.users = users })
		}
	}
}

// install applies a state update only if no login/logout happened since the
// refresh that produced it started.
func (s *Store) install(gen int, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	apply()
}

// ------------------ Tab router ------------------

// SetTab switches the active view. No network call is involved. The users
// tab is hidden from non-admin navigation but not otherwise guarded; the
// server stays the sole authority on what a role may actually do.
func (s *Store) SetTab(tab string) error {
	switch tab {
	case TabDashboard, TabBooks, TabLoans, TabClients, TabUsers:
	default:
		return fmt.Errorf("unknown tab %q", tab)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeTab = tab
	return nil
}

// ------------------ Drafts ------------------

func (s *Store) SetLoginDraft(d LoginDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginDraft = d
}

func (s *Store) SetBookDraft(d BookDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookDraft = d
}

func (s *Store) SetClientDraft(d ClientDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientDraft = d
}

func (s *Store) SetLoanDraft(d LoanDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loanDraft = d
}

func (s *Store) SetUserDraft(d UserDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userDraft = d
}

// SetEditTarget selects a staff account for editing and pre-fills the user
// draft from it. The account must be resident in the last-fetched list.
func (s *Store) SetEditTarget(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			s.editingUser = u
			s.userDraft = UserDraft{Username: u.Username, Email: u.Email, Role: u.Role}
			return nil
		}
	}
	return fmt.Errorf("no staff account with id %d", id)
}

// ClearEditTarget abandons an edit and resets the user draft.
func (s *Store) ClearEditTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingUser = nil
	s.userDraft = UserDraft{Role: RoleStaff}
}

// ------------------ Mutation actions ------------------
//
// Every action follows the same shape: client-side gate, one request, then
// exactly one full refresh. No optimistic local mutation anywhere; a failed
// request is logged and swallowed, leaving the views on stale data.

// AddBook posts the book draft with stock seeded to the total quantity.
func (s *Store) AddBook(ctx context.Context) error {
	s.mu.Lock()
	draft := s.bookDraft
	s.mu.Unlock()

	if strings.TrimSpace(draft.Title) == "" {
		return fmt.Errorf("%w: title", ErrFieldsRequired)
	}

	if err := s.api.AddBook(ctx, draft); err != nil {
		s.log.Warn("add book", "err", err)
		return nil
	}

	s.mu.Lock()
	s.bookDraft = BookDraft{Total: 1}
	s.mu.Unlock()

	s.record("add book", draft.Title)
	s.RefreshAll(ctx)
	return nil
}

// AddClient registers a borrower.
func (s *Store) AddClient(ctx context.Context) error {
	s.mu.Lock()
	draft := s.clientDraft
	s.mu.Unlock()

	if strings.TrimSpace(draft.FullName) == "" {
		return fmt.Errorf("%w: full name", ErrFieldsRequired)
	}

	if err := s.api.AddClient(ctx, draft); err != nil {
		s.log.Warn("add client", "err", err)
		return nil
	}

	s.mu.Lock()
	s.clientDraft = ClientDraft{}
	s.mu.Unlock()

	s.record("add client", draft.FullName)
	s.RefreshAll(ctx)
	return nil
}

// AddLoan posts the two selected references; the server checks stock and
// eligibility again and computes the loan status. Only the book selection
// clears afterwards so several loans can be issued to the same client.
func (s *Store) AddLoan(ctx context.Context) error {
	s.mu.Lock()
	draft := s.loanDraft
	s.mu.Unlock()

	if draft.BookID == 0 {
		return fmt.Errorf("%w: book", ErrFieldsRequired)
	}

	if err := s.api.AddLoan(ctx, draft.BookID, draft.ClientID); err != nil {
		s.log.Warn("add loan", "err", err)
		return nil
	}

	s.mu.Lock()
	s.loanDraft.BookID = 0
	s.mu.Unlock()

	s.record("add loan", fmt.Sprintf("book %d -> client %d", draft.BookID, draft.ClientID))
	s.RefreshAll(ctx)
	return nil
}

// ReturnLoan asks the server to mark the loan RETURNED.
func (s *Store) ReturnLoan(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("%w: loan id", ErrFieldsRequired)
	}

	if err := s.api.ReturnLoan(ctx, id); err != nil {
		s.log.Warn("return loan", "err", err)
		return nil
	}

	s.record("return loan", fmt.Sprintf("loan %d", id))
	s.RefreshAll(ctx)
	return nil
}

// SaveUser creates a staff account, or updates the edit target when one is
// set. On success the draft resets and the edit target clears.
func (s *Store) SaveUser(ctx context.Context) error {
	s.mu.Lock()
	draft := s.userDraft
	editing := s.editingUser
	s.mu.Unlock()

	if strings.TrimSpace(draft.Username) == "" {
		return fmt.Errorf("%w: username", ErrFieldsRequired)
	}

	var err error
	if editing != nil {
		err = s.api.UpdateUser(ctx, editing.ID, draft)
	} else {
		err = s.api.CreateUser(ctx, draft)
	}
	if err != nil {
		s.log.Warn("save user", "err", err)
		return nil
	}

	s.mu.Lock()
	s.userDraft = UserDraft{Role: RoleStaff}
	s.editingUser = nil
	s.mu.Unlock()

	if editing != nil {
		s.record("edit user", draft.Username)
	} else {
		s.record("add user", draft.Username)
	}
	s.RefreshAll(ctx)
	return nil
}

// DeleteUser removes a staff account after the confirm callback answers
// yes. Declining issues no request at all.
func (s *Store) DeleteUser(ctx context.Context, id int64, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return nil
	}

	if err := s.api.DeleteUser(ctx, id); err != nil {
		s.log.Warn("delete user", "err", err)
		return nil
	}

	s.record("delete user", fmt.Sprintf("user %d", id))
	s.RefreshAll(ctx)
	return nil
}

func (s *Store) record(action, detail string) {
	s.mu.Lock()
	actor := ""
	if s.session != nil {
		actor = s.session.Username
	}
	s.mu.Unlock()

	if err := s.journal.Record(actor, action, detail); err != nil {
		s.log.Warn("journal", "err", err)
	}
}

// ------------------ Reads ------------------

// Snapshot is a point-in-time copy of the state a view renders from.
type Snapshot struct {
	Session     *Session
	Books       []*Book
	Clients     []*Client
	Loans       []*Loan
	Users       []*AppUser
	ActiveTab   string
	LoginDraft  LoginDraft
	BookDraft   BookDraft
	ClientDraft ClientDraft
	LoanDraft   LoanDraft
	UserDraft   UserDraft
	EditingUser *AppUser
}

// Snapshot copies the current state. The slices are copied shallowly: the
// records themselves are replaced wholesale on refresh, never edited in
// place.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Session:     s.session,
		Books:       append([]*Book(nil), s.books...),
		Clients:     append([]*Client(nil), s.clients...),
		Loans:       append([]*Loan(nil), s.loans...),
		Users:       append([]*AppUser(nil), s.users...),
		ActiveTab:   s.activeTab,
		LoginDraft:  s.loginDraft,
		BookDraft:   s.bookDraft,
		ClientDraft: s.clientDraft,
		LoanDraft:   s.loanDraft,
		UserDraft:   s.userDraft,
		EditingUser: s.editingUser,
	}
	return snap
}

// Authenticated reports whether a session is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Derived values, recomputed from the raw slices on every call.

// TotalStock is the dashboard's stock figure: the sum of totalQty.
func (snap Snapshot) TotalStock() int {
	total := 0
	for _, b := range snap.Books {
		total += b.TotalQty
	}
	return total
}

// ActiveLoanCount counts loans still out.
func (snap Snapshot) ActiveLoanCount() int {
	n := 0
	for _, l := range snap.Loans {
		if l.Status == LoanActive {
			n++
		}
	}
	return n
}

// LoanableBooks are the books offered in the loan form: anything with stock
// left. Out-of-stock titles are never selectable.
func (snap Snapshot) LoanableBooks() []*Book {
	var out []*Book
	for _, b := range snap.Books {
		if b.InStock() {
			out = append(out, b)
		}
	}
	return out
}

// EligibleClients are the borrowers offered in the loan form. Clients at or
// below the score floor are never selectable; the server re-checks anyway.
func (snap Snapshot) EligibleClients() []*Client {
	var out []*Client
	for _, c := range snap.Clients {
		if c.Eligible() {
			out = append(out, c)
		}
	}
	return out
}

// Tabs lists the navigation entries for the current session. The users tab
// only appears for ADMIN.
func (snap Snapshot) Tabs() []string {
	tabs := []string{TabDashboard, TabBooks, TabLoans, TabClients}
	if snap.Session != nil && snap.Session.Role == RoleAdmin {
		tabs = append(tabs, TabUsers)
	}
	return tabs
}
