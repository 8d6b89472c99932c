package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Aminedrissi12/TP-biblio-fontend/library"
)

var (
	flagServer  string
	flagConfig  string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "biblio",
		Short: "Terminal client for the BIBLIO.SYSTEM library backend",
		Long: "An interactive console for librarians: sign in, browse the catalogue,\n" +
			"register clients, issue and return loans, and (for administrators)\n" +
			"manage staff accounts. All data lives on the backend; every action is\n" +
			"a request followed by a full refresh.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell()
		},
	}
	root.Flags().StringVar(&flagServer, "server", "", "backend base URL (overrides config)")
	root.Flags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log swallowed fetch failures to stderr")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runShell() error {
	cfg, err := library.LoadConfig(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagServer != "" {
		cfg.ServerURL = flagServer
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if flagVerbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	var journal *library.Journal
	if cfg.JournalPath != "" {
		journal, err = library.OpenJournal(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer journal.Close()
	}

	api := library.NewAPIClient(cfg.ServerURL, cfg.Timeout)
	store := library.NewStore(api, logger, journal)
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	fmt.Println("Welcome to BIBLIO.SYSTEM")
	fmt.Printf("Server: %s\n", cfg.ServerURL)

	for {
		if !store.Authenticated() {
			if !handleLogin(ctx, scanner, store) {
				return nil
			}
			continue
		}

		snap := store.Snapshot()
		fmt.Println()
		library.RenderNav(os.Stdout, snap)
		library.Render(os.Stdout, snap)

		fmt.Print("\n> ")
		if !scanner.Scan() {
			return nil
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case library.TabDashboard, library.TabBooks, library.TabLoans, library.TabClients, library.TabUsers:
			if err := store.SetTab(cmd); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "add book":
			handleAddBook(ctx, scanner, store)
		case "add client":
			handleAddClient(ctx, scanner, store)
		case "add loan":
			handleAddLoan(ctx, scanner, store)
		case "return":
			handleReturnLoan(ctx, scanner, store)
		case "add user":
			handleSaveUser(ctx, scanner, store, false)
		case "edit user":
			handleSaveUser(ctx, scanner, store, true)
		case "delete user":
			handleDeleteUser(ctx, scanner, store)
		case "refresh":
			store.RefreshAll(ctx)
		case "history":
			handleHistory(journal)
		case "help":
			printHelp()
		case "logout":
			store.Logout()
			fmt.Println("Signed out.")
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		case "":
			// Just re-render.
		default:
			fmt.Println("Unknown command. Type 'help' for the list of commands.")
		}
	}
}

func printHelp() {
	fmt.Println("Tabs: dashboard, books, loans, clients, users (admin only)")
	fmt.Println("Actions: add book, add client, add loan, return,")
	fmt.Println("         add user, edit user, delete user (admin only)")
	fmt.Println("System: refresh, history, help, logout, exit")
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

// handleLogin runs the login view. Returns false when input is exhausted.
func handleLogin(ctx context.Context, sc *bufio.Scanner, store *library.Store) bool {
	fmt.Println("\n-- Library Access --")
	fmt.Print("Email: ")
	if !sc.Scan() {
		return false
	}
	email := strings.TrimSpace(sc.Text())

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return true
	}

	store.SetLoginDraft(library.LoginDraft{Email: email, Password: password})
	if err := store.Login(ctx, email, password); err != nil {
		// The only errors ever shown on this screen: missing fields, a
		// credential rejection, or an unreachable server.
		fmt.Printf("Login failed: %v\n", err)
	}
	return true
}

func handleAddBook(ctx context.Context, sc *bufio.Scanner, store *library.Store) {
	fmt.Print("Title: ")
	if !sc.Scan() {
		return
	}
	title := strings.TrimSpace(sc.Text())

	fmt.Print("Author: ")
	if !sc.Scan() {
		return
	}
	author := strings.TrimSpace(sc.Text())

	fmt.Print("Category: ")
	if !sc.Scan() {
		return
	}
	category := strings.TrimSpace(sc.Text())

	fmt.Print("Quantity [1]: ")
	if !sc.Scan() {
		return
	}
	total := 1
	if q := strings.TrimSpace(sc.Text()); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 {
			fmt.Printf("Invalid quantity: %s\n", q)
			return
		}
		total = n
	}

	store.SetBookDraft(library.BookDraft{Title: title, Author: author, Category: category, Total: total})
	if err := store.AddBook(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func handleAddClient(ctx context.Context, sc *bufio.Scanner, store *library.Store) {
	fmt.Print("Full name: ")
	if !sc.Scan() {
		return
	}
	fullName := strings.TrimSpace(sc.Text())

	fmt.Print("CIN: ")
	if !sc.Scan() {
		return
	}
	cin := strings.TrimSpace(sc.Text())

	fmt.Print("Phone: ")
	if !sc.Scan() {
		return
	}
	phone := strings.TrimSpace(sc.Text())

	store.SetClientDraft(library.ClientDraft{FullName: fullName, CIN: cin, Phone: phone})
	if err := store.AddClient(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func handleAddLoan(ctx context.Context, sc *bufio.Scanner, store *library.Store) {
	snap := store.Snapshot()
	library.RenderLoanChoices(os.Stdout, snap)

	fmt.Print("Client ID: ")
	if !sc.Scan() {
		return
	}
	clientID, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
	if err != nil {
		fmt.Printf("Invalid client ID: %s\n", sc.Text())
		return
	}
	if !containsClient(snap.EligibleClients(), clientID) {
		fmt.Println("That client is not eligible for new loans.")
		return
	}

	fmt.Print("Book ID: ")
	if !sc.Scan() {
		return
	}
	bookID, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
	if err != nil {
		fmt.Printf("Invalid book ID: %s\n", sc.Text())
		return
	}
	if !containsBook(snap.LoanableBooks(), bookID) {
		fmt.Println("That book has no copies in stock.")
		return
	}

	draft := snap.LoanDraft
	draft.BookID = bookID
	draft.ClientID = clientID
	store.SetLoanDraft(draft)
	if err := store.AddLoan(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func handleReturnLoan(ctx context.Context, sc *bufio.Scanner, store *library.Store) {
	fmt.Print("Loan ID: ")
	if !sc.Scan() {
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
	if err != nil {
		fmt.Printf("Invalid loan ID: %s\n", sc.Text())
		return
	}
	if err := store.ReturnLoan(ctx, id); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func handleSaveUser(ctx context.Context, sc *bufio.Scanner, store *library.Store, edit bool) {
	if edit {
		fmt.Print("User ID to edit: ")
		if !sc.Scan() {
			return
		}
		id, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
		if err != nil {
			fmt.Printf("Invalid user ID: %s\n", sc.Text())
			return
		}
		if err := store.SetEditTarget(id); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	} else {
		// An edit abandoned halfway must not turn this create into an
		// update of the old target.
		store.ClearEditTarget()
	}

	draft := store.Snapshot().UserDraft

	fmt.Printf("Username [%s]: ", draft.Username)
	if !sc.Scan() {
		return
	}
	if v := strings.TrimSpace(sc.Text()); v != "" {
		draft.Username = v
	}

	fmt.Printf("Email [%s]: ", draft.Email)
	if !sc.Scan() {
		return
	}
	if v := strings.TrimSpace(sc.Text()); v != "" {
		draft.Email = v
	}

	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}
	if password != "" {
		draft.Password = password
	}

	fmt.Printf("Role (ADMIN/STAFF) [%s]: ", draft.Role)
	if !sc.Scan() {
		return
	}
	if v := strings.ToUpper(strings.TrimSpace(sc.Text())); v != "" {
		if v != library.RoleAdmin && v != library.RoleStaff {
			fmt.Printf("Unknown role: %s\n", v)
			return
		}
		draft.Role = v
	}

	store.SetUserDraft(draft)
	if err := store.SaveUser(ctx); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func handleDeleteUser(ctx context.Context, sc *bufio.Scanner, store *library.Store) {
	fmt.Print("User ID to delete: ")
	if !sc.Scan() {
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(sc.Text()), 10, 64)
	if err != nil {
		fmt.Printf("Invalid user ID: %s\n", sc.Text())
		return
	}

	confirm := func() bool {
		fmt.Printf("Delete user %d? [y/N]: ", id)
		if !sc.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(sc.Text()))
		return answer == "y" || answer == "yes"
	}
	if err := store.DeleteUser(ctx, id, confirm); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func handleHistory(journal *library.Journal) {
	records, err := journal.Recent(20)
	if err != nil {
		fmt.Printf("Error reading history: %v\n", err)
		return
	}
	library.RenderHistory(os.Stdout, records)
}

func containsClient(clients []*library.Client, id int64) bool {
	for _, c := range clients {
		if c.ID == id {
			return true
		}
	}
	return false
}

func containsBook(books []*library.Book, id int64) bool {
	for _, b := range books {
		if b.ID == id {
			return true
		}
	}
	return false
}
