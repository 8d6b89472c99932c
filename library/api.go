package library

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// APIClient wraps the backend REST API behind one base URL. The backend owns
// every business rule (stock decrement, loan transitions, client scoring);
// this client only moves JSON back and forth.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient builds a client for the given base URL. A zero timeout
// disables the per-request deadline.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do issues one request and returns the raw body and status. Every request
// carries an X-Request-Id so client logs correlate with server logs.
func (c *APIClient) do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return b, resp.StatusCode, nil
}

// mutate is do for requests whose body we do not care about.
func (c *APIClient) mutate(ctx context.Context, method, path string, payload any) error {
	_, status, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%s %s: status %d", method, path, status)
	}
	return nil
}

type loginResponse struct {
	Success bool     `json:"success"`
	User    *AppUser `json:"user"`
}

// Login exchanges credentials for the staff record. A reachable server that
// does not answer success=true with a user record is a credential rejection;
// a transport failure is reported as ErrServerUnavailable so the two stay
// distinguishable.
func (c *APIClient) Login(ctx context.Context, email, password string) (*Session, error) {
	payload := map[string]string{"email": email, "password": password}
	body, _, err := c.do(ctx, http.MethodPost, "/login", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}

	var res loginResponse
	if err := json.Unmarshal(body, &res); err != nil || !res.Success || res.User == nil {
		return nil, ErrBadCredentials
	}
	return &Session{
		ID:       res.User.ID,
		Username: res.User.Username,
		Email:    res.User.Email,
		Role:     res.User.Role,
	}, nil
}

// ------------------ Collection fetches ------------------

func (c *APIClient) ListBooks(ctx context.Context) ([]*Book, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/books", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET /books: status %d", status)
	}
	var books []*Book
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, fmt.Errorf("GET /books: decode: %w", err)
	}
	return books, nil
}

func (c *APIClient) ListClients(ctx context.Context) ([]*Client, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/clients", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET /clients: status %d", status)
	}
	var clients []*Client
	if err := json.Unmarshal(body, &clients); err != nil {
		return nil, fmt.Errorf("GET /clients: decode: %w", err)
	}
	return clients, nil
}

func (c *APIClient) ListLoans(ctx context.Context) ([]*Loan, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/loans", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET /loans: status %d", status)
	}
	var loans []*Loan
	if err := json.Unmarshal(body, &loans); err != nil {
		return nil, fmt.Errorf("GET /loans: decode: %w", err)
	}
	return loans, nil
}

func (c *APIClient) ListUsers(ctx context.Context) ([]*AppUser, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("GET /users: status %d", status)
	}
	var users []*AppUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("GET /users: decode: %w", err)
	}
	return users, nil
}

// ------------------ Mutations ------------------

// AddBook creates a catalogue entry. Stock starts equal to the total
// quantity; from then on only the server touches it.
func (c *APIClient) AddBook(ctx context.Context, d BookDraft) error {
	payload := map[string]any{
		"title":    d.Title,
		"author":   d.Author,
		"category": d.Category,
		"total":    d.Total,
		"stock":    d.Total,
		"totalQty": d.Total,
	}
	return c.mutate(ctx, http.MethodPost, "/books", payload)
}

func (c *APIClient) AddClient(ctx context.Context, d ClientDraft) error {
	payload := map[string]string{
		"fullName": d.FullName,
		"cin":      d.CIN,
		"phone":    d.Phone,
	}
	return c.mutate(ctx, http.MethodPost, "/clients", payload)
}

// AddLoan sends only the two references; the server computes stock and the
// initial status.
func (c *APIClient) AddLoan(ctx context.Context, bookID, clientID int64) error {
	payload := map[string]any{
		"book":   map[string]int64{"id": bookID},
		"client": map[string]int64{"id": clientID},
	}
	return c.mutate(ctx, http.MethodPost, "/loans", payload)
}

// ReturnLoan asks the server to flip the loan to RETURNED.
func (c *APIClient) ReturnLoan(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodPut, fmt.Sprintf("/loans/%d/return", id), nil)
}

func (c *APIClient) CreateUser(ctx context.Context, d UserDraft) error {
	return c.mutate(ctx, http.MethodPost, "/users", d.payload())
}

func (c *APIClient) UpdateUser(ctx context.Context, id int64, d UserDraft) error {
	return c.mutate(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), d.payload())
}

func (c *APIClient) DeleteUser(ctx context.Context, id int64) error {
	return c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
}

func (d UserDraft) payload() map[string]string {
	return map[string]string{
		"username": d.Username,
		"email":    d.Email,
		"password": d.Password,
		"role":     d.Role,
	}
}
