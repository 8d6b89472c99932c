package library

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMutatingRequestsCarryJSONHeaders(t *testing.T) {
	var contentType, requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		requestID = r.Header.Get("X-Request-Id")
	}))
	t.Cleanup(srv.Close)

	api := NewAPIClient(srv.URL, time.Second)
	if err := api.AddClient(context.Background(), ClientDraft{FullName: "Karim"}); err != nil {
		t.Fatalf("add client: %v", err)
	}
	if contentType != "application/json" {
		t.Fatalf("want application/json, got %q", contentType)
	}
	if requestID == "" {
		t.Fatalf("every request should carry an X-Request-Id")
	}
}

func TestGetRequestsOmitContentType(t *testing.T) {
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	api := NewAPIClient(srv.URL, time.Second)
	if _, err := api.ListBooks(context.Background()); err != nil {
		t.Fatalf("list books: %v", err)
	}
	if contentType != "" {
		t.Fatalf("GET should not declare a body content type, got %q", contentType)
	}
}

func TestLoginMalformedBodyIsCredentialRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	api := NewAPIClient(srv.URL, time.Second)
	_, err := api.Login(context.Background(), "a@b.com", "pw")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("malformed success indicator must read as a rejection, got %v", err)
	}
}

func TestLoginWithoutUserRecordIsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	api := NewAPIClient(srv.URL, time.Second)
	_, err := api.Login(context.Background(), "a@b.com", "pw")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("success without a user record must read as a rejection, got %v", err)
	}
}

func TestListBooksDecodesServerPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"title":"Dune","author":"Herbert","category":"SF","stock":2,"totalQty":3}]`))
	}))
	t.Cleanup(srv.Close)

	api := NewAPIClient(srv.URL, time.Second)
	books, err := api.ListBooks(context.Background())
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("want 1 book, got %d", len(books))
	}
	b := books[0]
	if b.ID != 1 || b.Title != "Dune" || b.Stock != 2 || b.TotalQty != 3 {
		t.Fatalf("bad decode: %+v", b)
	}
}

func TestListErrorsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	api := NewAPIClient(srv.URL, time.Second)
	if _, err := api.ListLoans(context.Background()); err == nil {
		t.Fatalf("non-200 list response must be reported to the caller")
	}
}

func TestUserEndpointPaths(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	api := NewAPIClient(srv.URL, time.Second)
	ctx := context.Background()
	draft := UserDraft{Username: "carol", Role: RoleStaff}

	if err := api.CreateUser(ctx, draft); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := api.UpdateUser(ctx, 9, draft); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := api.DeleteUser(ctx, 9); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := api.ReturnLoan(ctx, 42); err != nil {
		t.Fatalf("return: %v", err)
	}

	want := []string{"POST /users", "PUT /users/9", "DELETE /users/9", "PUT /loans/42/return"}
	if len(calls) != len(want) {
		t.Fatalf("want %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("call %d: want %s, got %s", i, want[i], calls[i])
		}
	}
}
