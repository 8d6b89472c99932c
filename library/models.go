package library

// Staff roles. The server is the authority on what a role may do; the
// client only uses it to decide which views to offer.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Loan lifecycle. A loan is created ACTIVE and the server flips it to
// RETURNED; no other transitions exist.
const (
	LoanActive   = "ACTIVE"
	LoanReturned = "RETURNED"
)

// ScoreFloor is the borrower eligibility threshold: a client at or below it
// cannot be selected for new loans.
const ScoreFloor = 50

// Session is the authenticated staff identity held for the lifetime of the
// process. It is never persisted.
type Session struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Book mirrors the backend record. Stock is mutated only by server-side
// effects of loan and return operations; the client never computes it.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	TotalQty int    `json:"totalQty"`
}

// InStock reports whether at least one copy is available for loan.
func (b *Book) InStock() bool { return b.Stock > 0 }

// Client is a borrower.
type Client struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	CIN      string `json:"cin"`
	Phone    string `json:"phone"`
	Score    int    `json:"score"`
}

// Eligible reports whether the client may take new loans.
func (c *Client) Eligible() bool { return c.Score > ScoreFloor }

// Loan links a book and a client. The nested records come from the server
// and may be absent on partially populated rows.
type Loan struct {
	ID      int64   `json:"id"`
	Book    *Book   `json:"book"`
	Client  *Client `json:"client"`
	DateOut string  `json:"dateOut"`
	Status  string  `json:"status"`
}

// AppUser is a staff account. Visible and manageable only when the session
// role is ADMIN.
type AppUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}
