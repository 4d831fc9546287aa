package session

// Role is the non-durable role indicator used for console authorization
// checks. It is UX gating only; the remote API enforces authorization for
// real.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Session is the current auth state. The zero value is Anonymous.
type Session struct {
	Authenticated bool
	UserID        string
	DisplayName   string
	Role          Role
}

// Identity is what the remote API tells us about the authenticated user.
type Identity struct {
	ID          string
	DisplayName string
	Role        Role
}

// Event describes one session transition. Subscribers (the cart store) see
// every Anonymous<->Authenticated flip.
type Event struct {
	Prev Session
	Next Session
}
