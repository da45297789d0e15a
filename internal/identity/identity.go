// Package identity holds the current-user descriptor and token handling.
//
// The session core only reads from this package; authorization decisions
// belong to the server. Role checks here gate UI affordances, nothing more.
package identity

// Role is the server-assigned account role.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User describes an authenticated account.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user may browse other users' storage.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
