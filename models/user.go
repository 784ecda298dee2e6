package models

// User models the authenticated dashboard identity. Authentication is
// simulated, so there is no password or server-side account behind it.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
