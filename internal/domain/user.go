package domain

// User represents the signed-in operator.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Session is the authenticated state of the desk.
// A nil *Session in the store means nobody is signed in.
type Session struct {
	User          *User
	Authenticated bool
	Token         string
}

// DisplayName returns the best human-readable label for the user.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
