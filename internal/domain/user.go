package domain

// User is the identity returned by the OAuth provider's userinfo endpoint.
// It lives only in the session; nothing is persisted server-side beyond it.
type User struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// DisplayName prefers the profile name and falls back to the email address.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
