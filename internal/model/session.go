package model

// Session carries the identity extracted from a provider-issued token.
// It is passed explicitly through handler and service calls; a zero
// Session means the request was anonymous.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Authenticated reports whether the session identifies a user
func (s Session) Authenticated() bool {
	return s.UserID != ""
}
