package domain

import "strings"

// User is the authenticated user's profile as served by the upstream API.
// StableID is coalesced from whichever of _id/id the server populated.
type User struct {
	StableID string `json:"id"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Identity is the current authentication state. User may be nil while Token
// is present: the token arrives first and the profile is fetched after.
type Identity struct {
	Token string `json:"-"`
	User  *User  `json:"user,omitempty"`
}

// Authenticated reports whether a token is held at all.
func (i Identity) Authenticated() bool {
	return strings.TrimSpace(i.Token) != ""
}

// Usable reports whether the identity can back an order submission: the
// profile must be loaded and carry a resolvable stable id.
func (i Identity) Usable() bool {
	return i.User != nil && strings.TrimSpace(i.User.StableID) != ""
}
