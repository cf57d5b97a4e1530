package models

// Actor is whoever the current request acts for: a signed-in account or an
// anonymous device.
type Actor struct {
	Authenticated bool   `json:"authenticated"`
	ID            string `json:"id"`
}

// AuthUser is the signed-in user as reported by the auth provider.
type AuthUser struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}
