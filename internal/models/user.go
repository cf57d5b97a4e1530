package models

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success        bool   `json:"success"`
	UID            string `json:"uid,omitempty"`
	Email          string `json:"email,omitempty"`
	IDToken        string `json:"idToken,omitempty"`
	RefreshToken   string `json:"refreshToken,omitempty"`
	Synced         bool   `json:"synced"`
	Message        string `json:"message,omitempty"`
	Reason         string `json:"reason,omitempty"`
	RemainingTries int    `json:"remaining_tries,omitempty"`
	RetryAfter     int    `json:"retry_after,omitempty"`
}

// SignInResult is what the auth provider hands back for a successful
// email/password sign-in.
type SignInResult struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
}
