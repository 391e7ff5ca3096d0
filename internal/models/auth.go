package models

import "time"

// Admin is an entry on the allow-list of emails permitted to sign in.
type Admin struct {
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthToken is a single-use magic-link token. Used flips to true exactly
// once, on successful verification; expired tokens are left unused.
type AuthToken struct {
	ID        string
	Email     string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// AdminSession is an opaque cookie-bound session row. Expired sessions are
// deleted lazily when presented.
type AdminSession struct {
	SessionToken string
	AdminEmail   string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// User is a hackathon participant account. Participants register teams and
// receive live notifications keyed by their user id.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
