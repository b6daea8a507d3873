package auth

// Package auth contains domain-level types for identities, sessions, and
// verification challenges. It is pure and free of framework/adapter concerns.

import "time"

// Identity represents the authenticated principal. Adapters map credential
// store rows and OAuth userinfo documents into this shape.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
	Role  Role   `json:"role"`
}

// User is a credential-store record. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	Identity
	PasswordHash  string
	EmailVerified bool
}

// Session is the live, time-bounded proof of an Identity's authentication,
// decoded from the signed session token carried by each request.
type Session struct {
	User      Identity  `json:"user"`
	Provider  string    `json:"provider,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsAuthenticated reports whether a session is present at all. All capability
// methods are nil-safe so handlers can call them on an absent session.
func (s *Session) IsAuthenticated() bool { return s != nil }

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role.Is(RoleAdmin)
}

// IsTeacher reports whether the session carries teacher capability. Admins are
// implicitly teachers.
func (s *Session) IsTeacher() bool {
	return s != nil && (s.User.Role.Is(RoleTeacher) || s.User.Role.Is(RoleAdmin))
}

// IsStudent reports whether the session carries the student role.
func (s *Session) IsStudent() bool {
	return s != nil && s.User.Role.Is(RoleStudent)
}

// Challenge is a short-lived verification code bound to a user id, used to
// confirm control of an email address. At most one challenge is live per user;
// issuing a new one invalidates its predecessor.
type Challenge struct {
	UserID    string    `json:"user_id"`
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge validity window has elapsed at now.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
