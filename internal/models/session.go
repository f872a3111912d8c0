package models

import "time"

// Session is the server-side state of one signed-in admin.
type Session struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	ActiveTab   Tab       `json:"active_tab"`
	SidebarOpen bool      `json:"sidebar_open"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Identity is the part of a session exposed to the client.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (s *Session) Identity() Identity {
	return Identity{UID: s.UID, Email: s.Email, Name: s.Name}
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      Identity   `json:"user"`
	Shell     ShellState `json:"shell"`
}
