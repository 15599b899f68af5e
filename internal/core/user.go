package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User is a registered account. PasswordHash holds a bcrypt hash; the
// plaintext password never leaves the registration/login handlers.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser returns a user with generated ID, USER role and creation timestamp.
func NewUser() User {
	return User{
		ID:        uuid.New(),
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
}

// ValidateRegistration checks registration input and returns a field -> reason
// map. An empty map means the input is valid.
func (u *User) ValidateRegistration(password string) map[string]string {
	problems := make(map[string]string)

	if strings.TrimSpace(u.Username) == "" {
		problems["username"] = "username is required"
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		problems["email"] = "email is required"
	} else if !strings.Contains(email[1:], "@") {
		problems["email"] = "valid email is required"
	}
	if strings.TrimSpace(password) == "" {
		problems["password"] = "password is required"
	}

	return problems
}
