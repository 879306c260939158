package domain

import (
	"context"
	"time"
)

// User represents a registered user
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(username, email, passwordHash, firstName, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Summary returns the public projection of the user used in swap listings.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FirstName + " " + u.LastName,
		Email:    u.Email,
	}
}

// PasswordHasher hashes and verifies passwords. Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (hash string, err error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, username string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByUsernameOrEmail looks the user up by either identifier; login
	// accepts both.
	GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*User, error)
}

// UserService defines the business logic for registration and login.
type UserService interface {
	Register(ctx context.Context, username, email, password, firstName, lastName string) (token string, user *User, err error)
	Login(ctx context.Context, usernameOrEmail, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
}
