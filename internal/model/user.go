package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Create must fail with ErrAlreadyExists when the email is taken; callers rely
// on the store's uniqueness constraint instead of checking beforehand.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored user with authentication material.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Salt         string
	PasswordHash string
	KDF          KDFParams
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// KDFParams are the argon2id parameters a password hash was derived with.
type KDFParams struct {
	Time   uint32 `json:"time" bson:"time"`
	MemKiB uint32 `json:"memKiB" bson:"memKiB"`
	Par    uint8  `json:"par" bson:"par"`
}

// RegisterParams contains parameters to register a user.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

// LoginParams contains credentials presented at login.
type LoginParams struct {
	Email    string
	Password string
}
