package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a person. Unlike most entities here, a user is global: company
// affiliation (and the role inside each company) lives in UserCompany,
// so one account can span many companies.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewUser(email, displayName, passwordHash string) User {
	now := time.Now()
	return User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// WithProfile returns a copy with a new display name. CreatedAt is
// preserved; UpdatedAt is refreshed.
func (u User) WithProfile(displayName string) User {
	u.DisplayName = displayName
	u.UpdatedAt = time.Now()
	return u
}
