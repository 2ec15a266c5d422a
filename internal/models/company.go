package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary. Projects are owned by companies;
// users join companies with a per-company role.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewCompany(name string) Company {
	now := time.Now()
	return Company{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c Company) WithName(name string) Company {
	c.Name = name
	c.UpdatedAt = time.Now()
	return c
}

// UserCompany joins a user to a company with a role. At most one row may
// exist per (user, company) pair; the membership service checks before
// creating and the database enforces the unique constraint underneath.
type UserCompany struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CompanyID uuid.UUID `json:"company_id"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserCompany(userID, companyID uuid.UUID, role UserRole) UserCompany {
	now := time.Now()
	return UserCompany{
		ID:        uuid.New(),
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithRole returns a copy holding the new role. Used when an
// administrator promotes or demotes a member.
func (uc UserCompany) WithRole(role UserRole) UserCompany {
	uc.Role = role
	uc.UpdatedAt = time.Now()
	return uc
}
