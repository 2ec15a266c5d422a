package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is the collaboration unit. It can be owned by several
// companies at once (CompanyIDs) and shared read-only with client
// companies (ClientCompanyIDs).
//
// Direct membership (which individual users belong to the project) is
// tracked outside this entity (project_members) and handed to the access
// service as a boolean per call.
type Project struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      *string     `json:"description,omitempty"`
	Visibility       Visibility  `json:"visibility"`
	CompanyIDs       []uuid.UUID `json:"company_ids"`
	ClientCompanyIDs []uuid.UUID `json:"client_company_ids"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func NewProject(name string, description *string, visibility Visibility, companyIDs, clientCompanyIDs []uuid.UUID) Project {
	now := time.Now()
	return Project{
		ID:               uuid.New(),
		Name:             name,
		Description:      description,
		Visibility:       visibility,
		CompanyIDs:       companyIDs,
		ClientCompanyIDs: clientCompanyIDs,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (p Project) WithDetails(name string, description *string) Project {
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	return p
}

func (p Project) WithVisibility(v Visibility) Project {
	p.Visibility = v
	p.UpdatedAt = time.Now()
	return p
}

// OwnedBy reports whether the company is one of the owning companies.
// Client companies do not count as owners.
func (p Project) OwnedBy(companyID uuid.UUID) bool {
	for _, id := range p.CompanyIDs {
		if id == companyID {
			return true
		}
	}
	return false
}

// ProjectMember records a user's direct membership in a project. The
// access service never sees this type; the API layer resolves it into
// the isProjectMember boolean.
type ProjectMember struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
