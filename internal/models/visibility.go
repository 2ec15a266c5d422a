package models

import "fmt"

// Visibility is a project's visibility tier. It controls which
// non-member users may reach the project at all.
//
//   - Private: direct project members only.
//   - CompanyInternal: members, plus administrators/members of any
//     owning company.
//   - Public: reserved. Grants nothing today; the access service
//     deliberately returns false for it until a real rule ships.
type Visibility string

const (
	VisibilityPrivate         Visibility = "private"
	VisibilityCompanyInternal Visibility = "company_internal"
	VisibilityPublic          Visibility = "public"
)

// VisibilityOf validates s against the closed enumeration and fails with
// ErrInvalidValue otherwise.
func VisibilityOf(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibilityPrivate, VisibilityCompanyInternal, VisibilityPublic:
		return Visibility(s), nil
	default:
		return "", fmt.Errorf("visibility %q: %w", s, ErrInvalidValue)
	}
}

func (v Visibility) String() string { return string(v) }
