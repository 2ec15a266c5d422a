package models

import "fmt"

// UserRole is a user's rank within ONE company. It is attached to the
// (user, company) pair, never to the user globally; the same person can
// be an Administrator in company A and a Customer in company B.
//
// The numeric values are ranks: lower number, more authority. Access
// decisions compare against the closed set, never against the raw int,
// so an invalid rank can only exist if it bypassed RoleOf.
type UserRole int

const (
	RoleAdministrator UserRole = 1
	RoleMember        UserRole = 2
	RolePartner       UserRole = 3
	RoleCustomer      UserRole = 4
)

// RoleOf validates n against the closed enumeration. Construct-or-fail:
// any value outside the four known ranks returns ErrInvalidValue.
func RoleOf(n int) (UserRole, error) {
	switch UserRole(n) {
	case RoleAdministrator, RoleMember, RolePartner, RoleCustomer:
		return UserRole(n), nil
	default:
		return 0, fmt.Errorf("user role %d: %w", n, ErrInvalidValue)
	}
}

func (r UserRole) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleMember:
		return "member"
	case RolePartner:
		return "partner"
	case RoleCustomer:
		return "customer"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// GrantsCompanyProjectAccess reports whether this role lets its holder
// reach company-internal projects through the company-role path.
// Partners and customers see only projects they are direct members of.
func (r UserRole) GrantsCompanyProjectAccess() bool {
	return r == RoleAdministrator || r == RoleMember
}
