package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// AccessService decides whether a user may read or edit a project.
//
// It is a pure rules engine over the project's visibility tier, the
// caller's direct membership (resolved by the caller and passed in as a
// boolean) and the caller's per-company roles (looked up through the
// injected UserCompany repository). Denial is expressed as false, never
// as an error; the only errors out of this service are repository I/O
// failures.
type AccessService struct {
	userCompanies repository.UserCompanyRepository
}

func NewAccessService(userCompanies repository.UserCompanyRepository) *AccessService {
	return &AccessService{userCompanies: userCompanies}
}

// CanAccess reports whether the user may read the project.
//
//   - Private: direct members only.
//   - CompanyInternal: direct members, or an Administrator/Member role
//     in any owning company. First match wins; the scan is a boolean OR
//     so iteration order does not matter. A company-internal project
//     with no owning companies is reachable by direct members only.
//   - Public: always false. The tier is reserved until a real rule
//     ships; callers must not assume Public grants anything.
func (s *AccessService) CanAccess(ctx context.Context, project models.Project, userID uuid.UUID, isProjectMember bool) (bool, error) {
	switch project.Visibility {
	case models.VisibilityPrivate:
		return isProjectMember, nil

	case models.VisibilityCompanyInternal:
		if isProjectMember {
			return true, nil
		}
		return s.hasCompanyRole(ctx, project, userID)

	case models.VisibilityPublic:
		return false, nil
	}

	return false, nil
}

// CanEdit reports whether the user may modify the project and its
// sheets. Direct membership always grants edit, regardless of
// visibility. Beyond that, only the company-role path on
// company-internal projects does: Private projects are editable by
// members alone, and Public currently grants edit to nobody but members.
func (s *AccessService) CanEdit(ctx context.Context, project models.Project, userID uuid.UUID, isProjectMember bool) (bool, error) {
	if isProjectMember {
		return true, nil
	}

	if project.Visibility == models.VisibilityCompanyInternal {
		return s.hasCompanyRole(ctx, project, userID)
	}

	return false, nil
}

// hasCompanyRole scans the owning companies for a role that grants
// company-internal access. Client companies are not scanned: they get
// read access through direct membership only.
func (s *AccessService) hasCompanyRole(ctx context.Context, project models.Project, userID uuid.UUID) (bool, error) {
	for _, companyID := range project.CompanyIDs {
		uc, err := s.userCompanies.FindByUserIDAndCompanyID(ctx, userID, companyID)
		if err != nil {
			return false, fmt.Errorf("look up company role: %w", err)
		}
		if uc != nil && uc.Role.GrantsCompanyProjectAccess() {
			return true, nil
		}
	}
	return false, nil
}
