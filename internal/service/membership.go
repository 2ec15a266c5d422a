package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// MembershipService manages which users belong to which companies and
// with what role.
//
// The duplicate check here is check-then-create: two racing requests can
// both pass it. The unique index on (user_id, company_id) is what
// actually holds the line; this check just gives callers a clean
// ErrDuplicateMembership instead of a raw constraint violation.
type MembershipService struct {
	userCompanies repository.UserCompanyRepository
}

func NewMembershipService(userCompanies repository.UserCompanyRepository) *MembershipService {
	return &MembershipService{userCompanies: userCompanies}
}

// AddUserToCompany joins a user to a company with the given role.
func (s *MembershipService) AddUserToCompany(ctx context.Context, userID, companyID uuid.UUID, role models.UserRole) (*models.UserCompany, error) {
	existing, err := s.userCompanies.FindByUserIDAndCompanyID(ctx, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("check existing membership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s in company %s: %w", userID, companyID, models.ErrDuplicateMembership)
	}

	uc := models.NewUserCompany(userID, companyID, role)
	if err := s.userCompanies.Save(ctx, uc); err != nil {
		return nil, fmt.Errorf("save membership: %w", err)
	}
	return &uc, nil
}

// ChangeRole replaces the user's role within one company.
func (s *MembershipService) ChangeRole(ctx context.Context, userID, companyID uuid.UUID, role models.UserRole) (*models.UserCompany, error) {
	uc, err := s.userCompanies.FindByUserIDAndCompanyID(ctx, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("find membership: %w", err)
	}
	if uc == nil {
		return nil, fmt.Errorf("membership of user %s in company %s: %w", userID, companyID, models.ErrNotFound)
	}

	updated := uc.WithRole(role)
	if err := s.userCompanies.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save membership: %w", err)
	}
	return &updated, nil
}

// RemoveUserFromCompany drops the membership row. Removing a user who is
// not a member fails with ErrNotFound.
func (s *MembershipService) RemoveUserFromCompany(ctx context.Context, userID, companyID uuid.UUID) error {
	uc, err := s.userCompanies.FindByUserIDAndCompanyID(ctx, userID, companyID)
	if err != nil {
		return fmt.Errorf("find membership: %w", err)
	}
	if uc == nil {
		return fmt.Errorf("membership of user %s in company %s: %w", userID, companyID, models.ErrNotFound)
	}
	if err := s.userCompanies.Delete(ctx, uc.ID); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}
