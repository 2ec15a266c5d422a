package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/sheetwork/internal/models"
)

func TestAddUserToCompany(t *testing.T) {
	ctx := context.Background()
	svc := NewMembershipService(&fakeUserCompanyRepo{})
	userID, companyID := uuid.New(), uuid.New()

	uc, err := svc.AddUserToCompany(ctx, userID, companyID, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, uc.Role)

	_, err = svc.AddUserToCompany(ctx, userID, companyID, models.RolePartner)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDuplicateMembership))

	// Same user in another company is a separate membership.
	_, err = svc.AddUserToCompany(ctx, userID, uuid.New(), models.RolePartner)
	assert.NoError(t, err)
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	repo := &fakeUserCompanyRepo{}
	svc := NewMembershipService(repo)
	userID, companyID := uuid.New(), uuid.New()

	_, err := svc.AddUserToCompany(ctx, userID, companyID, models.RolePartner)
	require.NoError(t, err)

	uc, err := svc.ChangeRole(ctx, userID, companyID, models.RoleAdministrator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, uc.Role)

	stored, err := repo.FindByUserIDAndCompanyID(ctx, userID, companyID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, stored.Role)

	_, err = svc.ChangeRole(ctx, uuid.New(), companyID, models.RoleMember)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestRemoveUserFromCompany(t *testing.T) {
	ctx := context.Background()
	repo := &fakeUserCompanyRepo{}
	svc := NewMembershipService(repo)
	userID, companyID := uuid.New(), uuid.New()

	_, err := svc.AddUserToCompany(ctx, userID, companyID, models.RoleMember)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveUserFromCompany(ctx, userID, companyID))

	uc, err := repo.FindByUserIDAndCompanyID(ctx, userID, companyID)
	require.NoError(t, err)
	assert.Nil(t, uc)

	err = svc.RemoveUserFromCompany(ctx, userID, companyID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
