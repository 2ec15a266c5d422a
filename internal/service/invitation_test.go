package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/models"
)

func newInvitationFixture() (*InvitationService, *fakeInvitationRepo, *fakeUserCompanyRepo) {
	invitations := &fakeInvitationRepo{}
	userCompanies := &fakeUserCompanyRepo{}
	memberships := NewMembershipService(userCompanies)
	svc := NewInvitationService(invitations, memberships, zap.NewNop())
	return svc, invitations, userCompanies
}

func TestInviteDuplicatePendingFails(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newInvitationFixture()
	companyID := uuid.New()

	_, err := svc.Invite(ctx, companyID, "new@example.com", models.RoleMember, uuid.New(), 0)
	require.NoError(t, err)

	_, err = svc.Invite(ctx, companyID, "new@example.com", models.RolePartner, uuid.New(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDuplicateInvitation))

	// A different company or a different email is fine.
	_, err = svc.Invite(ctx, uuid.New(), "new@example.com", models.RoleMember, uuid.New(), 0)
	assert.NoError(t, err)
	_, err = svc.Invite(ctx, companyID, "other@example.com", models.RoleMember, uuid.New(), 0)
	assert.NoError(t, err)
}

func TestInviteAfterResolutionAllowed(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newInvitationFixture()
	companyID := uuid.New()

	inv, err := svc.Invite(ctx, companyID, "new@example.com", models.RoleMember, uuid.New(), 0)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, inv.Token)
	require.NoError(t, err)

	// Only Pending invitations block re-inviting.
	_, err = svc.Invite(ctx, companyID, "new@example.com", models.RoleMember, uuid.New(), 0)
	assert.NoError(t, err)
}

func TestAcceptCreatesMembership(t *testing.T) {
	ctx := context.Background()
	svc, _, userCompanies := newInvitationFixture()
	companyID := uuid.New()
	userID := uuid.New()

	inv, err := svc.Invite(ctx, companyID, "new@example.com", models.RolePartner, uuid.New(), 0)
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, inv.Token, userID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, accepted.Status)

	uc, err := userCompanies.FindByUserIDAndCompanyID(ctx, userID, companyID)
	require.NoError(t, err)
	require.NotNil(t, uc)
	assert.Equal(t, models.RolePartner, uc.Role)
}

func TestAcceptKeepsExistingMembership(t *testing.T) {
	ctx := context.Background()
	svc, _, userCompanies := newInvitationFixture()
	companyID := uuid.New()
	userID := uuid.New()

	require.NoError(t, userCompanies.Save(ctx, models.NewUserCompany(userID, companyID, models.RoleAdministrator)))

	inv, err := svc.Invite(ctx, companyID, "admin@example.com", models.RolePartner, uuid.New(), 0)
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, inv.Token, userID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationAccepted, accepted.Status)

	// The invitation is consumed but the existing role is untouched.
	uc, err := userCompanies.FindByUserIDAndCompanyID(ctx, userID, companyID)
	require.NoError(t, err)
	require.NotNil(t, uc)
	assert.Equal(t, models.RoleAdministrator, uc.Role)
}

func TestAcceptUnknownToken(t *testing.T) {
	svc, _, _ := newInvitationFixture()

	_, err := svc.Accept(context.Background(), "no-such-token", uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAcceptExpiredInvitation(t *testing.T) {
	ctx := context.Background()
	svc, invitations, userCompanies := newInvitationFixture()

	inv, err := svc.Invite(ctx, uuid.New(), "late@example.com", models.RoleMember, uuid.New(), 0)
	require.NoError(t, err)

	lapsed := *inv
	lapsed.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, invitations.Save(ctx, lapsed))

	userID := uuid.New()
	_, err = svc.Accept(ctx, inv.Token, userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))

	uc, err := userCompanies.FindByUserIDAndCompanyID(ctx, userID, inv.CompanyID)
	require.NoError(t, err)
	assert.Nil(t, uc, "no membership on failed accept")
}

func TestRejectExpiredInvitation(t *testing.T) {
	ctx := context.Background()
	svc, invitations, _ := newInvitationFixture()

	inv, err := svc.Invite(ctx, uuid.New(), "late@example.com", models.RoleMember, uuid.New(), 0)
	require.NoError(t, err)

	lapsed := *inv
	lapsed.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, invitations.Save(ctx, lapsed))

	rejected, err := svc.Reject(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationRejected, rejected.Status)
}

func TestExpireOverdue(t *testing.T) {
	ctx := context.Background()
	svc, invitations, _ := newInvitationFixture()
	companyID := uuid.New()

	fresh, err := svc.Invite(ctx, companyID, "fresh@example.com", models.RoleMember, uuid.New(), 0)
	require.NoError(t, err)

	stale, err := svc.Invite(ctx, companyID, "stale@example.com", models.RoleMember, uuid.New(), 0)
	require.NoError(t, err)
	lapsed := *stale
	lapsed.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, invitations.Save(ctx, lapsed))

	resolved, err := svc.Invite(ctx, companyID, "done@example.com", models.RoleMember, uuid.New(), 0)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, resolved.Token)
	require.NoError(t, err)

	n, err := svc.ExpireOverdue(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := invitations.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationExpired, got.Status)

	got, err = invitations.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationPending, got.Status)
}
