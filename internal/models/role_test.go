package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleOf(t *testing.T) {
	for n, want := range map[int]UserRole{
		1: RoleAdministrator,
		2: RoleMember,
		3: RolePartner,
		4: RoleCustomer,
	} {
		got, err := RoleOf(n)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestRoleOfRejectsUnknownRanks(t *testing.T) {
	for _, n := range []int{0, -1, 5, 42} {
		_, err := RoleOf(n)
		require.Error(t, err, "rank %d", n)
		assert.True(t, errors.Is(err, ErrInvalidValue))
	}
}

func TestGrantsCompanyProjectAccess(t *testing.T) {
	assert.True(t, RoleAdministrator.GrantsCompanyProjectAccess())
	assert.True(t, RoleMember.GrantsCompanyProjectAccess())
	assert.False(t, RolePartner.GrantsCompanyProjectAccess())
	assert.False(t, RoleCustomer.GrantsCompanyProjectAccess())
}

func TestVisibilityOf(t *testing.T) {
	for _, s := range []string{"private", "company_internal", "public"} {
		v, err := VisibilityOf(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}

	for _, s := range []string{"", "internal", "PRIVATE", "hidden"} {
		_, err := VisibilityOf(s)
		require.Error(t, err, "visibility %q", s)
		assert.True(t, errors.Is(err, ErrInvalidValue))
	}
}

func TestMarkerTypeOf(t *testing.T) {
	for _, s := range []string{"number", "square"} {
		typ, err := MarkerTypeOf(s)
		require.NoError(t, err)
		assert.Equal(t, MarkerType(s), typ)
	}

	_, err := MarkerTypeOf("circle")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidValue))
}
