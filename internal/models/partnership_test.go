package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnershipCanonicalOrdering(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	ab := NewCompanyPartnership(a, b)
	ba := NewCompanyPartnership(b, a)

	// Both orderings normalize to the same pair.
	assert.Equal(t, ab.CompanyID1, ba.CompanyID1)
	assert.Equal(t, ab.CompanyID2, ba.CompanyID2)
	assert.True(t, ab.CompanyID1.String() <= ab.CompanyID2.String())
}

func TestPartnershipPartnerOf(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	p := NewCompanyPartnership(a, b)

	assert.Equal(t, b, p.PartnerOf(a))
	assert.Equal(t, a, p.PartnerOf(b))
	assert.Equal(t, uuid.Nil, p.PartnerOf(uuid.New()))

	assert.True(t, p.Involves(a))
	assert.True(t, p.Involves(b))
	assert.False(t, p.Involves(uuid.New()))
}

func TestPartnershipSelfEdgeStaysCanonical(t *testing.T) {
	a := uuid.New()
	p := NewCompanyPartnership(a, a)
	require.Equal(t, a, p.CompanyID1)
	require.Equal(t, a, p.CompanyID2)
}
