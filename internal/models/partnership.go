package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompanyPartnership is an undirected edge between two companies.
//
// The pair is stored in canonical order: the lexicographically smaller
// id always occupies CompanyID1, so NewCompanyPartnership(a, b) and
// NewCompanyPartnership(b, a) normalize to the same record. That is how
// "at most one partnership between any two companies" stays enforceable
// with a plain unique index on (company_id1, company_id2).
type CompanyPartnership struct {
	ID         uuid.UUID `json:"id"`
	CompanyID1 uuid.UUID `json:"company_id1"`
	CompanyID2 uuid.UUID `json:"company_id2"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCompanyPartnership(companyA, companyB uuid.UUID) CompanyPartnership {
	first, second := canonicalPair(companyA, companyB)
	return CompanyPartnership{
		ID:         uuid.New(),
		CompanyID1: first,
		CompanyID2: second,
		CreatedAt:  time.Now(),
	}
}

// Involves reports whether the given company is one of the two ends.
func (p CompanyPartnership) Involves(companyID uuid.UUID) bool {
	return p.CompanyID1 == companyID || p.CompanyID2 == companyID
}

// PartnerOf returns the other end of the edge, or uuid.Nil if the given
// company is not part of this partnership.
func (p CompanyPartnership) PartnerOf(companyID uuid.UUID) uuid.UUID {
	switch companyID {
	case p.CompanyID1:
		return p.CompanyID2
	case p.CompanyID2:
		return p.CompanyID1
	default:
		return uuid.Nil
	}
}

func canonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) <= 0 {
		return a, b
	}
	return b, a
}
