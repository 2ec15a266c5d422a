package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// PartnershipService manages the undirected edges between companies.
type PartnershipService struct {
	partnerships repository.CompanyPartnershipRepository
	companies    repository.CompanyRepository
}

func NewPartnershipService(partnerships repository.CompanyPartnershipRepository, companies repository.CompanyRepository) *PartnershipService {
	return &PartnershipService{partnerships: partnerships, companies: companies}
}

// Establish creates a partnership between two companies. The pair is
// canonically ordered by the entity constructor, so Establish(a, b) and
// Establish(b, a) collide on the same guard and the same unique index.
func (s *PartnershipService) Establish(ctx context.Context, companyA, companyB uuid.UUID) (*models.CompanyPartnership, error) {
	for _, id := range []uuid.UUID{companyA, companyB} {
		c, err := s.companies.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("find company: %w", err)
		}
		if c == nil {
			return nil, fmt.Errorf("company %s: %w", id, models.ErrNotFound)
		}
	}

	existing, err := s.partnerships.FindByCompanies(ctx, companyA, companyB)
	if err != nil {
		return nil, fmt.Errorf("check existing partnership: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("companies %s and %s: %w", companyA, companyB, models.ErrDuplicatePartnership)
	}

	p := models.NewCompanyPartnership(companyA, companyB)
	if err := s.partnerships.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save partnership: %w", err)
	}
	return &p, nil
}

// Dissolve removes the partnership between two companies.
func (s *PartnershipService) Dissolve(ctx context.Context, companyA, companyB uuid.UUID) error {
	p, err := s.partnerships.FindByCompanies(ctx, companyA, companyB)
	if err != nil {
		return fmt.Errorf("find partnership: %w", err)
	}
	if p == nil {
		return fmt.Errorf("partnership of %s and %s: %w", companyA, companyB, models.ErrNotFound)
	}
	if err := s.partnerships.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete partnership: %w", err)
	}
	return nil
}

// Partners resolves the companies partnered with the given one. Each
// edge is independent, so a missing partner company (deleted since the
// edge was written) is skipped rather than failing the whole list.
func (s *PartnershipService) Partners(ctx context.Context, companyID uuid.UUID) ([]models.Company, error) {
	edges, err := s.partnerships.FindByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list partnerships: %w", err)
	}

	partners := make([]models.Company, 0, len(edges))
	for _, edge := range edges {
		partnerID := edge.PartnerOf(companyID)
		if partnerID == uuid.Nil {
			continue
		}
		c, err := s.companies.FindByID(ctx, partnerID)
		if err != nil {
			return nil, fmt.Errorf("find partner company: %w", err)
		}
		if c != nil {
			partners = append(partners, *c)
		}
	}
	return partners, nil
}
