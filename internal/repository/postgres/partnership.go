package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/sheetwork/internal/models"
)

type PartnershipStore struct {
	pool *pgxpool.Pool
}

func NewPartnershipStore(pool *pgxpool.Pool) *PartnershipStore {
	return &PartnershipStore{pool: pool}
}

func (s *PartnershipStore) Save(ctx context.Context, p models.CompanyPartnership) error {
	query := `
		INSERT INTO company_partnerships (id, company_id1, company_id2, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	_, err := s.pool.Exec(ctx, query, p.ID, p.CompanyID1, p.CompanyID2, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save partnership: %w", err)
	}
	return nil
}

// FindByCompanies accepts the pair in either order. Rows are stored
// canonically (smaller id first), so we normalize before querying
// instead of OR-ing both orderings.
func (s *PartnershipStore) FindByCompanies(ctx context.Context, companyA, companyB uuid.UUID) (*models.CompanyPartnership, error) {
	first, second := companyA, companyB
	if strings.Compare(first.String(), second.String()) > 0 {
		first, second = second, first
	}

	query := `
		SELECT id, company_id1, company_id2, created_at
		FROM company_partnerships
		WHERE company_id1 = $1 AND company_id2 = $2`

	var p models.CompanyPartnership
	err := s.pool.QueryRow(ctx, query, first, second).Scan(&p.ID, &p.CompanyID1, &p.CompanyID2, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partnership: %w", err)
	}
	return &p, nil
}

func (s *PartnershipStore) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]models.CompanyPartnership, error) {
	query := `
		SELECT id, company_id1, company_id2, created_at
		FROM company_partnerships
		WHERE company_id1 = $1 OR company_id2 = $1
		ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list partnerships: %w", err)
	}
	defer rows.Close()

	partnerships := make([]models.CompanyPartnership, 0)
	for rows.Next() {
		var p models.CompanyPartnership
		if err := rows.Scan(&p.ID, &p.CompanyID1, &p.CompanyID2, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan partnership: %w", err)
		}
		partnerships = append(partnerships, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partnerships: %w", err)
	}

	return partnerships, nil
}

func (s *PartnershipStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM company_partnerships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete partnership: %w", err)
	}
	return nil
}
