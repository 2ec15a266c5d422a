package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelierhq/sheetwork/internal/models"
)

type UserCompanyStore struct {
	pool *pgxpool.Pool
}

func NewUserCompanyStore(pool *pgxpool.Pool) *UserCompanyStore {
	return &UserCompanyStore{pool: pool}
}

func (s *UserCompanyStore) Save(ctx context.Context, uc models.UserCompany) error {
	query := `
		INSERT INTO user_companies (id, user_id, company_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query, uc.ID, uc.UserID, uc.CompanyID, int(uc.Role), uc.CreatedAt, uc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save user company: %w", err)
	}
	return nil
}

func (s *UserCompanyStore) FindByUserIDAndCompanyID(ctx context.Context, userID, companyID uuid.UUID) (*models.UserCompany, error) {
	query := `
		SELECT id, user_id, company_id, role, created_at, updated_at
		FROM user_companies
		WHERE user_id = $1 AND company_id = $2`

	uc, err := scanUserCompany(s.pool.QueryRow(ctx, query, userID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user company: %w", err)
	}
	return uc, nil
}

func (s *UserCompanyStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.UserCompany, error) {
	query := `
		SELECT id, user_id, company_id, role, created_at, updated_at
		FROM user_companies
		WHERE user_id = $1
		ORDER BY created_at`

	return s.list(ctx, query, userID)
}

func (s *UserCompanyStore) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]models.UserCompany, error) {
	query := `
		SELECT id, user_id, company_id, role, created_at, updated_at
		FROM user_companies
		WHERE company_id = $1
		ORDER BY created_at`

	return s.list(ctx, query, companyID)
}

func (s *UserCompanyStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user company: %w", err)
	}
	return nil
}

func (s *UserCompanyStore) list(ctx context.Context, query string, arg any) ([]models.UserCompany, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list user companies: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.UserCompany, 0)
	for rows.Next() {
		uc, err := scanUserCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user company: %w", err)
		}
		memberships = append(memberships, *uc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user companies: %w", err)
	}

	return memberships, nil
}

func scanUserCompany(row pgx.Row) (*models.UserCompany, error) {
	var uc models.UserCompany
	var role int
	err := row.Scan(&uc.ID, &uc.UserID, &uc.CompanyID, &role, &uc.CreatedAt, &uc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	// Ranks come from a CHECK-constrained column, so RoleOf failing here
	// means the schema and the enum drifted apart.
	r, err := models.RoleOf(role)
	if err != nil {
		return nil, err
	}
	uc.Role = r
	return &uc, nil
}
