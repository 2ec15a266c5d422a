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

type InvitationStore struct {
	pool *pgxpool.Pool
}

func NewInvitationStore(pool *pgxpool.Pool) *InvitationStore {
	return &InvitationStore{pool: pool}
}

const invitationColumns = `id, company_id, email, token, role, status, invited_by, expires_at, created_at, updated_at`

func (s *InvitationStore) Save(ctx context.Context, inv models.CompanyInvitation) error {
	query := `
		INSERT INTO company_invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`

	_, err := s.pool.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.Email, inv.Token, int(inv.Role),
		string(inv.Status), inv.InvitedBy, inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save invitation: %w", err)
	}
	return nil
}

func (s *InvitationStore) FindByID(ctx context.Context, id uuid.UUID) (*models.CompanyInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM company_invitations WHERE id = $1`
	return s.one(ctx, query, id)
}

func (s *InvitationStore) FindByToken(ctx context.Context, token string) (*models.CompanyInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM company_invitations WHERE token = $1`
	return s.one(ctx, query, token)
}

func (s *InvitationStore) FindPendingByCompanyAndEmail(ctx context.Context, companyID uuid.UUID, email string) (*models.CompanyInvitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM company_invitations
		WHERE company_id = $1 AND email = $2 AND status = 'pending'
		LIMIT 1`
	return s.one(ctx, query, companyID, email)
}

func (s *InvitationStore) FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]models.CompanyInvitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM company_invitations
		WHERE company_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	invitations := make([]models.CompanyInvitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}

	return invitations, nil
}

func (s *InvitationStore) one(ctx context.Context, query string, args ...any) (*models.CompanyInvitation, error) {
	inv, err := scanInvitation(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func scanInvitation(row pgx.Row) (*models.CompanyInvitation, error) {
	var inv models.CompanyInvitation
	var role int
	var status string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.Email, &inv.Token, &role,
		&status, &inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r, err := models.RoleOf(role)
	if err != nil {
		return nil, err
	}
	inv.Role = r
	inv.Status = models.InvitationStatus(status)
	return &inv, nil
}
