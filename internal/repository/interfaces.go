package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/atelierhq/sheetwork/internal/models"
)

// Conventions shared by every repository here:
//
//   - context.Context first on every method. Repos do I/O; if the HTTP
//     request is cancelled, the query is cancelled with it.
//   - Find* returns nil, nil when the row does not exist. Services turn
//     that into models.ErrNotFound; the repo itself never invents domain
//     errors.
//   - Save has upsert semantics: insert on first save, full overwrite on
//     later saves of the same id. Entities are immutable values, so
//     "update" is always save-the-new-value.
//   - List methods return an empty slice, not nil, so JSON serializes to
//     [] instead of null.

// UserRepository handles user accounts.
type UserRepository interface {
	Save(ctx context.Context, u models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// CompanyRepository handles companies.
type CompanyRepository interface {
	Save(ctx context.Context, c models.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserCompanyRepository handles the (user, company, role) join rows.
type UserCompanyRepository interface {
	Save(ctx context.Context, uc models.UserCompany) error

	// FindByUserIDAndCompanyID is the access-control hot path: every
	// company-internal visibility check resolves the caller's role
	// through it.
	FindByUserIDAndCompanyID(ctx context.Context, userID, companyID uuid.UUID) (*models.UserCompany, error)

	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.UserCompany, error)
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]models.UserCompany, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyPartnershipRepository handles the undirected company edges.
// Callers pass ids in any order; implementations normalize to the
// canonical (smaller, larger) pair before querying.
type CompanyPartnershipRepository interface {
	Save(ctx context.Context, p models.CompanyPartnership) error
	FindByCompanies(ctx context.Context, companyA, companyB uuid.UUID) (*models.CompanyPartnership, error)
	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]models.CompanyPartnership, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyInvitationRepository handles invitations.
type CompanyInvitationRepository interface {
	Save(ctx context.Context, inv models.CompanyInvitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CompanyInvitation, error)
	FindByToken(ctx context.Context, token string) (*models.CompanyInvitation, error)

	// FindPendingByCompanyAndEmail backs the duplicate-invitation guard:
	// at most one Pending invitation per (company, email).
	FindPendingByCompanyAndEmail(ctx context.Context, companyID uuid.UUID, email string) (*models.CompanyInvitation, error)

	FindByCompanyID(ctx context.Context, companyID uuid.UUID) ([]models.CompanyInvitation, error)
}

// ProjectRepository handles projects.
type ProjectRepository interface {
	Save(ctx context.Context, p models.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectMemberRepository is the project-membership oracle. Direct
// membership lives here, outside the Project entity; the API layer
// resolves IsMember and hands the boolean to the access service.
type ProjectMemberRepository interface {
	Add(ctx context.Context, projectID, userID uuid.UUID) error
	Remove(ctx context.Context, projectID, userID uuid.UUID) error
	IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectMember, error)
}

// SheetRepository handles the live sheets.
type SheetRepository interface {
	Save(ctx context.Context, s models.Sheet) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Sheet, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.Sheet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SheetVersionRepository handles the immutable snapshots. There is no
// update path: versions are written once.
type SheetVersionRepository interface {
	Save(ctx context.Context, v models.SheetVersion) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SheetVersion, error)
	FindBySheetID(ctx context.Context, sheetID uuid.UUID) ([]models.SheetVersion, error)
}

// SheetMarkerRepository handles markers, live and frozen.
type SheetMarkerRepository interface {
	Save(ctx context.Context, m models.SheetMarker) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SheetMarker, error)

	// FindLiveBySheetID returns only markers with sheet_version_id NULL,
	// the set that gets duplicated when a version is created.
	FindLiveBySheetID(ctx context.Context, sheetID uuid.UUID) ([]models.SheetMarker, error)

	FindByVersionID(ctx context.Context, versionID uuid.UUID) ([]models.SheetMarker, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SheetMarkerCommentRepository handles marker comments.
type SheetMarkerCommentRepository interface {
	Save(ctx context.Context, c models.SheetMarkerComment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SheetMarkerComment, error)
	FindByMarkerID(ctx context.Context, markerID uuid.UUID) ([]models.SheetMarkerComment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
