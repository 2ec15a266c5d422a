package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
	"github.com/atelierhq/sheetwork/internal/service"
)

// Guard resolves a project and answers "may this user read/edit it".
//
// The access service itself takes direct membership as a boolean; the
// guard is the piece that actually asks the project_members table and
// stitches the two together for handlers.
type Guard struct {
	projects repository.ProjectRepository
	members  repository.ProjectMemberRepository
	access   *service.AccessService
}

func NewGuard(projects repository.ProjectRepository, members repository.ProjectMemberRepository, access *service.AccessService) *Guard {
	return &Guard{projects: projects, members: members, access: access}
}

// ProjectForRead loads the project and checks read access. The bool is
// false both when the project is missing (err wraps ErrNotFound) and
// when access is denied (project returned, allowed false, err nil).
func (g *Guard) ProjectForRead(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, bool, error) {
	return g.check(ctx, projectID, userID, g.access.CanAccess)
}

// ProjectForWrite loads the project and checks edit access.
func (g *Guard) ProjectForWrite(ctx context.Context, projectID, userID uuid.UUID) (*models.Project, bool, error) {
	return g.check(ctx, projectID, userID, g.access.CanEdit)
}

func (g *Guard) check(
	ctx context.Context,
	projectID, userID uuid.UUID,
	decide func(context.Context, models.Project, uuid.UUID, bool) (bool, error),
) (*models.Project, bool, error) {
	project, err := g.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, false, fmt.Errorf("find project: %w", err)
	}
	if project == nil {
		return nil, false, fmt.Errorf("project %s: %w", projectID, models.ErrNotFound)
	}

	isMember, err := g.members.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("check project membership: %w", err)
	}

	allowed, err := decide(ctx, *project, userID, isMember)
	if err != nil {
		return nil, false, err
	}
	return project, allowed, nil
}
