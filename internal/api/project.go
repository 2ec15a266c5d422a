package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// ProjectHandler handles project CRUD and direct membership. Read
// endpoints go through the guard's CanAccess, write endpoints through
// CanEdit.
type ProjectHandler struct {
	projects repository.ProjectRepository
	members  repository.ProjectMemberRepository
	guard    *Guard
	logger   *zap.Logger
}

func NewProjectHandler(projects repository.ProjectRepository, members repository.ProjectMemberRepository, guard *Guard, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, members: members, guard: guard, logger: logger}
}

type createProjectRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      *string  `json:"description"`
	Visibility       string   `json:"visibility" binding:"required"`
	CompanyIDs       []string `json:"company_ids"`
	ClientCompanyIDs []string `json:"client_company_ids"`
}

// Create handles POST /v1/projects. The creator becomes the first
// direct member, so a private project is immediately usable.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visibility, err := models.VisibilityOf(req.Visibility)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	companyIDs, ok := parseUUIDs(c, req.CompanyIDs, "company_ids")
	if !ok {
		return
	}
	clientCompanyIDs, ok := parseUUIDs(c, req.ClientCompanyIDs, "client_company_ids")
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	project := models.NewProject(req.Name, req.Description, visibility, companyIDs, clientCompanyIDs)
	if err := h.projects.Save(ctx, project); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.members.Add(ctx, project.ID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// Get handles GET /v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	project, allowed, err := h.guard.ProjectForRead(c.Request.Context(), projectID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	c.JSON(http.StatusOK, project)
}

type updateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
}

// Update handles PATCH /v1/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	project, allowed, err := h.guard.ProjectForWrite(ctx, projectID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	updated := project.WithDetails(req.Name, req.Description)
	if req.Visibility != nil {
		visibility, err := models.VisibilityOf(*req.Visibility)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		updated = updated.WithVisibility(visibility)
	}

	if err := h.projects.Save(ctx, updated); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	_, allowed, err := h.guard.ProjectForWrite(ctx, projectID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	if err := h.projects.Delete(ctx, projectID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// AddMember handles POST /v1/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	memberID, ok := bodyUUID(c, req.UserID, "user_id")
	if !ok {
		return
	}

	callerID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	_, allowed, err := h.guard.ProjectForWrite(ctx, projectID, callerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	if err := h.members.Add(ctx, projectID, memberID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveMember handles DELETE /v1/projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	memberID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}

	callerID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	_, allowed, err := h.guard.ProjectForWrite(ctx, projectID, callerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	if err := h.members.Remove(ctx, projectID, memberID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /v1/projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	_, allowed, err := h.guard.ProjectForRead(ctx, projectID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	members, err := h.members.ListByProject(ctx, projectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func parseUUIDs(c *gin.Context, raw []string, field string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
