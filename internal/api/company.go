package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
	"github.com/atelierhq/sheetwork/internal/service"
)

// requireAdministrator answers 403 itself unless the caller holds the
// Administrator role in the company. The bool tells the handler whether
// to continue.
func requireAdministrator(c *gin.Context, userCompanies repository.UserCompanyRepository, companyID uuid.UUID, logger *zap.Logger) bool {
	uc, err := userCompanies.FindByUserIDAndCompanyID(c.Request.Context(), middleware.GetUserID(c), companyID)
	if err != nil {
		respondError(c, logger, err)
		return false
	}
	if uc == nil || uc.Role != models.RoleAdministrator {
		c.JSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
		return false
	}
	return true
}

// CompanyHandler handles company CRUD, membership and partnerships.
type CompanyHandler struct {
	companies    repository.CompanyRepository
	memberships  *service.MembershipService
	partnerships *service.PartnershipService
	userCompany  repository.UserCompanyRepository
	logger       *zap.Logger
}

func NewCompanyHandler(
	companies repository.CompanyRepository,
	memberships *service.MembershipService,
	partnerships *service.PartnershipService,
	userCompany repository.UserCompanyRepository,
	logger *zap.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		companies:    companies,
		memberships:  memberships,
		partnerships: partnerships,
		userCompany:  userCompany,
		logger:       logger,
	}
}

type createCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /v1/companies. The creator automatically becomes
// the company's first Administrator.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	company := models.NewCompany(req.Name)
	if err := h.companies.Save(ctx, company); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if _, err := h.memberships.AddUserToCompany(ctx, userID, company.ID, models.RoleAdministrator); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// Get handles GET /v1/companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	company, err := h.companies.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	c.JSON(http.StatusOK, company)
}

type updateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// Update handles PATCH /v1/companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireAdministrator(c, h.userCompany, id, h.logger) {
		return
	}

	ctx := c.Request.Context()
	company, err := h.companies.FindByID(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	updated := company.WithName(req.Name)
	if err := h.companies.Save(ctx, updated); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/companies/:id
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if !requireAdministrator(c, h.userCompany, id, h.logger) {
		return
	}

	if err := h.companies.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers handles GET /v1/companies/:id/members
func (h *CompanyHandler) ListMembers(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	members, err := h.userCompany.FindByCompanyID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

type changeRoleRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   int    `json:"role" binding:"required"`
}

// ChangeMemberRole handles PUT /v1/companies/:id/members/role
func (h *CompanyHandler) ChangeMemberRole(c *gin.Context) {
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireAdministrator(c, h.userCompany, companyID, h.logger) {
		return
	}

	role, err := models.RoleOf(req.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	userID, ok := bodyUUID(c, req.UserID, "user_id")
	if !ok {
		return
	}

	uc, err := h.memberships.ChangeRole(c.Request.Context(), userID, companyID, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, uc)
}

type createPartnershipRequest struct {
	PartnerCompanyID string `json:"partner_company_id" binding:"required,uuid"`
}

// CreatePartnership handles POST /v1/companies/:id/partnerships
func (h *CompanyHandler) CreatePartnership(c *gin.Context) {
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createPartnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireAdministrator(c, h.userCompany, companyID, h.logger) {
		return
	}

	partnerID, ok := bodyUUID(c, req.PartnerCompanyID, "partner_company_id")
	if !ok {
		return
	}

	p, err := h.partnerships.Establish(c.Request.Context(), companyID, partnerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ListPartners handles GET /v1/companies/:id/partnerships
func (h *CompanyHandler) ListPartners(c *gin.Context) {
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	partners, err := h.partnerships.Partners(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, partners)
}
