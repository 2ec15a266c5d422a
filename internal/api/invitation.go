package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
	"github.com/atelierhq/sheetwork/internal/service"
)

// InvitationHandler handles the invite → accept/reject lifecycle.
// Creating, listing and sweeping a company's invitations requires the
// Administrator role in that company; accept/reject only need the token.
type InvitationHandler struct {
	invitations     *service.InvitationService
	invitationStore repository.CompanyInvitationRepository
	userCompanies   repository.UserCompanyRepository
	logger          *zap.Logger
}

func NewInvitationHandler(
	invitations *service.InvitationService,
	invitationStore repository.CompanyInvitationRepository,
	userCompanies repository.UserCompanyRepository,
	logger *zap.Logger,
) *InvitationHandler {
	return &InvitationHandler{
		invitations:     invitations,
		invitationStore: invitationStore,
		userCompanies:   userCompanies,
		logger:          logger,
	}
}

type createInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  int    `json:"role" binding:"required"`

	// ExpiresInDays defaults to 7 when omitted.
	ExpiresInDays int `json:"expires_in_days"`
}

// Create handles POST /v1/companies/:id/invitations
func (h *InvitationHandler) Create(c *gin.Context) {
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !requireAdministrator(c, h.userCompanies, companyID, h.logger) {
		return
	}

	role, err := models.RoleOf(req.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	invitedBy := middleware.GetUserID(c)
	ttl := time.Duration(req.ExpiresInDays) * 24 * time.Hour

	inv, err := h.invitations.Invite(c.Request.Context(), companyID, req.Email, role, invitedBy, ttl)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

// List handles GET /v1/companies/:id/invitations
func (h *InvitationHandler) List(c *gin.Context) {
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if !requireAdministrator(c, h.userCompanies, companyID, h.logger) {
		return
	}

	invitations, err := h.invitationStore.FindByCompanyID(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, invitations)
}

// Accept handles POST /v1/invitations/:token/accept. The accepting user
// joins the company with the invited role.
func (h *InvitationHandler) Accept(c *gin.Context) {
	token := c.Param("token")
	userID := middleware.GetUserID(c)

	inv, err := h.invitations.Accept(c.Request.Context(), token, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// Reject handles POST /v1/invitations/:token/reject
func (h *InvitationHandler) Reject(c *gin.Context) {
	token := c.Param("token")

	inv, err := h.invitations.Reject(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// ExpireOverdue handles POST /v1/companies/:id/invitations/expire, an
// admin sweep moving lapsed Pending invitations to Expired.
func (h *InvitationHandler) ExpireOverdue(c *gin.Context) {
	companyID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if !requireAdministrator(c, h.userCompanies, companyID, h.logger) {
		return
	}

	n, err := h.invitations.ExpireOverdue(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": n})
}
