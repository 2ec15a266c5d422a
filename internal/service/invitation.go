package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atelierhq/sheetwork/internal/models"
	"github.com/atelierhq/sheetwork/internal/repository"
)

// InvitationService runs the invite → accept/reject lifecycle. The
// state-machine rules live on the entity; this service adds the
// duplicate guard on creation and the membership side effect on accept.
type InvitationService struct {
	invitations repository.CompanyInvitationRepository
	memberships *MembershipService
	logger      *zap.Logger
}

func NewInvitationService(invitations repository.CompanyInvitationRepository, memberships *MembershipService, logger *zap.Logger) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		memberships: memberships,
		logger:      logger,
	}
}

// Invite creates a Pending invitation for an email address. At most one
// Pending invitation may exist per (company, email); a second attempt
// fails with ErrDuplicateInvitation. ttl <= 0 falls back to the default
// seven days.
func (s *InvitationService) Invite(ctx context.Context, companyID uuid.UUID, email string, role models.UserRole, invitedBy uuid.UUID, ttl time.Duration) (*models.CompanyInvitation, error) {
	existing, err := s.invitations.FindPendingByCompanyAndEmail(ctx, companyID, email)
	if err != nil {
		return nil, fmt.Errorf("check pending invitation: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("company %s, email %s: %w", companyID, email, models.ErrDuplicateInvitation)
	}

	inv, err := models.NewCompanyInvitation(companyID, email, role, invitedBy, ttl)
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("save invitation: %w", err)
	}

	s.logger.Info("invitation created",
		zap.String("company_id", companyID.String()),
		zap.String("email", email),
		zap.String("role", inv.Role.String()),
	)
	return &inv, nil
}

// Accept resolves the token, transitions the invitation and joins the
// accepting user to the company with the invited role. If the user
// already belongs to the company, the invitation is still consumed and
// the existing membership (and its role) is left untouched.
func (s *InvitationService) Accept(ctx context.Context, token string, userID uuid.UUID) (*models.CompanyInvitation, error) {
	inv, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	accepted, err := inv.Accept()
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Save(ctx, accepted); err != nil {
		return nil, fmt.Errorf("save invitation: %w", err)
	}

	_, err = s.memberships.AddUserToCompany(ctx, userID, accepted.CompanyID, accepted.Role)
	if err != nil && !errors.Is(err, models.ErrDuplicateMembership) {
		return nil, err
	}

	s.logger.Info("invitation accepted",
		zap.String("company_id", accepted.CompanyID.String()),
		zap.String("user_id", userID.String()),
	)
	return &accepted, nil
}

// Reject declines the invitation. Expiry is not checked here: the
// entity allows rejecting an expired-but-still-Pending invitation.
func (s *InvitationService) Reject(ctx context.Context, token string) (*models.CompanyInvitation, error) {
	inv, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	rejected, err := inv.Reject()
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Save(ctx, rejected); err != nil {
		return nil, fmt.Errorf("save invitation: %w", err)
	}
	return &rejected, nil
}

// ExpireOverdue sweeps a company's Pending invitations past their
// ExpiresAt into the Expired state. Returns how many were expired.
func (s *InvitationService) ExpireOverdue(ctx context.Context, companyID uuid.UUID) (int, error) {
	all, err := s.invitations.FindByCompanyID(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list invitations: %w", err)
	}

	expired := 0
	for _, inv := range all {
		if inv.Status != models.InvitationPending || !inv.IsExpired() {
			continue
		}
		e, err := inv.Expire()
		if err != nil {
			return expired, err
		}
		if err := s.invitations.Save(ctx, e); err != nil {
			return expired, fmt.Errorf("save invitation: %w", err)
		}
		expired++
	}
	return expired, nil
}

func (s *InvitationService) findByToken(ctx context.Context, token string) (*models.CompanyInvitation, error) {
	inv, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	if inv == nil {
		return nil, fmt.Errorf("invitation: %w", models.ErrNotFound)
	}
	return inv, nil
}
