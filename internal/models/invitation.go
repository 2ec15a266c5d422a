package models

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvitationStatus is the state of a company invitation. Pending is the
// only non-terminal state: Accepted, Rejected and Expired are final.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
	InvitationExpired  InvitationStatus = "expired"
)

// DefaultInvitationTTL is how long a fresh invitation stays acceptable.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// CompanyInvitation invites an email address into a company with a
// preassigned role. The token is the only thing the invitee needs; it is
// opaque, URL-safe and unique.
//
// Transitions (all others fail with ErrInvalidTransition):
//
//	Pending --Accept--> Accepted    (only while not expired)
//	Pending --Reject--> Rejected    (allowed even past ExpiresAt)
//	Pending --Expire--> Expired
type CompanyInvitation struct {
	ID        uuid.UUID        `json:"id"`
	CompanyID uuid.UUID        `json:"company_id"`
	Email     string           `json:"email"`
	Token     string           `json:"token"`
	Role      UserRole         `json:"role"`
	Status    InvitationStatus `json:"status"`
	InvitedBy uuid.UUID        `json:"invited_by"`
	ExpiresAt time.Time        `json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func NewCompanyInvitation(companyID uuid.UUID, email string, role UserRole, invitedBy uuid.UUID, ttl time.Duration) (CompanyInvitation, error) {
	if ttl <= 0 {
		ttl = DefaultInvitationTTL
	}
	token, err := newInvitationToken()
	if err != nil {
		return CompanyInvitation{}, fmt.Errorf("generate invitation token: %w", err)
	}
	now := time.Now()
	return CompanyInvitation{
		ID:        uuid.New(),
		CompanyID: companyID,
		Email:     email,
		Token:     token,
		Role:      role,
		Status:    InvitationPending,
		InvitedBy: invitedBy,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsExpired is strict: an invitation expiring exactly now is still valid.
func (i CompanyInvitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

func (i CompanyInvitation) CanBeAccepted() bool {
	return i.Status == InvitationPending && !i.IsExpired()
}

// Accept moves Pending → Accepted. Fails once expired.
func (i CompanyInvitation) Accept() (CompanyInvitation, error) {
	if !i.CanBeAccepted() {
		return CompanyInvitation{}, fmt.Errorf("accept invitation in status %s (expired=%t): %w",
			i.Status, i.IsExpired(), ErrInvalidTransition)
	}
	i.Status = InvitationAccepted
	i.UpdatedAt = time.Now()
	return i, nil
}

// Reject moves Pending → Rejected. Expiry is deliberately NOT checked:
// an invitee may still decline an invitation that already lapsed, so
// Reject is intentionally asymmetric with Accept.
func (i CompanyInvitation) Reject() (CompanyInvitation, error) {
	if i.Status != InvitationPending {
		return CompanyInvitation{}, fmt.Errorf("reject invitation in status %s: %w", i.Status, ErrInvalidTransition)
	}
	i.Status = InvitationRejected
	i.UpdatedAt = time.Now()
	return i, nil
}

// Expire moves Pending → Expired. Called by cleanup, not by invitees.
func (i CompanyInvitation) Expire() (CompanyInvitation, error) {
	if i.Status != InvitationPending {
		return CompanyInvitation{}, fmt.Errorf("expire invitation in status %s: %w", i.Status, ErrInvalidTransition)
	}
	i.Status = InvitationExpired
	i.UpdatedAt = time.Now()
	return i, nil
}

// newInvitationToken returns 32 random bytes, URL-safe base64 encoded.
// RawURLEncoding keeps the token free of '=', '+' and '/' so it can sit
// in a path segment without escaping.
func newInvitationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
