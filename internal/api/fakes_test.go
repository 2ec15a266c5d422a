package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/sheetwork/internal/middleware"
	"github.com/atelierhq/sheetwork/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext builds a gin context with a JSON body, path params and an
// authenticated caller, the way the middleware chain would.
func testContext(t *testing.T, method string, body any, userID uuid.UUID, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/test", &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	c.Set(middleware.ContextKeyUserID, userID)
	return c, w
}

// In-memory repositories for handler tests, mirroring the conventions
// of the real stores: nil on miss, overwrite-on-id Save.

type fakeUserCompanyRepo struct {
	rows []models.UserCompany
}

func (f *fakeUserCompanyRepo) Save(_ context.Context, uc models.UserCompany) error {
	for i := range f.rows {
		if f.rows[i].ID == uc.ID {
			f.rows[i] = uc
			return nil
		}
	}
	f.rows = append(f.rows, uc)
	return nil
}

func (f *fakeUserCompanyRepo) FindByUserIDAndCompanyID(_ context.Context, userID, companyID uuid.UUID) (*models.UserCompany, error) {
	for _, uc := range f.rows {
		if uc.UserID == userID && uc.CompanyID == companyID {
			cp := uc
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserCompanyRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.UserCompany, error) {
	out := make([]models.UserCompany, 0)
	for _, uc := range f.rows {
		if uc.UserID == userID {
			out = append(out, uc)
		}
	}
	return out, nil
}

func (f *fakeUserCompanyRepo) FindByCompanyID(_ context.Context, companyID uuid.UUID) ([]models.UserCompany, error) {
	out := make([]models.UserCompany, 0)
	for _, uc := range f.rows {
		if uc.CompanyID == companyID {
			out = append(out, uc)
		}
	}
	return out, nil
}

func (f *fakeUserCompanyRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, uc := range f.rows {
		if uc.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeCompanyRepo struct {
	companies []models.Company
}

func (f *fakeCompanyRepo) Save(_ context.Context, c models.Company) error {
	for i := range f.companies {
		if f.companies[i].ID == c.ID {
			f.companies[i] = c
			return nil
		}
	}
	f.companies = append(f.companies, c)
	return nil
}

func (f *fakeCompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCompanyRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, c := range f.companies {
		if c.ID == id {
			f.companies = append(f.companies[:i], f.companies[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakePartnershipRepo struct {
	edges []models.CompanyPartnership
}

func (f *fakePartnershipRepo) Save(_ context.Context, p models.CompanyPartnership) error {
	f.edges = append(f.edges, p)
	return nil
}

func (f *fakePartnershipRepo) FindByCompanies(_ context.Context, companyA, companyB uuid.UUID) (*models.CompanyPartnership, error) {
	a, b := companyA, companyB
	if strings.Compare(a.String(), b.String()) > 0 {
		a, b = b, a
	}
	for _, p := range f.edges {
		if p.CompanyID1 == a && p.CompanyID2 == b {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePartnershipRepo) FindByCompanyID(_ context.Context, companyID uuid.UUID) ([]models.CompanyPartnership, error) {
	out := make([]models.CompanyPartnership, 0)
	for _, p := range f.edges {
		if p.Involves(companyID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePartnershipRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range f.edges {
		if p.ID == id {
			f.edges = append(f.edges[:i], f.edges[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeInvitationRepo struct {
	invitations []models.CompanyInvitation
}

func (f *fakeInvitationRepo) Save(_ context.Context, inv models.CompanyInvitation) error {
	for i := range f.invitations {
		if f.invitations[i].ID == inv.ID {
			f.invitations[i] = inv
			return nil
		}
	}
	f.invitations = append(f.invitations, inv)
	return nil
}

func (f *fakeInvitationRepo) FindByID(_ context.Context, id uuid.UUID) (*models.CompanyInvitation, error) {
	for _, inv := range f.invitations {
		if inv.ID == id {
			cp := inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) FindByToken(_ context.Context, token string) (*models.CompanyInvitation, error) {
	for _, inv := range f.invitations {
		if inv.Token == token {
			cp := inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) FindPendingByCompanyAndEmail(_ context.Context, companyID uuid.UUID, email string) (*models.CompanyInvitation, error) {
	for _, inv := range f.invitations {
		if inv.CompanyID == companyID && inv.Email == email && inv.Status == models.InvitationPending {
			cp := inv
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) FindByCompanyID(_ context.Context, companyID uuid.UUID) ([]models.CompanyInvitation, error) {
	out := make([]models.CompanyInvitation, 0)
	for _, inv := range f.invitations {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type fakeProjectRepo struct {
	projects []models.Project
}

func (f *fakeProjectRepo) Save(_ context.Context, p models.Project) error {
	for i := range f.projects {
		if f.projects[i].ID == p.ID {
			f.projects[i] = p
			return nil
		}
	}
	f.projects = append(f.projects, p)
	return nil
}

func (f *fakeProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range f.projects {
		if p.ID == id {
			f.projects = append(f.projects[:i], f.projects[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeProjectMemberRepo struct {
	members []models.ProjectMember
}

func (f *fakeProjectMemberRepo) Add(_ context.Context, projectID, userID uuid.UUID) error {
	for _, m := range f.members {
		if m.ProjectID == projectID && m.UserID == userID {
			return nil
		}
	}
	f.members = append(f.members, models.ProjectMember{ProjectID: projectID, UserID: userID})
	return nil
}

func (f *fakeProjectMemberRepo) Remove(_ context.Context, projectID, userID uuid.UUID) error {
	for i, m := range f.members {
		if m.ProjectID == projectID && m.UserID == userID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeProjectMemberRepo) IsMember(_ context.Context, projectID, userID uuid.UUID) (bool, error) {
	for _, m := range f.members {
		if m.ProjectID == projectID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProjectMemberRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.ProjectMember, error) {
	out := make([]models.ProjectMember, 0)
	for _, m := range f.members {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeSheetRepo struct {
	sheets []models.Sheet
}

func (f *fakeSheetRepo) Save(_ context.Context, s models.Sheet) error {
	for i := range f.sheets {
		if f.sheets[i].ID == s.ID {
			f.sheets[i] = s
			return nil
		}
	}
	f.sheets = append(f.sheets, s)
	return nil
}

func (f *fakeSheetRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Sheet, error) {
	for _, s := range f.sheets {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSheetRepo) FindByProjectID(_ context.Context, projectID uuid.UUID) ([]models.Sheet, error) {
	out := make([]models.Sheet, 0)
	for _, s := range f.sheets {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSheetRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range f.sheets {
		if s.ID == id {
			f.sheets = append(f.sheets[:i], f.sheets[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeMarkerRepo struct {
	markers []models.SheetMarker
}

func (f *fakeMarkerRepo) Save(_ context.Context, m models.SheetMarker) error {
	for i := range f.markers {
		if f.markers[i].ID == m.ID {
			f.markers[i] = m
			return nil
		}
	}
	f.markers = append(f.markers, m)
	return nil
}

func (f *fakeMarkerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.SheetMarker, error) {
	for _, m := range f.markers {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMarkerRepo) FindLiveBySheetID(_ context.Context, sheetID uuid.UUID) ([]models.SheetMarker, error) {
	out := make([]models.SheetMarker, 0)
	for _, m := range f.markers {
		if m.SheetID == sheetID && m.IsLive() {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMarkerRepo) FindByVersionID(_ context.Context, versionID uuid.UUID) ([]models.SheetMarker, error) {
	out := make([]models.SheetMarker, 0)
	for _, m := range f.markers {
		if m.SheetVersionID != nil && *m.SheetVersionID == versionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMarkerRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, m := range f.markers {
		if m.ID == id {
			f.markers = append(f.markers[:i], f.markers[i+1:]...)
			return nil
		}
	}
	return nil
}
